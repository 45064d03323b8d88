package results

import "github.com/abhisek/archetype/internal/insight"

// recordedMsg reports the history write for this result.
type recordedMsg struct {
	ID  string
	Err error
}

// sentMsg reports a dispatch attempt.
type sentMsg struct {
	Err error
}

// insightMsg carries the generated narrative.
type insightMsg struct {
	Insight *insight.Insight
	Err     error
}

// exportedMsg reports a written export file.
type exportedMsg struct {
	Path string
	Err  error
}
