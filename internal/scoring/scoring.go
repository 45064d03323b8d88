package scoring

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/abhisek/archetype/internal/catalog"
)

const (
	// LikertMax is the top of the agreement scale.
	LikertMax = 5

	// LikertMin is the lowest valid response. Anything below it scores 0.
	LikertMin = 1
)

// ArchetypeScore is the derived score of one archetype.
type ArchetypeScore struct {
	Archetype  catalog.Archetype `json:"archetype"`
	Raw        float64           `json:"raw_score"`
	Max        float64           `json:"max_score"`
	Percentage float64           `json:"percentage"`
}

// Likert converts a stored answer into its contribution to a score.
// Unparseable, non-finite and below-floor values count as 0; values above
// the scale are capped at 5. Fractional values are kept.
func Likert(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v < LikertMin {
		return 0
	}
	if v > LikertMax {
		return LikertMax
	}
	return v
}

// Score computes a score per archetype from the answer map and returns them
// sorted by raw score, highest first. Ties keep catalog order.
func Score(archetypes []catalog.Archetype, answers map[string]string) []ArchetypeScore {
	scores := make([]ArchetypeScore, 0, len(archetypes))
	for _, a := range archetypes {
		var raw float64
		for _, n := range a.Questions {
			raw += Likert(answers[catalog.StatementID(n)])
		}
		max := float64(len(a.Questions) * LikertMax)

		var pct float64
		if max > 0 {
			pct = 100 * raw / max
		}

		a.Questions = append([]int(nil), a.Questions...)
		scores = append(scores, ArchetypeScore{
			Archetype:  a,
			Raw:        raw,
			Max:        max,
			Percentage: pct,
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Raw > scores[j].Raw
	})
	return scores
}

// Top returns the first n entries of an already sorted slice, or all of them
// when fewer exist.
func Top(scores []ArchetypeScore, n int) []ArchetypeScore {
	if n < 0 {
		n = 0
	}
	if n > len(scores) {
		n = len(scores)
	}
	return scores[:n]
}

// Rounded returns the percentage rounded to the nearest integer, as shown to
// participants.
func (s ArchetypeScore) Rounded() int {
	return int(math.Round(s.Percentage))
}
