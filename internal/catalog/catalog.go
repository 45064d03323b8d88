package catalog

import (
	_ "embed"
	"fmt"
	"strconv"
)

// Kind is the input kind of a question.
type Kind string

const (
	KindText  Kind = "text"
	KindEmail Kind = "email"
	KindTel   Kind = "tel"
	KindDate  Kind = "date"
	KindRadio Kind = "radio"
)

// Option is a single selectable answer. Every option, including the shared
// Likert scale, uses this one representation.
type Option struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// Question is one step of the questionnaire.
type Question struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Kind     Kind     `json:"kind"`
	Options  []Option `json:"options,omitempty"`
	Required bool     `json:"required"`

	// Number is the 1-based statement number for Likert statements, 0 for
	// personal-data fields.
	Number int `json:"number,omitempty"`
}

// IsLikert reports whether q is answered on the shared 1-5 scale.
func (q Question) IsLikert() bool {
	return q.Kind == KindRadio && q.Number > 0
}

// HasOption reports whether value is one of q's option values.
func (q Question) HasOption(value string) bool {
	for _, o := range q.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// Archetype is one of the personality categories scored by the assessment.
type Archetype struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Focus       string `json:"focus"`
	Color       string `json:"color"`

	// Questions holds the statement numbers assigned to this archetype.
	Questions []int `json:"questions"`
}

// Catalog is the immutable, ordered questionnaire plus archetype definitions.
type Catalog struct {
	questions  []Question
	personal   int
	scale      []Option
	archetypes []Archetype
	byID       map[string]int
}

//go:embed catalog.yaml
var embedded []byte

// def is the package-level catalog, parsed once at init.
var def *Catalog

func init() {
	c, err := Load(embedded)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded catalog is invalid: %v", err))
	}
	def = c
}

// Default returns the process-wide catalog.
func Default() *Catalog {
	return def
}

// StatementID returns the question ID of the n-th Likert statement.
func StatementID(n int) string {
	return "q" + strconv.Itoa(n)
}

// Len returns the number of questions.
func (c *Catalog) Len() int { return len(c.questions) }

// MaxIndex returns the last valid step index.
func (c *Catalog) MaxIndex() int { return len(c.questions) - 1 }

// Questions returns a copy of all questions in step order.
func (c *Catalog) Questions() []Question {
	out := make([]Question, len(c.questions))
	copy(out, c.questions)
	return out
}

// Question returns the question at step index i. The index is clamped into
// the valid range.
func (c *Catalog) Question(i int) Question {
	return c.questions[c.Clamp(i)]
}

// Clamp bounds i to [0, MaxIndex].
func (c *Catalog) Clamp(i int) int {
	if i < 0 {
		return 0
	}
	if i > c.MaxIndex() {
		return c.MaxIndex()
	}
	return i
}

// ByID looks up a question by ID.
func (c *Catalog) ByID(id string) (Question, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Question{}, false
	}
	return c.questions[i], true
}

// Index returns the step index of the question with the given ID, or -1.
func (c *Catalog) Index(id string) int {
	if i, ok := c.byID[id]; ok {
		return i
	}
	return -1
}

// PersonalData returns the personal-data prefix.
func (c *Catalog) PersonalData() []Question {
	return c.Questions()[:c.personal]
}

// Statements returns the Likert statement suffix.
func (c *Catalog) Statements() []Question {
	return c.Questions()[c.personal:]
}

// IsPersonalData reports whether step index i belongs to the personal-data phase.
func (c *Catalog) IsPersonalData(i int) bool {
	return i >= 0 && i < c.personal
}

// Scale returns the shared Likert scale.
func (c *Catalog) Scale() []Option {
	out := make([]Option, len(c.scale))
	copy(out, c.scale)
	return out
}

// Archetypes returns the archetypes in catalog order.
func (c *Catalog) Archetypes() []Archetype {
	out := make([]Archetype, len(c.archetypes))
	for i, a := range c.archetypes {
		a.Questions = append([]int(nil), a.Questions...)
		out[i] = a
	}
	return out
}

// PersonalFieldID returns the ID of the personal-data question with the given
// kind, or "" if the catalog has none.
func (c *Catalog) PersonalFieldID(kind Kind) string {
	for _, q := range c.questions[:c.personal] {
		if q.Kind == kind {
			return q.ID
		}
	}
	return ""
}
