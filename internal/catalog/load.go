package catalog

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// document mirrors the on-disk YAML layout.
type document struct {
	Scale        []Option `yaml:"scale"`
	PersonalData []struct {
		ID       string `yaml:"id"`
		Label    string `yaml:"label"`
		Kind     Kind   `yaml:"kind"`
		Required bool   `yaml:"required"`
	} `yaml:"personal_data"`
	Statements []string `yaml:"statements"`
	Archetypes []struct {
		ID          string `yaml:"id"`
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Focus       string `yaml:"focus"`
		Color       string `yaml:"color"`
		Questions   []int  `yaml:"questions"`
	} `yaml:"archetypes"`
}

// Load parses a catalog document and checks its structural invariants.
func Load(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{
		scale:    doc.Scale,
		personal: len(doc.PersonalData),
		byID:     make(map[string]int),
	}

	for _, p := range doc.PersonalData {
		c.questions = append(c.questions, Question{
			ID:       p.ID,
			Label:    p.Label,
			Kind:     p.Kind,
			Required: p.Required,
		})
	}
	for i, text := range doc.Statements {
		n := i + 1
		c.questions = append(c.questions, Question{
			ID:       StatementID(n),
			Label:    fmt.Sprintf("%d - %s", n, text),
			Kind:     KindRadio,
			Options:  doc.Scale,
			Required: true,
			Number:   n,
		})
	}
	for _, a := range doc.Archetypes {
		c.archetypes = append(c.archetypes, Archetype{
			ID:          a.ID,
			Name:        a.Name,
			Description: a.Description,
			Focus:       a.Focus,
			Color:       a.Color,
			Questions:   a.Questions,
		})
	}

	if err := validate(c, len(doc.Statements)); err != nil {
		return nil, err
	}
	for i, q := range c.questions {
		c.byID[q.ID] = i
	}
	return c, nil
}

// validate performs all structural checks on a freshly parsed catalog.
// Returns a combined error describing all problems found, or nil if valid.
func validate(c *Catalog, statements int) error {
	var errs []string

	if len(c.questions) == 0 {
		return errors.New("catalog has no questions")
	}
	if len(c.scale) == 0 && statements > 0 {
		errs = append(errs, "statements present but scale is empty")
	}

	seen := make(map[string]bool, len(c.questions))
	for _, q := range c.questions {
		if q.ID == "" {
			errs = append(errs, "question with empty ID")
			continue
		}
		if seen[q.ID] {
			errs = append(errs, fmt.Sprintf("duplicate question ID: %q", q.ID))
		}
		seen[q.ID] = true

		values := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			if values[o.Value] {
				errs = append(errs, fmt.Sprintf("question %q has duplicate option value %q", q.ID, o.Value))
			}
			values[o.Value] = true
		}
	}

	for _, q := range c.questions[:c.personal] {
		switch q.Kind {
		case KindText, KindEmail, KindTel, KindDate:
		default:
			errs = append(errs, fmt.Sprintf("personal-data question %q has unsupported kind %q", q.ID, q.Kind))
		}
	}

	// Every statement must belong to exactly one archetype.
	owner := make(map[int]string, statements)
	archIDs := make(map[string]bool, len(c.archetypes))
	for _, a := range c.archetypes {
		if archIDs[a.ID] {
			errs = append(errs, fmt.Sprintf("duplicate archetype ID: %q", a.ID))
		}
		archIDs[a.ID] = true
		if len(a.Questions) == 0 {
			errs = append(errs, fmt.Sprintf("archetype %q has no questions", a.ID))
		}
		for _, n := range a.Questions {
			if n < 1 || n > statements {
				errs = append(errs, fmt.Sprintf("archetype %q references nonexistent statement %d", a.ID, n))
				continue
			}
			if prev, ok := owner[n]; ok {
				errs = append(errs, fmt.Sprintf("statement %d assigned to both %q and %q", n, prev, a.ID))
				continue
			}
			owner[n] = a.ID
		}
	}
	for n := 1; n <= statements; n++ {
		if _, ok := owner[n]; !ok {
			errs = append(errs, fmt.Sprintf("statement %d is not assigned to any archetype", n))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
