package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/abhisek/archetype/internal/catalog"
	"github.com/abhisek/archetype/internal/quiz"
	"github.com/abhisek/archetype/internal/scoring"
)

// readAnswers loads an answer map from a JSON object file. Numeric values
// are accepted alongside strings.
func readAnswers(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	return parseAnswers(data)
}

func parseAnswers(data []byte) (map[string]string, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse answers: %w", err)
	}
	// A saved session snapshot nests the map under "answers".
	if nested, ok := raw["answers"].(map[string]any); ok {
		raw = nested
	}
	answers := make(map[string]string, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case string:
			answers[k] = v
		case float64:
			answers[k] = strconv.FormatFloat(v, 'f', -1, 64)
		case nil:
		default:
			return nil, fmt.Errorf("parse answers: %q has unsupported value %v", k, v)
		}
	}
	return answers, nil
}

// scoreAnswers scores answers against the built-in catalog.
func scoreAnswers(answers map[string]string) ([]scoring.ArchetypeScore, quiz.PersonalData) {
	cat := catalog.Default()
	personal := quiz.PersonalData{
		Name:  strings.TrimSpace(answers[cat.PersonalFieldID(catalog.KindText)]),
		Email: strings.TrimSpace(answers[cat.PersonalFieldID(catalog.KindEmail)]),
		Phone: strings.TrimSpace(answers[cat.PersonalFieldID(catalog.KindTel)]),
	}
	return scoring.Score(cat.Archetypes(), answers), personal
}
