package insight

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/archetype/internal/llm"
	"github.com/abhisek/archetype/internal/scoring"
)

// Schema is the structured output requested from the model.
var Schema = &llm.Schema{
	Name:        "archetype-insight",
	Description: "Short narrative about a participant's dominant archetypes",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "3-4 sentences in Brazilian Portuguese connecting the top archetypes",
			},
		},
		"required":             []any{"summary"},
		"additionalProperties": false,
	},
}

const systemPrompt = `Você é um consultor de marca pessoal que interpreta resultados de um teste de arquétipos de Jung. Escreva em português do Brasil, em tom acolhedor e prático, sem jargão clínico.`

// Insight is the generated narrative.
type Insight struct {
	Summary string `json:"summary"`
}

// Service asks a provider to describe a result.
type Service struct {
	provider llm.Provider
	timeout  time.Duration
}

// NewService creates a Service. A zero timeout means no deadline beyond the
// caller's context.
func NewService(provider llm.Provider, timeout time.Duration) *Service {
	return &Service{provider: provider, timeout: timeout}
}

// Describe returns a narrative for the top archetypes.
func (s *Service) Describe(ctx context.Context, name string, top []scoring.ArchetypeScore) (*Insight, error) {
	if len(top) == 0 {
		return nil, fmt.Errorf("no archetypes to describe")
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, "insight"), llm.Request{
		System:      systemPrompt,
		Prompt:      buildPrompt(name, top),
		Schema:      Schema,
		MaxTokens:   512,
		Temperature: 0.4,
	})
	if err != nil {
		return nil, fmt.Errorf("generate insight: %w", err)
	}

	var out Insight
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode insight: %w", err)
	}
	out.Summary = strings.TrimSpace(out.Summary)
	return &out, nil
}

func buildPrompt(name string, top []scoring.ArchetypeScore) string {
	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "Participante: %s\n", name)
	}
	b.WriteString("Arquétipos predominantes (do maior para o menor):\n")
	for i, s := range top {
		a := s.Archetype
		fmt.Fprintf(&b, "%d. %s (%d%%): %s Foco: %s\n", i+1, a.Name, s.Rounded(), a.Description, a.Focus)
	}
	b.WriteString(`
Instruções:
Explique em 3 a 4 frases como esses arquétipos se combinam na forma de a pessoa se comunicar e se posicionar.
Cite cada arquétipo pelo nome uma vez. Não repita as porcentagens.`)
	return b.String()
}
