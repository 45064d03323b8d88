package llm

var summarySchema = &Schema{
	Name:        "test-summary",
	Description: "A short summary",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{"type": "string", "minLength": 1},
		},
		"required":             []string{"summary"},
		"additionalProperties": false,
	},
}
