package notify

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/archetype/internal/catalog"
	"github.com/abhisek/archetype/internal/quiz"
	"github.com/abhisek/archetype/internal/scoring"
)

const validBody = `{
  "personalData": {"nome": "Ana", "email": "ana@example.com", "Whatsapp": "+5511987654321"},
  "scores": [
    {"archetype": {"id": "sage", "name": "Sábio"}, "score": 30, "percentage": 100},
    {"archetype": {"name": "Bobo"}, "score": 12, "percentage": 40}
  ]
}`

// withArchetype replaces the second score's archetype in validBody.
func withArchetype(raw string) string {
	return strings.Replace(validBody, `{"name": "Bobo"}`, raw, 1)
}

func TestDecodePayload_Valid(t *testing.T) {
	p, err := DecodePayload([]byte(validBody))
	require.NoError(t, err)
	assert.Equal(t, "Ana", p.PersonalData.Name)
	require.Len(t, p.Scores, 2)
	assert.Equal(t, ArchetypeRef{ID: "sage", Name: "Sábio"}, p.Scores[0].Archetype)
	assert.Equal(t, "Bobo", p.Scores[1].Archetype.Name)
	assert.Empty(t, p.Top)
}

func TestDecodePayload_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"not json", `{`, ""},
		{"missing scores", `{"personalData":{"nome":"Ana","email":"a@b.co","Whatsapp":"+551199"}}`, ""},
		{"empty scores", `{"personalData":{"nome":"Ana","email":"a@b.co","Whatsapp":"+551199"},"scores":[]}`, "scores"},
		{"extra field", strings.Replace(validBody, `"scores"`, `"extra": 1, "scores"`, 1), ""},
		{"score not numeric", strings.Replace(validBody, `"score": 12`, `"score": "12"`, 1), "scores"},
		{"short phone", strings.Replace(validBody, `+5511987654321`, `+55`, 1), "personalData"},
		{"empty name", strings.Replace(validBody, `"nome": "Ana"`, `"nome": ""`, 1), "personalData"},
		{"bad email", strings.Replace(validBody, `ana@example.com`, `ana-at-example`, 1), "personalData.email"},
		{"archetype number", withArchetype(`42`), "scores.1.archetype"},
		{"archetype array", withArchetype(`[1,2]`), "scores.1.archetype"},
		{"archetype null", withArchetype(`null`), "scores.1.archetype"},
		{"archetype without name", withArchetype(`{"foo":true}`), "scores.1.archetype"},
		{"archetype empty name", withArchetype(`{"name":""}`), "scores.1.archetype"},
		{"archetype plain string", withArchetype(`"Bobo"`), "scores.1.archetype"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePayload([]byte(tt.body))
			require.Error(t, err)
			require.True(t, IsInvalidPayload(err), "got %v", err)

			var inv *ErrInvalidPayload
			require.ErrorAs(t, err, &inv)
			require.NotEmpty(t, inv.Fields)
			if tt.wantField != "" {
				found := false
				for _, f := range inv.Fields {
					if strings.HasPrefix(f.Field, tt.wantField) {
						found = true
					}
				}
				assert.True(t, found, "no error for %s in %v", tt.wantField, inv.Fields)
			}
		})
	}
}

func TestDecodePayload_BadEmailMessage(t *testing.T) {
	_, err := DecodePayload([]byte(strings.Replace(validBody, `ana@example.com`, `nope`, 1)))
	var inv *ErrInvalidPayload
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, "email inválido", inv.Fields.Map()["personalData.email"])
}

func TestPayloadFrom(t *testing.T) {
	answers := map[string]string{}
	for _, n := range []int{1, 18, 20, 36, 41, 56} {
		answers[catalog.StatementID(n)] = "5"
	}
	scores := scoring.Score(catalog.Default().Archetypes(), answers)
	p := PayloadFrom(scores, quiz.PersonalData{Name: "Ana", Email: "ana@example.com", Phone: "+5511987654321"})

	assert.Len(t, p.Scores, 12)
	require.Len(t, p.Top, 3)
	assert.Equal(t, "Sábio", p.Top[0].Archetype.Name)
	assert.Equal(t, 30.0, p.Top[0].Score)
	assert.Equal(t, 100.0, p.Top[0].Percentage)

	// The built payload must pass its own validation when re-decoded.
	body, err := json.Marshal(p)
	require.NoError(t, err)
	_, err = DecodePayload(body)
	require.NoError(t, err)
}

func TestPayloadValidate_RequiresArchetypeName(t *testing.T) {
	p := Payload{
		PersonalData: PersonalData{Name: "Ana", Email: "ana@example.com", Phone: "+5511987654321"},
		Scores:       []ScoreEntry{{Archetype: ArchetypeRef{Name: "Sábio"}, Score: 30, Percentage: 100}, {Score: 1}},
		Top:          []ScoreEntry{{Archetype: ArchetypeRef{Name: " "}}},
	}

	err := p.Validate()
	var inv *ErrInvalidPayload
	require.ErrorAs(t, err, &inv)
	fields := inv.Fields.Map()
	assert.Contains(t, fields, "scores.1.archetype.name")
	assert.Contains(t, fields, "top.0.archetype.name")
	assert.NotContains(t, fields, "scores.0.archetype.name")
}
