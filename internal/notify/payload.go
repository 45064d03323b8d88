// Package notify delivers finished assessments by email, either directly
// over SMTP or through the send-results HTTP endpoint.
package notify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/archetype/internal/quiz"
	"github.com/abhisek/archetype/internal/scoring"
	"github.com/abhisek/archetype/internal/validate"
)

// PersonalData is the participant block of a payload.
type PersonalData struct {
	Name  string `json:"nome" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"Whatsapp" validate:"min=6"`
}

// ArchetypeRef identifies the archetype a score belongs to.
type ArchetypeRef struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// ScoreEntry is one archetype score.
type ScoreEntry struct {
	Archetype  ArchetypeRef `json:"archetype"`
	Score      float64      `json:"score"`
	Percentage float64      `json:"percentage"`
}

// Payload is the body of a send-results request.
type Payload struct {
	PersonalData PersonalData `json:"personalData"`
	Scores       []ScoreEntry `json:"scores"`
	Top          []ScoreEntry `json:"top,omitempty"`
}

// PayloadFrom builds a payload from sorted scores. Top holds the first three.
func PayloadFrom(scores []scoring.ArchetypeScore, personal quiz.PersonalData) Payload {
	p := Payload{
		PersonalData: PersonalData{Name: personal.Name, Email: personal.Email, Phone: personal.Phone},
		Scores:       make([]ScoreEntry, 0, len(scores)),
	}
	for _, s := range scores {
		p.Scores = append(p.Scores, entryFrom(s))
	}
	for _, s := range scoring.Top(scores, 3) {
		p.Top = append(p.Top, entryFrom(s))
	}
	return p
}

func entryFrom(s scoring.ArchetypeScore) ScoreEntry {
	return ScoreEntry{
		Archetype:  ArchetypeRef{ID: s.Archetype.ID, Name: s.Archetype.Name, Color: s.Archetype.Color},
		Score:      s.Raw,
		Percentage: s.Percentage,
	}
}

// ErrInvalidPayload lists every field that failed validation.
type ErrInvalidPayload struct {
	Fields validate.FieldErrors
}

func (e *ErrInvalidPayload) Error() string {
	return "invalid payload: " + e.Fields.Error()
}

func (e *ErrInvalidPayload) Unwrap() error { return e.Fields }

// IsInvalidPayload reports whether err is an *ErrInvalidPayload.
func IsInvalidPayload(err error) bool {
	var target *ErrInvalidPayload
	return errors.As(err, &target)
}

const payloadSchemaURL = "schema://send-results.json"

const payloadSchema = `{
  "type": "object",
  "additionalProperties": false,
  "required": ["personalData", "scores"],
  "properties": {
    "personalData": {
      "type": "object",
      "additionalProperties": false,
      "required": ["nome", "email", "Whatsapp"],
      "properties": {
        "nome": {"type": "string", "minLength": 1},
        "email": {"type": "string"},
        "Whatsapp": {"type": "string", "minLength": 6}
      }
    },
    "scores": {"type": "array", "minItems": 1, "items": {"$ref": "#/$defs/score"}},
    "top": {"type": "array", "items": {"$ref": "#/$defs/score"}}
  },
  "$defs": {
    "score": {
      "type": "object",
      "additionalProperties": false,
      "required": ["archetype", "score", "percentage"],
      "properties": {
        "archetype": {
          "type": "object",
          "additionalProperties": false,
          "required": ["name"],
          "properties": {
            "id": {"type": "string"},
            "name": {"type": "string", "minLength": 1},
            "color": {"type": "string"}
          }
        },
        "score": {"type": "number"},
        "percentage": {"type": "number"}
      }
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error

	structValidator = validator.New(validator.WithRequiredStructEnabled())
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(payloadSchema))
		if err != nil {
			schemaErr = fmt.Errorf("parse payload schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(payloadSchemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add payload schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(payloadSchemaURL)
	})
	return schema, schemaErr
}

// DecodePayload parses and validates a send-results body. Validation
// failures are returned as *ErrInvalidPayload.
func DecodePayload(raw []byte) (*Payload, error) {
	sch, err := compiledSchema()
	if err != nil {
		return nil, err
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, &ErrInvalidPayload{Fields: validate.FieldErrors{{
			Field: "", Message: "corpo não é um JSON válido", Rule: "json",
		}}}
	}
	if err := sch.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return nil, &ErrInvalidPayload{Fields: schemaFieldErrors(ve)}
		}
		return nil, fmt.Errorf("validate payload: %w", err)
	}

	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate applies the field rules that JSON schema does not cover.
func (p *Payload) Validate() error {
	var fields validate.FieldErrors
	if err := structValidator.Struct(p.PersonalData); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate personal data: %w", err)
		}
		for _, fe := range verrs {
			fields = append(fields, validate.FieldError{
				Field:   "personalData." + jsonName(fe.StructField()),
				Message: ruleMessage(fe.Tag()),
				Rule:    fe.Tag(),
			})
		}
	}
	if len(p.Scores) == 0 {
		fields = append(fields, validate.FieldError{Field: "scores", Message: "ao menos um score é obrigatório", Rule: "min"})
	}
	fields = append(fields, entryErrors("scores", p.Scores)...)
	fields = append(fields, entryErrors("top", p.Top)...)
	if len(fields) > 0 {
		return &ErrInvalidPayload{Fields: fields}
	}
	return nil
}

func entryErrors(field string, entries []ScoreEntry) validate.FieldErrors {
	var fields validate.FieldErrors
	for i, e := range entries {
		if strings.TrimSpace(e.Archetype.Name) == "" {
			fields = append(fields, validate.FieldError{
				Field:   fmt.Sprintf("%s.%d.archetype.name", field, i),
				Message: "campo obrigatório",
				Rule:    "required",
			})
		}
	}
	return fields
}

func jsonName(structField string) string {
	switch structField {
	case "Name":
		return "nome"
	case "Email":
		return "email"
	case "Phone":
		return "Whatsapp"
	}
	return structField
}

func ruleMessage(tag string) string {
	switch tag {
	case "required":
		return "campo obrigatório"
	case "email":
		return "email inválido"
	case "min":
		return "valor muito curto"
	}
	return "valor inválido"
}

// outputUnit mirrors the JSON form of the validator's basic output.
type outputUnit struct {
	InstanceLocation string       `json:"instanceLocation"`
	Error            any          `json:"error"`
	Errors           []outputUnit `json:"errors"`
}

func schemaFieldErrors(ve *jsonschema.ValidationError) validate.FieldErrors {
	var fields validate.FieldErrors
	b, err := json.Marshal(ve.BasicOutput())
	if err == nil {
		var root outputUnit
		if json.Unmarshal(b, &root) == nil {
			var walk func(u outputUnit)
			walk = func(u outputUnit) {
				if msg, ok := u.Error.(string); ok && msg != "" && len(u.Errors) == 0 {
					fields = append(fields, validate.FieldError{
						Field:   pointerToField(u.InstanceLocation),
						Message: msg,
						Rule:    "schema",
					})
				}
				for _, c := range u.Errors {
					walk(c)
				}
			}
			walk(root)
		}
	}
	if len(fields) == 0 {
		fields = leafErrors(ve)
	}
	return fields
}

func leafErrors(ve *jsonschema.ValidationError) validate.FieldErrors {
	if len(ve.Causes) == 0 {
		return validate.FieldErrors{{
			Field:   strings.Join(ve.InstanceLocation, "."),
			Message: ve.Error(),
			Rule:    "schema",
		}}
	}
	var fields validate.FieldErrors
	for _, c := range ve.Causes {
		fields = append(fields, leafErrors(c)...)
	}
	return fields
}

// pointerToField turns "/personalData/email" into "personalData.email".
func pointerToField(ptr string) string {
	ptr = strings.Trim(ptr, "/")
	return strings.ReplaceAll(ptr, "/", ".")
}
