package validate

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/abhisek/archetype/internal/catalog"
)

// Name and email messages.
const (
	MsgNameShort    = "Informe seu nome (mín. 2 caracteres)."
	MsgNameLong     = "Nome muito longo."
	MsgEmailInvalid = "Email inválido."
	MsgOptionEmpty  = "Selecione uma opção."
)

// Name length bounds, counted in characters after trimming.
const (
	NameMin = 2
	NameMax = 80
)

// Gate applies field-level checks to personal-data answers. Likert
// statements only need a non-empty selection.
type Gate struct {
	cat      *catalog.Catalog
	validate *validator.Validate
}

// NewGate creates a Gate for the given catalog.
func NewGate(cat *catalog.Catalog) *Gate {
	return &Gate{
		cat:      cat,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// ValidateField checks value for the question with the given ID. Unknown
// IDs are treated as valid.
func (g *Gate) ValidateField(questionID, value string) Result {
	q, found := g.cat.ByID(questionID)
	if !found {
		return ok()
	}
	if g.cat.IsPersonalData(g.cat.Index(questionID)) {
		return g.personal(q.Kind, value)
	}
	if strings.TrimSpace(value) == "" {
		return fail("required", MsgOptionEmpty)
	}
	return ok()
}

// ValidatePersonalData checks all personal-data answers at once and returns
// one error per failing field, in catalog order.
func (g *Gate) ValidatePersonalData(answers map[string]string) FieldErrors {
	var errs FieldErrors
	for _, q := range g.cat.PersonalData() {
		if fe := g.personal(q.Kind, answers[q.ID]).Err(q.ID); fe != nil {
			errs = append(errs, *fe)
		}
	}
	return errs
}

func (g *Gate) personal(kind catalog.Kind, value string) Result {
	switch kind {
	case catalog.KindText:
		return g.Name(value)
	case catalog.KindEmail:
		return g.Email(value)
	case catalog.KindTel:
		return Phone(value)
	}
	return ok()
}

// Name checks the participant name: 2 to 80 characters after trimming.
func (g *Gate) Name(value string) Result {
	v := strings.TrimSpace(value)
	if err := g.validate.Var(v, "min=2"); err != nil {
		return fail("min", MsgNameShort)
	}
	if err := g.validate.Var(v, "max=80"); err != nil {
		return fail("max", MsgNameLong)
	}
	return ok()
}

// Email checks standard email syntax.
func (g *Gate) Email(value string) Result {
	if err := g.validate.Var(strings.TrimSpace(value), "required,email"); err != nil {
		return fail("email", MsgEmailInvalid)
	}
	return ok()
}
