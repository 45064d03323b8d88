package notify

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Message is a composed plain-text email. From and To are filled in by the
// mailer.
type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	Text    string
}

// Compose renders the notification for p.
func Compose(p Payload, now time.Time) Message {
	top := p.Top
	if len(top) == 0 {
		top = p.Scores
		if len(top) > 3 {
			top = top[:3]
		}
	}

	ranked := append([]ScoreEntry(nil), p.Scores...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	lines := []string{
		"Novo resultado do Teste de Arquétipos",
		"",
		"Dados do participante:",
		"Nome: " + p.PersonalData.Name,
		"Email: " + p.PersonalData.Email,
		"WhatsApp: " + p.PersonalData.Phone,
		"",
		"Top arquétipos:",
	}
	for i, s := range top {
		lines = append(lines, fmt.Sprintf("%d. %s — %s (%.1f%%)", i+1, s.Archetype.Name, number(s.Score), s.Percentage))
	}
	lines = append(lines, "", "Todos os scores:")
	for _, s := range ranked {
		lines = append(lines, fmt.Sprintf("- %s: %s (%.1f%%)", s.Archetype.Name, number(s.Score), s.Percentage))
	}
	lines = append(lines, "", "Data: "+now.UTC().Format("2006-01-02T15:04:05.000Z"))

	return Message{
		ReplyTo: p.PersonalData.Email,
		Subject: "Resultado do Teste de Arquétipos — " + p.PersonalData.Name,
		Text:    strings.Join(lines, "\n"),
	}
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
