// Package report renders a finished assessment for download.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/archetype/internal/quiz"
	"github.com/abhisek/archetype/internal/scoring"
	"github.com/abhisek/archetype/internal/validate"
)

// Format is an export file format.
type Format string

const (
	FormatText Format = "txt"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "txt", "text" or "xlsx".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "txt", "text":
		return FormatText, nil
	case "xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Filename returns the download name for an export created at now.
func Filename(format Format, now time.Time) string {
	return fmt.Sprintf("resultado-arquetipos-%d.%s", now.UnixMilli(), format)
}

// Write renders scores in the given format.
func Write(w io.Writer, format Format, scores []scoring.ArchetypeScore, personal quiz.PersonalData) error {
	switch format {
	case FormatText:
		return WriteText(w, scores, personal)
	case FormatXLSX:
		return WriteXLSX(w, scores, personal)
	}
	return fmt.Errorf("unknown export format %q", format)
}

var rankTitles = []string{"Arquétipo Dominante", "Arquétipo Secundário", "Arquétipo Terciário"}

// WriteText writes the plain-text result sheet. scores must already be
// sorted, highest first.
func WriteText(w io.Writer, scores []scoring.ArchetypeScore, personal quiz.PersonalData) error {
	var b strings.Builder
	b.WriteString("Teste de Arquétipos - Resultado\n")
	b.WriteString("================================\n\n")

	b.WriteString("Dados Pessoais:\n")
	fmt.Fprintf(&b, "- Nome: %s\n", personal.Name)
	fmt.Fprintf(&b, "- Email: %s\n", personal.Email)
	fmt.Fprintf(&b, "- WhatsApp: %s\n", validate.MaskPhone(personal.Phone))

	for i, s := range scoring.Top(scores, len(rankTitles)) {
		fmt.Fprintf(&b, "\n%s:\n", rankTitles[i])
		fmt.Fprintf(&b, "%s (%s pontos)\n", s.Archetype.Name, Number(s.Raw))
		fmt.Fprintf(&b, "%s\n", s.Archetype.Description)
	}

	b.WriteString("\nTodos os Arquétipos:\n")
	for i, s := range scores {
		fmt.Fprintf(&b, "%d. %s: %s pontos", i+1, s.Archetype.Name, Number(s.Raw))
		if i < len(scores)-1 {
			b.WriteByte('\n')
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

const (
	resultSheet   = "Resultado"
	personalSheet = "Participante"
)

// WriteXLSX writes a workbook with the ranking and the participant data.
func WriteXLSX(w io.Writer, scores []scoring.ArchetypeScore, personal quiz.PersonalData) error {
	f := excelize.NewFile()
	defer f.Close()

	// The default sheet becomes the ranking sheet.
	if err := f.SetSheetName(f.GetSheetName(0), resultSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headers := []string{"Posição", "Arquétipo", "Pontuação", "Máximo", "Percentual"}
	for i, h := range headers {
		if err := f.SetCellValue(resultSheet, cellName(i, 1), h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for r, s := range scores {
		row := []any{r + 1, s.Archetype.Name, s.Raw, s.Max, roundTenth(s.Percentage)}
		for c, v := range row {
			if err := f.SetCellValue(resultSheet, cellName(c, r+2), v); err != nil {
				return fmt.Errorf("write score row: %w", err)
			}
		}
	}

	if _, err := f.NewSheet(personalSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	fields := [][2]string{
		{"Nome", personal.Name},
		{"Email", personal.Email},
		{"WhatsApp", validate.MaskPhone(personal.Phone)},
	}
	for r, kv := range fields {
		if err := f.SetCellValue(personalSheet, cellName(0, r+1), kv[0]); err != nil {
			return fmt.Errorf("write participant: %w", err)
		}
		if err := f.SetCellValue(personalSheet, cellName(1, r+1), kv[1]); err != nil {
			return fmt.Errorf("write participant: %w", err)
		}
	}
	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func cellName(col, row int) string {
	return fmt.Sprintf("%c%d", 'A'+col, row)
}

// Number formats a score without trailing zeros.
func Number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func roundTenth(v float64) float64 {
	f, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	return f
}
