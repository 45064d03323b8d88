package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/archetype/internal/catalog"
)

func TestParseAnswers(t *testing.T) {
	answers, err := parseAnswers([]byte(`{"nome":"Ana","q1":5,"q2":"3","q3":2.5,"q4":null}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"nome": "Ana", "q1": "5", "q2": "3", "q3": "2.5"}, answers)
}

func TestParseAnswersSnapshot(t *testing.T) {
	answers, err := parseAnswers([]byte(`{"currentIndex":4,"answers":{"q1":"4"}}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"q1": "4"}, answers)
}

func TestParseAnswersRejectsNested(t *testing.T) {
	_, err := parseAnswers([]byte(`{"q1":[1,2]}`))
	assert.Error(t, err)

	_, err = parseAnswers([]byte(`not json`))
	assert.Error(t, err)
}

func TestReadAnswersMissingFile(t *testing.T) {
	_, err := readAnswers(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestScoreAnswers(t *testing.T) {
	answers := map[string]string{"nome": "  Ana ", "email": "ana@example.com"}
	for _, n := range []int{26, 32, 35, 38, 46, 67} {
		answers[catalog.StatementID(n)] = "5"
	}

	scores, personal := scoreAnswers(answers)
	require.Len(t, scores, 12)
	assert.Equal(t, "Governante", scores[0].Archetype.Name)
	assert.InDelta(t, 100, scores[0].Percentage, 0.001)
	assert.Equal(t, "Ana", personal.Name)
	assert.Equal(t, "ana@example.com", personal.Email)
}

func TestPrintScores(t *testing.T) {
	scores, _ := scoreAnswers(map[string]string{catalog.StatementID(1): "5"})

	var buf bytes.Buffer
	require.NoError(t, printScores(&buf, scores[:2]))
	out := buf.String()
	assert.Contains(t, out, "Arquétipo")
	assert.Contains(t, out, "Sábio")
	assert.Equal(t, 4, strings.Count(out, "\n"))
}

func TestExportCommandWritesText(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "answers.json")
	require.NoError(t, os.WriteFile(in, []byte(`{"nome":"Ana","q1":"5"}`), 0o644))
	out := filepath.Join(dir, "out.txt")

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"export", "--answers", in, "--format", "txt", "--out", out})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Teste de Arquétipos - Resultado"))
	assert.Contains(t, stdout.String(), out)
}
