package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhisek/archetype/internal/report"
	"github.com/abhisek/archetype/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Calcular a pontuação de um arquivo de respostas",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("answers")
		asJSON, _ := cmd.Flags().GetBool("json")
		top, _ := cmd.Flags().GetInt("top")
		withInsight, _ := cmd.Flags().GetBool("insight")

		answers, err := readAnswers(path)
		if err != nil {
			return err
		}
		scores, personal := scoreAnswers(answers)
		if top > 0 {
			scores = scoring.Top(scores, top)
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(scores); err != nil {
				return fmt.Errorf("encode scores: %w", err)
			}
		} else if err := printScores(out, scores); err != nil {
			return err
		}

		if !withInsight {
			return nil
		}
		e, err := setup(cmd, logToFile)
		if err != nil {
			return err
		}
		defer e.Close()
		svc := e.insight(cmd.Context())
		if svc == nil {
			return fmt.Errorf("insight: no LLM provider configured")
		}
		in, err := svc.Describe(cmd.Context(), personal.Name, scoring.Top(scores, 3))
		if err != nil {
			return fmt.Errorf("insight: %w", err)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, in.Summary)
		return nil
	},
}

func init() {
	scoreCmd.Flags().String("answers", "", "JSON file with the answer map")
	scoreCmd.Flags().Bool("json", false, "Print scores as JSON")
	scoreCmd.Flags().Int("top", 0, "Only print the first N archetypes")
	scoreCmd.Flags().Bool("insight", false, "Add an LLM-written summary of the top archetypes")
	_ = scoreCmd.MarkFlagRequired("answers")
}

func printScores(w io.Writer, scores []scoring.ArchetypeScore) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tArquétipo\tPontuação\tPercentual")
	fmt.Fprintln(tw, strings.Repeat("─", 44))
	for i, s := range scores {
		fmt.Fprintf(tw, "%d\t%s\t%s/%s\t%.1f%%\n",
			i+1, s.Archetype.Name, report.Number(s.Raw), report.Number(s.Max), s.Percentage)
	}
	return tw.Flush()
}
