package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/archetype/internal/report"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Exportar o resultado de um arquivo de respostas",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("answers")
		formatName, _ := cmd.Flags().GetString("format")
		outPath, _ := cmd.Flags().GetString("out")

		format, err := report.ParseFormat(formatName)
		if err != nil {
			return err
		}
		answers, err := readAnswers(path)
		if err != nil {
			return err
		}
		scores, personal := scoreAnswers(answers)

		if outPath == "" {
			outPath = report.Filename(format, time.Now())
		}
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", outPath, err)
		}
		if err := report.Write(f, format, scores, personal); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", outPath, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", outPath, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Resultado salvo em", outPath)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("answers", "", "JSON file with the answer map")
	exportCmd.Flags().String("format", "txt", "Output format: txt or xlsx")
	exportCmd.Flags().String("out", "", "Output path (default: resultado-arquetipos-<ms>.<ext>)")
	_ = exportCmd.MarkFlagRequired("answers")
}
