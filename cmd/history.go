package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Listar resultados anteriores",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := setup(cmd, logToFile)
		if err != nil {
			return err
		}
		defer e.Close()

		st, err := e.requireStore()
		if err != nil {
			return err
		}
		records, err := st.Results().List(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("list results: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(out, "Nenhum resultado salvo ainda.")
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Data\tNome\tDominante\tEnviado")
		for _, r := range records {
			dominant := "-"
			if top, ok := r.Dominant(); ok {
				dominant = fmt.Sprintf("%s (%.1f%%)", top.Name, top.Percentage)
			}
			sent := "não"
			if r.Sent {
				sent = "sim"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
				r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Personal.Name, dominant, sent)
		}
		return tw.Flush()
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of results to list")
}
