package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Apagar o progresso salvo",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, logToFile)
		if err != nil {
			return err
		}
		defer e.Close()

		e.persistence(cmd.Context()).Clear(cmd.Context(), e.cfg.StorageKey)
		fmt.Fprintf(cmd.OutOrStdout(), "Progresso salvo em %q apagado.\n", e.cfg.StorageKey)
		return nil
	},
}
