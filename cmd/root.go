package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/archetype/internal/config"
	"github.com/abhisek/archetype/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "archetype",
	Short: "Teste de arquétipos no terminal",
	Long:  "Archetype: questionário de 72 afirmações que identifica seu perfil entre 12 arquétipos.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides QUIZ_DB)")
	pf.String("storage-key", "", "Key the saved session is stored under (overrides QUIZ_STORAGE_KEY)")
	pf.String("log-level", "", "Log level: debug, info, warn or error (overrides QUIZ_LOG_LEVEL)")
	pf.String("redis-url", "", "Store the session in redis instead of SQLite (overrides QUIZ_REDIS_URL)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves configuration with the command's flags applied.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	paths := []string{"."}
	if dir, err := store.DataDir(); err == nil {
		paths = append(paths, dir)
	}
	cfg, err := config.Load(config.Options{ConfigPaths: paths, Flags: cmd.Flags()})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
