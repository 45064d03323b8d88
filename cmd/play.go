package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/archetype/internal/app"
	"github.com/abhisek/archetype/internal/catalog"
	"github.com/abhisek/archetype/internal/quiz"
	"github.com/abhisek/archetype/internal/screens/question"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Responder ao questionário",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, playCmd} {
		c.Flags().Bool("no-splash", false, "Skip the welcome animation")
		c.Flags().String("export-dir", "", "Directory for exported results (default: current directory)")
	}
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	e, err := setup(cmd, logToFile)
	if err != nil {
		return err
	}
	defer e.Close()

	persistence := e.persistence(ctx)

	sched := question.NewScheduler()
	machine := quiz.New(catalog.Default(), quiz.Options{
		Store:     persistence,
		Key:       e.cfg.StorageKey,
		Scheduler: sched,
		Delay:     e.cfg.TransitionDelay,
		Logger:    e.logger,
	})
	restored := machine.Restore(ctx)
	e.logger.Info("session started",
		zap.Bool("restored", restored),
		zap.Stringer("phase", machine.Phase()))

	noSplash, _ := cmd.Flags().GetBool("no-splash")
	exportDir, _ := cmd.Flags().GetString("export-dir")
	opts := app.Options{
		Machine:   machine,
		Scheduler: sched,
		Results:   e.results(),
		ExportDir: exportDir,
		Logger:    e.logger,
		Splash:    !noSplash,
	}
	if d := e.dispatcher(); d != nil {
		opts.Dispatcher = d
	} else {
		fmt.Fprintln(os.Stderr, "Envio de resultados não configurado (SMTP_* ou QUIZ_RESULTS_ENDPOINT).")
	}
	if svc := e.insight(ctx); svc != nil {
		opts.Insight = svc
	}

	return app.Run(opts)
}
