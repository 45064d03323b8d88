package cmd

import (
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/archetype/internal/notify"
	"github.com/abhisek/archetype/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the results email service",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, logToStderr)
		if err != nil {
			return err
		}
		defer e.Close()

		if !e.cfg.SMTP.Configured() {
			e.logger.Warn("SMTP is not configured; every send will fail")
		}
		svc := notify.NewService(mailerFor(e.cfg.SMTP), e.logger)

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		engine := server.New(svc, e.logger, reg)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e.logger.Info("serving", zap.String("addr", e.cfg.ServeAddr))
		return server.Run(ctx, e.cfg.ServeAddr, engine, e.logger)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides QUIZ_SERVE_ADDR)")
}
