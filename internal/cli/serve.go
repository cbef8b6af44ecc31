package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chrimztech/unza-counseling-console/internal/app"
	"github.com/chrimztech/unza-counseling-console/internal/config"
	"github.com/chrimztech/unza-counseling-console/pkg/logger"
)

func newServeCmd(e *env) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the operator console HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// The server logs at the configured level, not the command default.
			overrides := e.overrides()
			if e.logLevel == "" {
				delete(overrides, "LOG_LEVEL")
			}
			if port > 0 {
				overrides["CONSOLE_HTTP_PORT"] = strconv.Itoa(port)
			}
			cfg, err := config.LoadWithOverrides(overrides)
			if err != nil {
				return err
			}

			var log *slog.Logger
			if cfg.LogFormat == "json" {
				log = logger.NewWithWriter(app.ServiceName, cfg.LogLevel, cmd.ErrOrStderr())
			} else {
				log = logger.NewText(app.ServiceName, cfg.LogLevel, cmd.ErrOrStderr())
			}
			log.Info("starting counseling console",
				slog.String("environment", cfg.Environment),
				slog.Int("http_port", cfg.HTTPPort),
				slog.String("api_url", cfg.APIBaseURL),
				slog.String("credential_backend", cfg.CredentialBackend),
			)

			application, err := app.NewApp(cfg, log, e.version)
			if err != nil {
				return fmt.Errorf("initialize application: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := application.Run(ctx); err != nil {
				return fmt.Errorf("run application: %w", err)
			}
			log.Info("counseling console stopped")
			return nil
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "listen port (default $CONSOLE_HTTP_PORT)")
	return cmd
}
