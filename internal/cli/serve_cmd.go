package cli

import (
	"fmt"
	"net"
	"strconv"

	"github.com/alexanderramin/tally/internal/logging"
	"github.com/alexanderramin/tally/internal/web"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(app *App) *cobra.Command {
	var (
		bind        string
		port        int
		maxUploadMB int
		logJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web dashboard",
		Long: `Start the web dashboard: upload a timesheet CSV in the browser and get the
report, with drill-down by person, project or date. Stops on ctrl+c.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.config()
			if !cmd.Flags().Changed("bind") {
				bind = cfg.Server.Bind
			}
			if !cmd.Flags().Changed("port") {
				port = cfg.Server.Port
			}
			if !cmd.Flags().Changed("max-upload-mb") {
				maxUploadMB = cfg.Server.MaxUploadMB
			}
			if port < 0 || port > 65535 {
				return fmt.Errorf("--port %d out of range", port)
			}
			if maxUploadMB <= 0 {
				return fmt.Errorf("--max-upload-mb must be positive")
			}

			logger := app.logger()
			if logJSON || cfg.Log.JSON {
				l, err := logging.New(cfg.Log.Level, true, cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				logger = l
			}
			defer func() { _ = logger.Sync() }()

			addr := net.JoinHostPort(bind, strconv.Itoa(port))
			srv, err := web.NewServer(app.Reports, addr, web.Options{
				Version:          app.Version,
				MaxUploadBytes:   int64(maxUploadMB) << 20,
				NarrativeEnabled: app.NarrativeEnabled,
				Logger:           logger,
			})
			if err != nil {
				return err
			}

			logger.Info("starting dashboard",
				zap.String("addr", addr),
				zap.Bool("narrative", app.NarrativeEnabled),
				zap.String("config", cfg.Source),
			)
			return web.Run(cmd.Context(), srv, logger)
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "127.0.0.1", "Address to listen on")
	cmd.Flags().IntVarP(&port, "port", "p", 8501, "Port to listen on")
	cmd.Flags().IntVar(&maxUploadMB, "max-upload-mb", 10, "Largest accepted upload in MB")
	cmd.Flags().BoolVar(&logJSON, "log-json", false, "Write logs as JSON")

	return cmd
}
