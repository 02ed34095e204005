package commands

import (
	"log/slog"
	"railwatch/lib/serviceutil"
	"railwatch/lib/telemetry"

	"github.com/spf13/cobra"
)

var servePort *int

func init() {
	servePort = serveCmd.Flags().Int("port", 0, "The port to listen on, overrides the config.")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [--port <port>]",
	Short: "Checks for tickets on an interval and serves the latest results over http.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		cfg, err := loadConfig(*configPath)
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		if *servePort > 0 {
			cfg.Port = *servePort
		}
		if cfg.Smtp.Address == "" || cfg.Target.Receiver == "" {
			slog.Warn("email sender or receiver is not configured, alerts will fail to send")
		}

		database, err := openDatabase(cfg)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer database.Close()

		service, err := newService(cfg, database)
		if err != nil {
			serviceutil.Fatal("failed to create service", err)
		}

		telemetry.InstrumentPerfStats(ctx)

		go service.Watch(ctx, cfg.interval(), cfg.ScrapeOnStart)
		slog.Info(
			"watching for tickets",
			"interval", cfg.interval(),
			"train", cfg.Target.TrainPrefix,
			"seat_class", cfg.Query.SeatClass,
			"date", cfg.Query.Date,
		)

		err = serviceutil.StartHttpServer(ctx, cfg.Port, service.Handler())
		if err != nil {
			serviceutil.Fatal("http server", err)
		}
	},
}
