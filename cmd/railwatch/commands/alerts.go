package commands

import (
	"os"
	"railwatch/lib/serviceutil"
	"railwatch/lib/timezone"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var alertsLimit *int

func init() {
	alertsLimit = alertsCmd.Flags().Int("limit", 20, "The number of alerts to print.")
	rootCmd.AddCommand(alertsCmd)
}

var alertsCmd = &cobra.Command{
	Use:   "alerts [--limit <n>]",
	Short: "Prints the most recent alert emails.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(*configPath)
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
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
		alerts, err := service.Alerts(cmd.Context(), *alertsLimit)
		if err != nil {
			serviceutil.Fatal("failed to list alerts", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Time", "Run", "Train", "Class", "Available", "Journey", "Receiver", "Error"})
		for _, alert := range alerts {
			t.AppendRow(table.Row{
				time.Unix(alert.CreatedAt, 0).In(timezone.Location).Format(time.DateTime),
				alert.RunID,
				alert.TrainName,
				alert.SeatClass,
				alert.Available,
				alert.JourneyDate,
				alert.Receiver,
				alert.SendError,
			})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
