package commands

import (
	"encoding/json"
	"os"
	"railwatch/lib/scrapers/railway"
	"railwatch/lib/serviceutil"
	"railwatch/services/ticketwatch"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var scrapeQuery railway.SearchQuery
var scrapeTrain *string
var scrapeReceiver *string
var scrapeJson *bool

func init() {
	scrapeCmd.Flags().StringVar(&scrapeQuery.FromCity, "from", "", "The departure city.")
	scrapeCmd.Flags().StringVar(&scrapeQuery.ToCity, "to", "", "The destination city.")
	scrapeCmd.Flags().StringVar(&scrapeQuery.SeatClass, "class", "", "The seat class to watch.")
	scrapeCmd.Flags().StringVar(&scrapeQuery.Date, "date", "", "The journey date, ex. 05-Jun-2025.")
	scrapeTrain = scrapeCmd.Flags().String("train", "", "Only alert for trains starting with this name.")
	scrapeReceiver = scrapeCmd.Flags().String("receiver", "", "The email address to alert.")
	scrapeJson = scrapeCmd.Flags().Bool("json", false, "Print the results as json.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--from <city>] [--to <city>] [--class <seat class>] [--date <DD-Mon-YYYY>] [--train <name>]",
	Short: "Checks for tickets once and prints the results.",
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

		trips := service.CheckTickets(cmd.Context(), ticketwatch.Request{
			Query:       scrapeQuery,
			TrainPrefix: *scrapeTrain,
			Receiver:    *scrapeReceiver,
			NoCache:     true,
		})

		if *scrapeJson {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			err = encoder.Encode(trips)
			if err != nil {
				serviceutil.Fatal("failed to encode results", err)
			}
			return
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Train", "From", "To", "Departs", "Arrives", "Duration", "Class", "Fare", "Available"})
		for _, trip := range trips {
			for _, seat := range trip.Classes {
				t.AppendRow(table.Row{
					trip.TrainName,
					trip.From,
					trip.To,
					trip.StartTime,
					trip.EndTime,
					trip.Duration,
					seat.Class,
					seat.Fare,
					seat.AvailableTickets,
				})
			}
			t.AppendSeparator()
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
