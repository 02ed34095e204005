package commands

import (
	"database/sql"
	"fmt"
	"railwatch/lib/mailer"
	"railwatch/lib/restyutil"
	"railwatch/lib/scrapers/railway"
	"railwatch/services/ticketwatch"
	"railwatch/services/ticketwatch/db"
)

func newFetcher(cfg Config) (railway.Fetcher, error) {
	switch cfg.Fetcher {
	case "", "browser":
		return railway.NewBrowserFetcher(cfg.browserOptions()), nil
	case "http":
		if cfg.HttpDumpDir != "" {
			out, err := restyutil.NewFilesystemOutput(cfg.HttpDumpDir)
			if err != nil {
				return nil, err
			}
			railway.SetRestyInstrumentOutput(out)
		}
		return railway.NewHttpFetcher(), nil
	default:
		return nil, fmt.Errorf("unknown fetcher %q, expected \"browser\" or \"http\"", cfg.Fetcher)
	}
}

func openDatabase(cfg Config) (*sql.DB, error) {
	return cfg.Database.OpenDB(db.Schema)
}

func newService(cfg Config, database *sql.DB) (ticketwatch.Service, error) {
	fetcher, err := newFetcher(cfg)
	if err != nil {
		return ticketwatch.Service{}, err
	}
	return ticketwatch.NewService(ticketwatch.Options{
		Scraper:       railway.NewScraper(fetcher, cfg.BaseUrl),
		Mailer:        mailer.New(cfg.Smtp),
		DB:            database,
		DefaultQuery:  cfg.Query,
		DefaultTarget: cfg.Target,
		CacheTTL:      cfg.cacheTTL(),
	}), nil
}
