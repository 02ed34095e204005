package commands

import (
	"errors"
	"log/slog"
	"os"
	"railwatch/lib/configutil"
	"railwatch/lib/mailer"
	"railwatch/lib/scrapers/railway"
	"railwatch/lib/sqliteutil"
	"railwatch/services/ticketwatch"
	"time"

	"dario.cat/mergo"
)

type ChromeConfig struct {
	ExecPath      string `json:"exec_path"`
	WaitSeconds   int    `json:"wait_seconds"`
	SettleSeconds int    `json:"settle_seconds"`
}

type Config struct {
	Port            int  `json:"port"`
	IntervalMinutes int  `json:"interval_minutes"`
	ScrapeOnStart   bool `json:"scrape_on_start"`
	// reuses identical search results for this long, 0 scrapes on every request
	CacheTTLSeconds int `json:"cache_ttl_seconds"`

	// the booking site, overridden in development to point at a fixture server
	BaseUrl string `json:"base_url"`
	// "browser" renders the page with chrome, "http" downloads it as is
	Fetcher string `json:"fetcher"`
	// directory to dump http requests and responses to, only used by the
	// "http" fetcher
	HttpDumpDir string `json:"http_dump_dir"`

	Chrome   ChromeConfig        `json:"chrome"`
	Query    railway.SearchQuery `json:"query"`
	Target   ticketwatch.Target  `json:"target"`
	Smtp     mailer.SmtpConfig   `json:"smtp"`
	Database sqliteutil.Config   `json:"database"`
}

func defaultConfig() Config {
	return Config{
		Port:            8000,
		IntervalMinutes: 10,
		Fetcher:         "browser",
		Query:           railway.DefaultSearchQuery,
		Target: ticketwatch.Target{
			TrainPrefix: "BANALATA",
		},
		Smtp: mailer.SmtpConfig{
			Server: "smtp.gmail.com",
			Port:   587,
		},
		Database: sqliteutil.Config{
			File: "railwatch.db",
		},
	}
}

// loadConfig reads `path` on top of the defaults, a missing file is not an
// error. Environment variables take precedence over both.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	file, err := configutil.ReadConfig[Config](path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("config file not found, using defaults", "path", path)
	} else if err != nil {
		return Config{}, err
	} else {
		// fields left empty in the file fall back to the defaults
		err = mergo.Merge(&file, cfg)
		if err != nil {
			return Config{}, err
		}
		cfg = file
	}

	configutil.EnvString(&cfg.Smtp.Address, "EMAIL_SENDER")
	configutil.EnvString(&cfg.Smtp.Password, "EMAIL_PASSWORD")
	configutil.EnvString(&cfg.Target.Receiver, "EMAIL_RECEIVER")
	configutil.EnvString(&cfg.Smtp.Server, "SMTP_SERVER")
	configutil.EnvString(&cfg.Chrome.ExecPath, "CHROME_BINARY_PATH")
	configutil.EnvString(&cfg.Database.File, "RAILWATCH_DATABASE")
	err = configutil.EnvInt(&cfg.Smtp.Port, "SMTP_PORT")
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

func (c Config) cacheTTL() time.Duration {
	if c.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c Config) browserOptions() railway.BrowserOptions {
	return railway.BrowserOptions{
		ExecPath:    c.Chrome.ExecPath,
		WaitTimeout: time.Duration(c.Chrome.WaitSeconds) * time.Second,
		SettleDelay: time.Duration(c.Chrome.SettleSeconds) * time.Second,
	}
}
