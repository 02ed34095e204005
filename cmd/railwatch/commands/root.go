package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"railwatch/lib/telemetry"

	"github.com/spf13/cobra"
)

var configPath *string
var verbose *bool

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "config.json5", "The config file to read, <name>.local.json5 is merged on top of it.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging.")
}

var rootCmd = &cobra.Command{
	Use:   "railwatch",
	Short: "railwatch watches the Bangladesh Railway e-ticket site for seat availability.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(*verbose)
		return telemetry.SetupFromEnv(cmd.Context(), "railwatch")
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		err := telemetry.Shutdown(context.Background())
		if err != nil {
			slog.Warn("shutdown telemetry", "err", err)
		}
	},
	SilenceUsage: true,
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
