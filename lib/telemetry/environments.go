package telemetry

import (
	"context"
	"log/slog"
	"os"
	"railwatch/lib/configutil"
	"sync"
)

var setupTestOnce sync.Once

// sets up telemetry in a testing environment, ensuring that it isn't
// set up more than once per test binary
func SetupForTesting(serviceName string) func() {
	setupTestOnce.Do(func() {
		InitSlog(true)
		err := SetupFromEnv(context.Background(), serviceName)
		if err != nil {
			panic(err)
		}
	})
	return func() {}
}

// searches up the filesystem from the cwd to find a file
// called telemetry.json5, once found it will then use it
// as a config to setup telemetry. if there is no such file
// telemetry is set up without any exporters.
func SetupFromEnv(ctx context.Context, serviceName string) error {
	cfg, err := configutil.ReadRecursively[config]("telemetry.json5")
	if os.IsNotExist(err) {
		slog.Debug("telemetry.json5 not found, exporters disabled")
		return Setup(ctx, serviceName, config{})
	}
	if err != nil {
		return err
	}
	return Setup(ctx, serviceName, cfg)
}
