// Command specmcp serves the WebDriver specifications to agents over MCP.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/specmcp/internal/adapters/driving/cli"
	"github.com/custodia-labs/specmcp/internal/app"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetLoader(func(ctx context.Context, configDir string) (*cli.Services, func(), error) {
		a, err := app.Load(ctx, configDir, os.Getenv)
		if err != nil {
			return nil, nil, err
		}
		return &cli.Services{
			Retrieval:   a.Retrieval,
			Ingest:      a.Ingest,
			Providers:   a.Providers,
			Sources:     a.Settings.Sources,
			SetProgress: a.Ingest.SetProgressReporter,
		}, a.Close, nil
	})

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
