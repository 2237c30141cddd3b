// Package cli provides the specmcp command line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/specmcp/internal/core/domain"
	"github.com/custodia-labs/specmcp/internal/core/ports/driven"
	"github.com/custodia-labs/specmcp/internal/core/ports/driving"
	"github.com/custodia-labs/specmcp/internal/logger"
)

// version is set at build time via ldflags or SetVersion.
var version = "dev"

// annotationNoServices marks commands that run without the service graph.
const annotationNoServices = "specmcp/no-services"

// Services is everything the commands call into.
type Services struct {
	Retrieval driving.RetrievalService
	Ingest    driving.IngestService
	Providers driving.ProviderService
	Sources   []domain.SpecSource

	// SetProgress installs the reporter used by the ingest command. Optional.
	SetProgress func(driven.ProgressReporter)
}

// Loader builds the services for configDir. The returned func releases them.
type Loader func(ctx context.Context, configDir string) (*Services, func(), error)

var (
	loader  Loader
	cleanup func()

	retrievalService driving.RetrievalService
	ingestService    driving.IngestService
	providerService  driving.ProviderService
	specSources      []domain.SpecSource
	setProgress      func(driven.ProgressReporter)
)

var (
	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "specmcp",
	Short: "Search and question the WebDriver specifications",
	Long: `specmcp ingests the WebDriver Classic, WebDriver BiDi and related W3C
specifications, embeds each section, and serves them to agents over the
Model Context Protocol.

Run "specmcp ingest" once, then "specmcp mcp serve" from your MCP host.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.specmcp)")
}

// SetVersion sets the version reported by the version command and the MCP server.
func SetVersion(v string) {
	version = v
}

// SetLoader sets how services are built before a command runs.
func SetLoader(l Loader) {
	loader = l
}

// SetServices installs services directly, bypassing the loader.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	retrievalService = s.Retrieval
	ingestService = s.Ingest
	providerService = s.Providers
	specSources = s.Sources
	setProgress = s.SetProgress
}

// Execute runs the root command and releases services afterwards.
func Execute(ctx context.Context) error {
	defer func() {
		if cleanup != nil {
			cleanup()
			cleanup = nil
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if !needsServices(cmd) || loader == nil || retrievalService != nil {
		return nil
	}

	services, release, err := loader(cmd.Context(), configDir)
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	SetServices(services)
	cleanup = release
	return nil
}

func needsServices(cmd *cobra.Command) bool {
	if cmd.Annotations[annotationNoServices] != "" || cmd.Name() == "help" {
		return false
	}
	return !cmd.HasParent() || cmd.Parent().Name() != "completion"
}
