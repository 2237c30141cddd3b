// Package app assembles the driven adapters and core services from settings.
// It is the composition root shared by every CLI command.
package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/specmcp/internal/adapters/driven/ai"
	"github.com/custodia-labs/specmcp/internal/adapters/driven/config/file"
	"github.com/custodia-labs/specmcp/internal/adapters/driven/document/htmldoc"
	"github.com/custodia-labs/specmcp/internal/adapters/driven/search/keyword"
	"github.com/custodia-labs/specmcp/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/specmcp/internal/adapters/driven/storage/qdrant"
	"github.com/custodia-labs/specmcp/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/specmcp/internal/core/domain"
	"github.com/custodia-labs/specmcp/internal/core/ports/driven"
	"github.com/custodia-labs/specmcp/internal/core/services"
	"github.com/custodia-labs/specmcp/internal/extractor"
	"github.com/custodia-labs/specmcp/internal/logger"
)

// KeywordDir is the bleve index directory under the data directory.
const KeywordDir = "keyword"

// App holds the wired services and the resources behind them.
type App struct {
	Settings  domain.Settings
	Retrieval *services.RetrievalService
	Ingest    *services.IngestService
	Providers *services.ProviderStatusService

	store   driven.SectionStore
	keyword driven.KeywordIndex
	chains  *ai.Chains
}

// Options tunes how New builds the application.
type Options struct {
	// PromptDir overrides the prompt template directory. Empty uses the default.
	PromptDir string

	// DocumentSource replaces the HTTP document fetcher.
	DocumentSource driven.DocumentSource
}

// Load reads settings from configDir (empty for the default) and the
// environment, then builds the application.
func Load(ctx context.Context, configDir string, getenv func(string) string) (*App, error) {
	cfg, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	settings, err := file.LoadSettings(cfg, getenv)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	logger.Debug("Config file: %s", cfg.Path())
	return New(ctx, settings, Options{
		PromptDir: filepath.Join(filepath.Dir(cfg.Path()), file.PromptDirName),
	})
}

// New builds the store, keyword index, provider chains and services.
func New(ctx context.Context, settings domain.Settings, opts Options) (*App, error) {
	store, err := OpenStore(settings.Store)
	if err != nil {
		return nil, err
	}
	a := &App{Settings: settings, store: store}

	if settings.Store.KeywordIndex && settings.Store.Backend != domain.StoreBackendMemory {
		idx, err := keyword.Open(filepath.Join(settings.Store.DataDir, KeywordDir))
		if err != nil {
			a.Close()
			return nil, err
		}
		a.keyword = idx
	}

	chains, err := ai.NewChains(ctx, settings)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("building provider chains: %w", err)
	}
	a.chains = chains

	source := opts.DocumentSource
	if source == nil {
		source = htmldoc.NewSource(settings.Fetch)
	}

	a.Retrieval = services.NewRetrievalService(store, chains.Embedding, chains.Generation)
	a.Ingest = services.NewIngestService(
		source,
		extractor.New(extractor.OptionsFromSettings(settings.Extractor)),
		chains.Embedding,
		store,
	)
	a.Providers = services.NewProviderStatusService(chains.Embedding, chains.Generation)

	if a.keyword != nil {
		a.Retrieval.SetKeywordIndex(a.keyword)
		a.Ingest.SetKeywordIndex(a.keyword)
	}

	prompts, err := file.NewPromptStore(opts.PromptDir, services.DefaultPrompts())
	if err != nil {
		logger.Warn("Prompt store unavailable, using built-in prompts: %v", err)
	} else {
		a.Retrieval.SetPromptStore(prompts)
	}

	return a, nil
}

// OpenStore opens the section store selected by settings.
func OpenStore(settings domain.StoreSettings) (driven.SectionStore, error) {
	switch settings.Backend {
	case domain.StoreBackendSQLite:
		store, err := sqlite.NewSectionStore(settings.DataDir, settings.Collection)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		logger.Debug("Section store: %s", store.Path())
		return store, nil
	case domain.StoreBackendQdrant:
		store, err := qdrant.New(settings.QdrantAddr, settings.Collection)
		if err != nil {
			return nil, fmt.Errorf("connecting to qdrant: %w", err)
		}
		logger.Debug("Section store: qdrant %s/%s", settings.QdrantAddr, settings.Collection)
		return store, nil
	case domain.StoreBackendMemory:
		return memory.NewSectionStore(), nil
	default:
		return nil, fmt.Errorf("%w: store backend %q", domain.ErrUnsupportedType, settings.Backend)
	}
}

// Close releases the store, the keyword index and every backend.
func (a *App) Close() {
	if a.chains != nil {
		a.chains.Close()
	}
	if a.keyword != nil {
		if err := a.keyword.Close(); err != nil {
			logger.Warn("Closing keyword index: %v", err)
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logger.Warn("Closing section store: %v", err)
		}
	}
}
