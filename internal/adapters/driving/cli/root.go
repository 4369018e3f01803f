// Package cli provides the cobra command tree for the vedika binary.
package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vedika/internal/adapters/driven/ai"
	"github.com/custodia-labs/vedika/internal/adapters/driven/config/file"
	"github.com/custodia-labs/vedika/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/vedika/internal/connectors/filesystem"
	"github.com/custodia-labs/vedika/internal/core/domain"
	"github.com/custodia-labs/vedika/internal/core/ports/driving"
	"github.com/custodia-labs/vedika/internal/core/services"
	"github.com/custodia-labs/vedika/internal/logger"
)

var (
	version   = "dev"
	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "vedika",
	Short: "Question answering over ISRO records",
	Long: `Vedika answers questions about ISRO spacecraft, launchers, customer
satellites and centres.

Records are downloaded as JSON batches, normalised into documents and
stored in a local vector index. Questions are answered from the closest
documents, by a generative model when one is configured or by an
extractive summary when it is not.

Typical first run:
  vedika fetch      # download the record batches
  vedika ingest     # build the index
  vedika ask "When was Aryabhata launched?"`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline progress")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.vedika)")
}

// SetVersion sets the version reported by the version command and the APIs.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// corpusWatcher reports changes to the source batch directory.
type corpusWatcher interface {
	Dir() string
	Watch(ctx context.Context, debounce time.Duration) (<-chan []string, error)
}

// app is the wired set of services one command runs against.
type app struct {
	Settings *domain.AppSettings
	Query    driving.QueryService
	Ingest   driving.IngestService
	Corpus   corpusWatcher

	closers []func() error
}

// Close releases the index and AI clients.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn("closing: %v", err)
		}
	}
}

// Loaders are variables so command tests can substitute mocks.
var (
	openSettings = loadSettings
	openApp      = loadApp
)

func resolveConfigDir() (string, error) {
	if configDir != "" {
		return configDir, nil
	}
	return file.DefaultDir()
}

// loadSettings opens the settings service over the TOML file with
// environment overrides.
func loadSettings() (driving.SettingsService, error) {
	dir, err := resolveConfigDir()
	if err != nil {
		return nil, err
	}
	store, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	return services.NewSettingsService(file.NewEnvConfigStore(store), ai.NewConfigValidator()), nil
}

// loadApp wires the full pipeline: settings, AI backends, the vector
// index, the batch source and the services over them.
func loadApp() (*app, error) {
	settingsService, err := openSettings()
	if err != nil {
		return nil, err
	}
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	dir, err := resolveConfigDir()
	if err != nil {
		return nil, err
	}

	backends, err := ai.Init(settings)
	if err != nil {
		return nil, err
	}
	a := &app{Settings: settings}
	a.closers = append(a.closers, func() error { backends.Close(); return nil })

	indexPath := settings.Index.Path
	if indexPath == "" {
		indexPath = filepath.Join(dir, sqlite.DefaultFileName)
	}
	index, err := sqlite.NewVectorIndex(sqlite.Config{
		Path:       indexPath,
		Collection: settings.Index.Collection,
		Embedder:   backends.EmbeddingService,
		Distance:   settings.Index.Distance,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, err)
	}
	a.closers = append(a.closers, index.Close)
	logger.Debug("Index: %s (collection %s)", index.Path(), settings.Index.Collection)

	prompts, err := file.NewPromptStore(filepath.Join(dir, "prompts"))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("opening prompts: %w", err)
	}

	corpus := filesystem.New(settings.Corpus.Dir)
	a.Corpus = corpus
	a.Query = services.NewQueryService(index, backends.LLMService, prompts)
	a.Ingest = services.NewIngestService(corpus, index)
	return a, nil
}
