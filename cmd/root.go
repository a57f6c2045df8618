// file: cmd/root.go
// version: 1.0.0
// guid: 5cae09be-5ca1-4085-b1bc-6cd08e2ed571

// Package cmd is the cobra CLI bootstrap.
package cmd

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/svetakrava/chorrosion/internal/config"
	"github.com/svetakrava/chorrosion/internal/coverart"
	"github.com/svetakrava/chorrosion/internal/download"
	"github.com/svetakrava/chorrosion/internal/events"
	"github.com/svetakrava/chorrosion/internal/fingerprint"
	"github.com/svetakrava/chorrosion/internal/importer"
	"github.com/svetakrava/chorrosion/internal/indexer"
	"github.com/svetakrava/chorrosion/internal/mediafile"
	"github.com/svetakrava/chorrosion/internal/models"
	"github.com/svetakrava/chorrosion/internal/musicbrainz"
	"github.com/svetakrava/chorrosion/internal/repository"
	"github.com/svetakrava/chorrosion/internal/scheduler"
	"github.com/svetakrava/chorrosion/internal/server"
	"github.com/svetakrava/chorrosion/internal/watcher"
)

const (
	metadataCacheCapacity = 10000
	metadataCacheTTL      = time.Hour
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "chorrosion",
	Short: "Music library automation server",
	Long: `Chorrosion watches a music library, identifies audio files through
acoustic fingerprints, embedded tags, and filename heuristics, and keeps
artist and album metadata fresh through scheduled jobs.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduler and HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		return runServe(cmd.Context(), cfg)
	},
}

var importCmd = &cobra.Command{
	Use:   "import [path]",
	Short: "Run one import pass over a library root",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		root := cfg.Library.Root
		if len(args) == 1 {
			root = args[0]
		}
		if root == "" {
			return fmt.Errorf("no library root: pass a path or set library.root")
		}

		store := repository.NewMemoryStore()
		bus := events.NewBus(events.DefaultCapacity)
		pipeline := buildPipeline(cfg, store, bus)
		report, err := pipeline.Run(cmd.Context(), root, cfg.Import.MinConfidence)
		if err != nil {
			return err
		}
		fmt.Printf("Scanned %d files: %d imported, %d need review, %d skipped\n",
			report.Scanned, report.Imported, report.NeedsReview, report.Skipped)
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		fmt.Printf("database.url: %s\n", cfg.Database.URL)
		fmt.Printf("database.pool_max_size: %d\n", cfg.Database.PoolMaxSize)
		fmt.Printf("http: %s\n", cfg.Addr())
		fmt.Printf("telemetry.log_level: %s\n", cfg.Telemetry.LogLevel)
		fmt.Printf("scheduler.max_concurrent_jobs: %d\n", cfg.Scheduler.MaxConcurrentJobs)
		fmt.Printf("library.root: %s\n", cfg.Library.Root)
		fmt.Printf("indexers: %d configured\n", len(cfg.Indexers))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(configCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func runServe(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store := repository.NewMemoryStore()
	bus := events.NewBus(events.DefaultCapacity)

	mb := newMetadataClient()
	defer mb.Close()

	sched := scheduler.New(cfg.Scheduler.MaxConcurrentJobs)
	deps := scheduler.JobDeps{
		Store:      store,
		Indexers:   buildIndexers(cfg),
		Downloader: buildDownloader(cfg),
		Metadata:   mb,
		Bus:        bus,
		Refreshes:  scheduler.NewMetadataRefreshCache(0),
	}
	if err := scheduler.RegisterStandardJobs(sched, deps); err != nil {
		return err
	}
	if err := sched.Start(ctx); err != nil {
		return err
	}
	defer sched.Stop()

	if cfg.Library.Watch && cfg.Library.Root != "" {
		pipeline := buildPipeline(cfg, store, bus)
		w := watcher.New(func(root string) {
			if _, err := pipeline.Run(context.Background(), root, cfg.Import.MinConfidence); err != nil {
				log.Printf("[ERROR] import scan of %s: %v", root, err)
			}
		}, 0)
		if err := w.Start(cfg.Library.Root); err != nil {
			return fmt.Errorf("starting library watcher: %w", err)
		}
		defer w.Stop()
	}

	srv := server.New(server.Options{Store: store, Bus: bus, Artwork: buildCoverArt(cfg)})
	return srv.Start(ctx, cfg.Addr())
}

func newMetadataClient() *musicbrainz.CachedClient {
	client := musicbrainz.NewClient(musicbrainz.Options{})
	return musicbrainz.NewCachedClient(client, metadataCacheCapacity, metadataCacheTTL)
}

func buildPipeline(cfg *config.Config, store *repository.Store, bus *events.Bus) *importer.Pipeline {
	mb := newMetadataClient()
	tagReader := mediafile.FileTagReader{}

	// The fingerprint strategy activates only with an identification
	// key; decoders plug into the generator through its Engine and
	// Decoder interfaces.
	var lookup importer.FingerprintLookup
	if cfg.AcoustID.APIKey != "" {
		lookup = fingerprint.NewIdentifyClient(fingerprint.IdentifyOptions{APIKey: cfg.AcoustID.APIKey})
	}

	identifier := importer.NewIdentifier(nil, lookup, mb, tagReader)
	matcher := importer.NewMatcher(cfg.Import.FuzzyThreshold, cfg.Import.AutoImportThreshold)
	return importer.NewPipeline(identifier, matcher, store, bus, tagReader)
}

func buildIndexers(cfg *config.Config) []indexer.Client {
	var out []indexer.Client
	for _, ic := range cfg.Indexers {
		if !ic.Enabled {
			continue
		}
		client, err := indexer.NewFromConfig(models.IndexerConfig{
			Name:     ic.Name,
			BaseURL:  ic.BaseURL,
			Protocol: models.IndexerProtocol(ic.Protocol),
			APIKey:   ic.APIKey,
			Enabled:  ic.Enabled,
		})
		if err != nil {
			log.Printf("[WARN] indexer %s: %v", ic.Name, err)
			continue
		}
		out = append(out, client)
	}
	return out
}

func buildDownloader(cfg *config.Config) download.Client {
	if cfg.Download.BaseURL == "" {
		return nil
	}
	client, err := download.NewClient(download.Config{
		Type:     cfg.Download.Type,
		BaseURL:  cfg.Download.BaseURL,
		Username: cfg.Download.Username,
		Password: cfg.Download.Password,
	})
	if err != nil {
		log.Printf("[WARN] download client: %v", err)
		return nil
	}
	return client
}

// buildCoverArt assembles the artwork provider chain, fanart.tv first
// with the cover art archive as fallback.
func buildCoverArt(cfg *config.Config) *coverart.Coordinator {
	providers := []coverart.Provider{
		coverart.NewFanartProvider(coverart.FanartOptions{APIKey: cfg.Fanart.APIKey}),
		coverart.NewArchiveProvider(coverart.ArchiveOptions{}),
	}
	return coverart.NewCoordinator(providers, metadataCacheCapacity, metadataCacheTTL)
}
