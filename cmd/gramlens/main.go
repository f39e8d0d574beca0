// Command gramlens analyzes public Instagram profiles: scrape, LLM analysis,
// cached results, served over a CLI or a small HTTP API.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"gramlens/internal/analyzer"
	"gramlens/internal/cache"
	"gramlens/internal/config"
	"gramlens/internal/instagram"
	"gramlens/internal/llm"
	"gramlens/internal/pipeline"
	"gramlens/internal/server"
	"gramlens/internal/session"
)

var (
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gramlens",
	Short: "Instagram profile analysis",
	Long:  "gramlens scrapes a public Instagram profile, runs it through an LLM forensic analysis, and caches the result.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
		_ = godotenv.Load()

		loaded, err := config.Load(configPath)
		if err != nil {
			if configPath == "" && os.IsNotExist(err) {
				// First run without an explicit config: defaults are fine.
				loaded = config.Default()
			} else {
				return fmt.Errorf("loading config: %w", err)
			}
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(initCmd)

	analyzeCmd.Flags().BoolVar(&refreshFlag, "refresh", false, "Bypass the cache and re-run the full pipeline")
	analyzeCmd.Flags().BoolVar(&narrativeFlag, "narrative", false, "Also generate the plain-text report, forensic, and temporal analyses")
}

var (
	refreshFlag   bool
	narrativeFlag bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <username>",
	Short: "Analyze one profile and print the result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pipe, err := buildPipeline(cfg)
		if err != nil {
			return err
		}

		result, err := pipe.Run(cmd.Context(), args[0], refreshFlag, narrativeFlag)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API with a scheduled cache purge",
	RunE: func(cmd *cobra.Command, args []string) error {
		pipe, err := buildPipeline(cfg)
		if err != nil {
			return err
		}
		store, err := buildCache(cfg)
		if err != nil {
			return err
		}

		c := cron.New()
		if _, err := c.AddFunc(cfg.Cache.PurgeSchedule, func() {
			if n, err := store.PurgeExpired(); err != nil {
				log.Printf("Scheduled cache purge failed: %v", err)
			} else {
				log.Printf("Scheduled cache purge removed %d entries", n)
			}
		}); err != nil {
			return fmt.Errorf("invalid purge schedule %q: %w", cfg.Cache.PurgeSchedule, err)
		}
		c.Start()
		defer c.Stop()

		srv := server.New(pipe)
		log.Printf("Listening on %s", cfg.Server.Addr)
		return http.ListenAndServe(cfg.Server.Addr, srv.Handler())
	},
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete expired cache entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := buildCache(cfg)
		if err != nil {
			return err
		}
		n, err := store.PurgeExpired()
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d expired entries\n", n)
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("Config already exists: %s\n", path)
			return nil
		}
		if err := config.Default().Save(); err != nil {
			return err
		}
		fmt.Printf("Created config: %s\n", path)
		return nil
	},
}

func buildCache(cfg *config.Config) (*cache.Store, error) {
	path := cfg.Cache.Path
	if path == "" {
		var err error
		path, err = config.DefaultCachePath()
		if err != nil {
			return nil, err
		}
	}

	opts := []cache.Option{}
	if cfg.Cache.TTLDays > 0 {
		opts = append(opts, cache.WithTTL(time.Duration(cfg.Cache.TTLDays)*24*time.Hour))
	}
	return cache.New(path, opts...)
}

func buildLLM(cfg *config.Config) (llm.Client, error) {
	apiKey := cfg.Analysis.APIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("no API key set in $%s", cfg.Analysis.APIKeyEnv)
	}

	switch cfg.Analysis.Provider {
	case "openai", "":
		return llm.NewOpenAIClient(cfg.Analysis.BaseURL, apiKey, cfg.Analysis.Model), nil
	case "anthropic":
		return llm.NewAnthropicClient(apiKey, cfg.Analysis.Model), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Analysis.Provider)
	}
}

func buildPipeline(cfg *config.Config) (*pipeline.Pipeline, error) {
	store, err := buildCache(cfg)
	if err != nil {
		return nil, err
	}

	client, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}

	acquirer := session.NewAcquirer(cfg.Scrape.Headless, time.Duration(cfg.Scrape.TimeoutSeconds)*time.Second)
	fetcher := instagram.NewClient()
	an := analyzer.New(client, cfg.Analysis.Model,
		analyzer.WithMaxTokens(cfg.Analysis.MaxTokens),
		analyzer.WithTemperature(cfg.Analysis.Temp))

	return pipeline.New(acquirer, fetcher, an, store), nil
}
