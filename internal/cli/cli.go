// Package cli implements the podlens command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/matzehuels/podlens/internal/config"
	"github.com/matzehuels/podlens/pkg/buildinfo"
	"github.com/matzehuels/podlens/pkg/cache"
	"github.com/matzehuels/podlens/pkg/integrations/cocoapods"
	"github.com/matzehuels/podlens/pkg/integrations/github"
	"github.com/matzehuels/podlens/pkg/pods"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "podlens"

	// githubBurst is the token bucket size for GitHub API requests.
	githubBurst = 5
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath overrides the default config file location (--config).
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "podlens extracts usage examples from CocoaPods READMEs",
		Long:         `podlens looks up a pod on CocoaPods trunk, reads the README of its GitHub repository and extracts the usage examples and installation snippets it contains.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/podlens/config.toml)")

	root.AddCommand(c.examplesCommand())
	root.AddCommand(c.installCommand())
	root.AddCommand(c.parseCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Service Factory
// =============================================================================

// loadConfig reads the config file selected by --config.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("config loaded", "backend", cfg.Cache.Backend, "ttl", cfg.Cache.TTL.Duration())
	return cfg, nil
}

// newService wires the registry clients, the HTTP cache and the result cache
// into a pods.Service. The returned cleanup closes everything it opened.
func (c *CLI) newService(ctx context.Context, cfg *config.Config, noCache bool) (*pods.Service, func(), error) {
	backend := cache.NewNullCache()
	if !noCache {
		var err error
		if backend, err = config.OpenCache(ctx, cfg, c.Logger); err != nil {
			return nil, nil, err
		}
	}

	httpTTL := cfg.Cache.HTTPTTL.Duration()
	gh := github.NewClient(backend, cfg.GitHub.Token.Value(), httpTTL)
	if cfg.GitHub.Rate > 0 {
		gh.WithRateLimit(rate.Limit(cfg.GitHub.Rate), githubBurst)
	}
	if cfg.GitHub.BaseURL != "" {
		gh.WithBaseURL(cfg.GitHub.BaseURL)
	}
	cp := cocoapods.NewClient(backend, httpTTL)
	if cfg.CocoaPods.BaseURL != "" {
		cp.WithBaseURL(cfg.CocoaPods.BaseURL)
	}

	results, err := pods.NewResultCache(cfg.ResultCache(), c.Logger, nil)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}

	svc, err := pods.NewService(pods.Options{
		CocoaPods: cp,
		GitHub:    gh,
		Results:   results,
		Logger:    c.Logger,
	})
	if err != nil {
		results.Close()
		backend.Close()
		return nil, nil, err
	}

	cleanup := func() {
		svc.Close()
		if err := backend.Close(); err != nil {
			c.Logger.Warn("close cache", "error", err)
		}
	}
	return svc, cleanup, nil
}
