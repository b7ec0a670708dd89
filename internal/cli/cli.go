package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lightbox/pkg/buildinfo"
	"github.com/matzehuels/lightbox/pkg/cache"
	"github.com/matzehuels/lightbox/pkg/config"
	"github.com/matzehuels/lightbox/pkg/observability"
	"github.com/matzehuels/lightbox/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "lightbox"
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

	// Config is loaded before any command runs.
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Lightbox lays out and zooms media galleries",
		Long:         `Lightbox packs photo and video manifests into balanced masonry grids, renders them to SVG, PNG, PDF or JSON, and previews the zoomable carousel and row grid in the terminal.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			observability.SetAspectHooks(aspectLogHooks{logger: c.Logger})
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/lightbox/config.toml)")

	// Register all subcommands
	root.AddCommand(c.packCommand())
	root.AddCommand(c.aspectCommand())
	root.AddCommand(c.rowsCommand())
	root.AddCommand(c.carouselCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads --config, or the default location when the flag is unset.
func (c *CLI) loadConfig() error {
	var (
		cfg config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.Load(c.configPath)
	} else {
		cfg, err = config.LoadDefault(appName)
	}
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cache, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, c.Config.Cache.Keyer(), c.Logger), nil
}

// newCache opens the configured backend. A file cache that cannot be
// created degrades to no caching; remote backends fail loudly.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cc, err := c.Config.Cache.Open(ctx, appName)
	if err != nil {
		if c.Config.Cache.Backend == config.BackendFile || c.Config.Cache.Backend == "" {
			c.Logger.Warn("file cache unavailable, continuing without cache", "err", err)
			return cache.NewNullCache(), nil
		}
		return nil, err
	}
	return cc, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// gridOptions returns pipeline options seeded from the [grid] config section.
func (c *CLI) gridOptions() pipeline.Options {
	g := c.Config.Grid
	return pipeline.Options{
		Columns:    g.Columns,
		Width:      g.Width,
		Gutter:     g.Gutter,
		Tolerance:  g.Tolerance,
		Responsive: g.Breakpoints,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
