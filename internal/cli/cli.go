// Package cli implements the crackfree command-line interface.
//
// # Commands
//
//   - count: count crack-free walls of a given width and height
//   - layers: list the brick layers of a width and their compatibility graph
//   - serve: expose counting over HTTP
//   - cache: manage the result cache
//
// Settings come from built-in defaults, then the TOML config file, then
// flags. Diagnostics go to stderr so that stdout carries only command
// output.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/crackfree/pkg/buildinfo"
	"github.com/matzehuels/crackfree/pkg/cache"
	"github.com/matzehuels/crackfree/pkg/config"
	"github.com/matzehuels/crackfree/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

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
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and default config.
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
		Use:   "crackfree",
		Short: "Crackfree counts brick walls without running cracks",
		Long: `Crackfree counts the walls of a given width and height built from 2x1 and
3x1 bricks in which no two adjacent layers share an interior joint.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/crackfree/config.toml)")

	root.AddCommand(c.countCommand())
	root.AddCommand(c.layersCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, keyer, err := newCache(ctx, c.Config, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

// newCache opens the cache backend named in cfg. A file cache whose
// directory cannot be resolved degrades to no caching; remote backends that
// cannot be reached are an error.
func newCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, cache.Keyer, error) {
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), cfg.Cache.Prefix)
	if noCache {
		return cache.NewNullCache(), keyer, nil
	}

	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), keyer, nil
	case config.BackendRedis:
		store, err := cache.NewRedisCache(ctx, cfg.Cache.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		return store, keyer, nil
	case config.BackendMongo:
		store, err := cache.NewMongoCache(ctx, cfg.Cache.MongoURI, cfg.Cache.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		return store, keyer, nil
	}

	dir, err := cfg.CacheDir()
	if err != nil {
		return cache.NewNullCache(), keyer, nil
	}
	store, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, nil, err
	}
	return store, keyer, nil
}
