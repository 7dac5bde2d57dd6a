// Package cli implements the cornerstone command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cornerstone/pkg/buildinfo"
	"github.com/matzehuels/cornerstone/pkg/cache"
	"github.com/matzehuels/cornerstone/pkg/config"
	"github.com/matzehuels/cornerstone/pkg/engine"
	"github.com/matzehuels/cornerstone/pkg/errors"
	"github.com/matzehuels/cornerstone/pkg/observability"
	"github.com/matzehuels/cornerstone/pkg/suite"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "cornerstone"

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

	configPath    string
	catalogRef    string
	catalogFormat suite.Format
	noCache       bool

	// cfg is resolved once per invocation by the root PersistentPreRunE.
	cfg *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Cornerstone places suite public values in a shared header",
		Long: `Cornerstone computes where each cryptographic suite may place its
fixed-size cornerstone inside a shared message header, and checks that any
subset of suites can be given non-overlapping byte ranges.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/cornerstone/config.toml)")
	pf.StringVarP(&c.catalogRef, "catalog", "c", "", `catalog file, or builtin "default" or "toy"`)
	pf.Var(&c.catalogFormat, "catalog-format", "catalog file format: toml, yaml, jsonc (default: from extension)")
	pf.BoolVar(&c.noCache, "no-cache", false, "disable the report cache")

	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.positionsCommand())
	root.AddCommand(c.placeCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.verifyCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and attaches the logger to the command
// context. Debug logging also turns on the observability log hooks.
func (c *CLI) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.cfg = cfg

	if c.Logger.GetLevel() <= log.DebugLevel {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetVerifyHooks(hooks)
		observability.SetCacheHooks(hooks)
	}
	observability.SetServerHooks(observability.NewLogHooks(c.Logger))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// settings returns the resolved configuration, falling back to defaults
// when setup has not run.
func (c *CLI) settings() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// =============================================================================
// Catalog
// =============================================================================

// loadCatalog resolves --catalog, then the configured catalog, as a
// builtin name or a file path.
func (c *CLI) loadCatalog() (*suite.Catalog, error) {
	ref := c.catalogRef
	if ref == "" {
		ref = c.settings().Catalog
	}
	if cat, ok := suite.Builtin(ref); ok {
		c.Logger.Debug("using builtin catalog", "name", ref)
		return cat, nil
	}
	if err := errors.ValidatePath(ref); err != nil {
		return nil, err
	}
	cat, err := suite.LoadFile(ref, c.catalogFormat)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	c.Logger.Debug("loaded catalog", "path", ref, "suites", cat.Len())
	return cat, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates an engine runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context) (*engine.Runner, error) {
	cfg := c.settings()
	store, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	r := engine.NewRunner(store, c.keyer(), c.Logger)
	if cfg.Cache.TTL.Duration > 0 {
		r.ReportTTL = cfg.Cache.TTL.Duration
	}
	return r, nil
}

// keyer scopes report keys by the configured namespace. The redis backend
// prefixes keys itself, so it gets the default keyer.
func (c *CLI) keyer() cache.Keyer {
	cfg := c.settings()
	if cfg.Cache.Namespace == "" || cfg.Cache.Backend == config.BackendRedis {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, cfg.Cache.Namespace)
}

// uncachedRunner serves commands that never touch cached reports.
func (c *CLI) uncachedRunner() *engine.Runner {
	return engine.NewRunner(nil, nil, c.Logger)
}

func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	cfg := c.settings()
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		rc, err := cache.DialRedis(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			Prefix:   cfg.Cache.Namespace,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCache, err, "connect to redis at %s", cfg.Cache.Redis.Addr)
		}
		return rc, nil
	default:
		dir, err := cacheDir(cfg)
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, defaulting to the XDG
// cache home (~/.cache/cornerstone/).
func cacheDir(cfg *config.Config) (string, error) {
	if cfg != nil && cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return config.DefaultCacheDir()
}

// writeOutput writes data to path, or to w when path is empty.
func writeOutput(w io.Writer, data []byte, path string) error {
	if path == "" {
		_, err := w.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
