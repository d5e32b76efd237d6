// Package cli implements the threadmap command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/threadmap/pkg/buildinfo"
	"github.com/matzehuels/threadmap/pkg/config"
	"github.com/matzehuels/threadmap/pkg/core/geom"
	"github.com/matzehuels/threadmap/pkg/errors"
	"github.com/matzehuels/threadmap/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "threadmap"

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

	// Config is loaded by the root command before any subcommand runs.
	Config config.Config

	configPath string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
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
		Use:   appName,
		Short: "Threadmap lays out topic and concept maps",
		Long: `Threadmap positions the nodes of a knowledge map so that topics and
concepts never overlap, concepts cluster around their topic, and the map stays
centered on the canvas.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/threadmap/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable caching")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("config loaded", "path", c.configPath, "cache", cfg.Cache.Backend)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	cc := c.Config.Cache
	if c.noCache {
		cc.Backend = config.BackendNone
	}
	store, err := cc.Open(ctx, c.Logger)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, cc.Keyer(), c.Logger), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// baseOptions returns pipeline options carrying the configured engine
// parameters.
func (c *CLI) baseOptions() pipeline.Options {
	p := c.Config.Layout
	return pipeline.Options{
		Params: &p,
		Scale:  pipeline.DefaultScale,
		Logger: c.Logger,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for f := range strings.SplitSeq(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, strings.ToLower(f))
		}
	}
	return out
}

// parsePoint parses "x,y" into a point. An empty string yields nil.
func parsePoint(s string) (*geom.Point, error) {
	if s == "" {
		return nil, nil
	}
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "point %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "point %q", s)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "point %q", s)
	}
	return &geom.Point{X: x, Y: y}, nil
}

// withExt replaces the extension of path, treating a trailing ".layout"
// as part of it.
func withExt(path, ext string) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	base = strings.TrimSuffix(base, ".layout")
	return fmt.Sprintf("%s.%s", base, ext)
}

// completeGraphFiles offers graph and layout documents for file arguments.
func completeGraphFiles(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{"json", "yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
}
