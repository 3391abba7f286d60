// Package cli implements the transport command-line interface.
//
// This package provides commands for solving transportation problems from
// JSON or TOML files, optimizing and verifying plans, drawing the basis
// graph, stepping through optimizer rounds, and managing stored tasks. The
// CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - solve: Build an initial plan (northwest corner or penalty method)
//   - optimize: Run the stepping-stone method on a saved plan
//   - verify: Compare plans with the exact optimum
//   - render: Draw the basis graph as SVG or DOT
//   - inspect: Step through optimizer rounds interactively
//   - task: Create, list, update and optimize stored tasks
//   - serve: Run the HTTP API
//   - cache: Manage the result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// traces every allocation and pivot.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/Tafitantsu/Transport-cost/pkg/cache"
	"github.com/Tafitantsu/Transport-cost/pkg/service"
	"github.com/Tafitantsu/Transport-cost/pkg/task"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "transport"

	// defaultMethod is used when neither the flag nor the file names one.
	defaultMethod = "corner"
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
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Service Factory
// =============================================================================

// serviceOpts selects the backends for a CLI service.
type serviceOpts struct {
	noCache   bool
	tasks     bool // use the on-disk task store instead of a throwaway one
	maxRounds int
}

// newService creates a service for CLI use. Stateless commands get an
// in-memory task store; task commands get the file store.
func (c *CLI) newService(opts serviceOpts) (*service.Service, error) {
	var store task.Store
	if opts.tasks {
		dir, err := taskDir()
		if err != nil {
			return nil, err
		}
		fs, err := task.NewFileStore(dir)
		if err != nil {
			return nil, err
		}
		store = fs
	}
	svc := service.New(store, newCache(opts.noCache), nil, c.Logger)
	svc.MaxRounds = opts.maxRounds
	return svc, nil
}

// newCache returns the file cache, or a null cache when disabled or when
// the cache directory cannot be created.
func newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return fc
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/transport/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// taskDir returns the task directory (~/.local/share/transport/tasks/).
func taskDir() (string, error) {
	return task.DefaultDir()
}
