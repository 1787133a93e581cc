// codebase assembles machine-consumable context about a source tree:
// a directory listing, a symbol-level repo map, and whole file contents,
// drawn from configured resources.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tokenring-ai/codebase/internal/config"
	"github.com/tokenring-ai/codebase/internal/logging"
	"github.com/tokenring-ai/codebase/internal/matcher"
	"github.com/tokenring-ai/codebase/internal/resource"
	"github.com/tokenring-ai/codebase/internal/session"
	"github.com/tokenring-ai/codebase/internal/store"
)

var (
	// Global flags
	verbose     bool
	workspace   string
	configPath  string
	sessionName string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "codebase",
	Short: "codebase - source-tree context assembly for agents",
	Long: `codebase assembles context text about a source tree for consumption by
an automated reasoning agent: a directory listing, a symbol-level map of
source files, and full file contents, drawn from a configurable set of
named resources.

Resources are declared in .codebase/config.yaml and toggled per session
with the resources subcommands.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if err := logging.Initialize(workspace); err != nil {
			logger.Warn("categorized logging unavailable", zap.Error(err))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default <workspace>/.codebase/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&sessionName, "session", "s", "default", "named session whose enabled set is used")

	rootCmd.AddCommand(resourcesCmd)
	rootCmd.AddCommand(contextCmd)
	rootCmd.AddCommand(repomapCmd)
}

// loadConfig resolves the config path and loads it, falling back to the
// built-in defaults when no file exists.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = filepath.Join(workspace, ".codebase", "config.yaml")
	}
	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("no config file, using defaults", zap.String("path", path))
			cfg = config.Default()
		} else {
			return nil, err
		}
	}
	if cfg.Workspace == "" || cfg.Workspace == "." {
		cfg.Workspace = workspace
	}
	return cfg, nil
}

// app bundles everything a command needs after setup.
type app struct {
	cfg       *config.Config
	registry  *resource.Registry
	matchers  []*matcher.Matcher
	sess      *session.Session
	snapshots *store.SnapshotStore
}

func (a *app) close() {
	a.snapshots.Close()
}

// setup builds the registry and restores (or seeds) the named session.
// Restored snapshots are filtered against the registry so names of
// resources since removed from config do not linger in the enabled set.
func setup() (*app, error) {
	start := time.Now()

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	registry, matchers, err := config.BuildRegistry(cfg)
	if err != nil {
		return nil, err
	}

	snapshots, err := store.NewSnapshotStore(filepath.Join(cfg.Workspace, ".codebase", "sessions.db"))
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}

	var sess *session.Session
	names, found, err := snapshots.LoadSnapshot(sessionName)
	if err != nil {
		snapshots.Close()
		return nil, err
	}
	if found {
		sess = session.New()
		if dropped := registry.Restore(names, sess); len(dropped) > 0 {
			logger.Warn("dropped stale resource names from restored session",
				zap.String("session", sessionName),
				zap.Strings("names", dropped))
		}
	} else {
		sess, err = config.NewSession(cfg, registry)
		if err != nil {
			snapshots.Close()
			return nil, err
		}
	}

	logger.Debug("setup complete",
		zap.Int("resources", len(cfg.Resources)),
		zap.Int("enabled", len(sess.Enabled())),
		zap.Duration("took", time.Since(start)))

	return &app{cfg: cfg, registry: registry, matchers: matchers, sess: sess, snapshots: snapshots}, nil
}

// accessorFor returns the content accessor for the configured workspace.
func accessorFor(cfg *config.Config) resource.ContentAccessor {
	return &matcher.FSAccessor{Root: cfg.Workspace}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
