package main

import (
	"fmt"
	"os"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"lending-library/internal/config"
	"lending-library/internal/lockfile"
	"lending-library/internal/logger"
	"lending-library/library"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds the state shared by every command. The manager is opened lazily
// so commands like "config show" never touch storage.
type app struct {
	configPath string

	// configSource is the resolved config file; configFound is false when
	// defaults were used.
	configSource string
	configFound  bool

	cfg  *config.Config
	log  *logger.Logger
	lock *flock.Flock
	mgr  *library.LibraryManager
}

func (a *app) config() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, source, found, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	a.cfg, a.configSource, a.configFound = cfg, source, found
	return cfg, nil
}

func (a *app) manager() (*library.LibraryManager, error) {
	if a.mgr != nil {
		return a.mgr, nil
	}
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	if a.log == nil {
		if a.log, err = logger.New(cfg.Logging.Mode, cfg.Logging.Level); err != nil {
			return nil, err
		}
	}

	if cfg.Storage.Lock {
		if a.lock, err = lockfile.Acquire(cfg.LockPath()); err != nil {
			return nil, err
		}
	}

	mgr, err := library.NewLibraryManager(library.StoreOptions{
		Backend:    cfg.Storage.Backend,
		Dir:        cfg.Storage.DataDir,
		SQLitePath: cfg.Storage.SQLitePath,
	}, a.log)
	if err != nil {
		a.release()
		return nil, err
	}
	a.log.Debug("library opened", "backend", cfg.Storage.Backend, "data_dir", cfg.Storage.DataDir)
	a.mgr = mgr
	return mgr, nil
}

func (a *app) release() {
	if a.lock != nil {
		if err := a.lock.Unlock(); err != nil && a.log != nil {
			a.log.Warn("failed to release data dir lock", "error", err)
		}
		a.lock = nil
	}
}

func (a *app) close() {
	if a.mgr != nil {
		if err := a.mgr.Close(); err != nil {
			a.log.Warn("close library", "error", err)
		}
		a.mgr = nil
	}
	a.release()
	if a.log != nil {
		a.log.Sync()
	}
}

// run opens the library for the duration of fn.
func (a *app) run(fn func(mgr *library.LibraryManager) error) error {
	mgr, err := a.manager()
	if err != nil {
		return err
	}
	defer a.close()
	return fn(mgr)
}

func newRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "lending",
		Short:         "Lending library: catalog, members, loans and waitlists",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newBookCommand(a))
	rootCmd.AddCommand(newMemberCommand(a))
	rootCmd.AddCommand(newShellCommand(a))
	rootCmd.AddCommand(newConfigCommand(a))
	return rootCmd
}
