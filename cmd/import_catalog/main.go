package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"lending-library/internal/config"
	"lending-library/internal/lockfile"
	"lending-library/internal/logger"
	"lending-library/library"
)

// seed is the bulk-import file layout, accepted as TOML or YAML.
type seed struct {
	Books []struct {
		Title  string `toml:"title" yaml:"title"`
		Author string `toml:"author" yaml:"author"`
	} `toml:"books" yaml:"books"`
	Members []struct {
		ID   int64  `toml:"id" yaml:"id"`
		Name string `toml:"name" yaml:"name"`
	} `toml:"members" yaml:"members"`
}

func loadSeed(path string) (*seed, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	var s seed
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &s)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &s)
	default:
		return nil, fmt.Errorf("unsupported seed format %q (want .toml, .yaml or .yml)", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("parse seed %s: %w", path, err)
	}
	return &s, nil
}

// importSeed adds every well-formed entry and returns (imported, skipped).
func importSeed(out io.Writer, mgr *library.LibraryManager, s *seed) (int, int) {
	imported, skipped := 0, 0
	for _, b := range s.Books {
		if strings.TrimSpace(b.Title) == "" {
			fmt.Fprintln(out, "Warning: book without title, skipping")
			skipped++
			continue
		}
		mgr.AddBook(strings.TrimSpace(b.Title), strings.TrimSpace(b.Author))
		fmt.Fprintf(out, "Imported book: %s by %s\n", b.Title, b.Author)
		imported++
	}
	for _, m := range s.Members {
		if strings.TrimSpace(m.Name) == "" {
			fmt.Fprintf(out, "Warning: member %d without name, skipping\n", m.ID)
			skipped++
			continue
		}
		mgr.AddMember(m.ID, strings.TrimSpace(m.Name))
		fmt.Fprintf(out, "Imported member: %d %s\n", m.ID, m.Name)
		imported++
	}
	mgr.Notices().Drain()
	return imported, skipped
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "import_catalog <seed.toml|seed.yaml>",
		Short:         "Bulk-load books and members into the library",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.OutOrStdout(), configPath, args[0])
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file path")
	return cmd
}

func runImport(out io.Writer, configPath, seedPath string) error {
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Logging.Mode, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	s, err := loadSeed(seedPath)
	if err != nil {
		return fmt.Errorf("read seed: %w", err)
	}

	if cfg.Storage.Lock {
		lock, err := lockfile.Acquire(cfg.LockPath())
		if err != nil {
			return err
		}
		defer lock.Unlock()
	}

	manager, err := library.NewLibraryManager(library.StoreOptions{
		Backend:    cfg.Storage.Backend,
		Dir:        cfg.Storage.DataDir,
		SQLitePath: cfg.Storage.SQLitePath,
	}, log)
	if err != nil {
		return fmt.Errorf("open library: %w", err)
	}
	defer manager.Close()

	imported, skipped := importSeed(out, manager, s)
	fmt.Fprintf(out, "\nImport complete!\n")
	fmt.Fprintf(out, "Imported: %d\n", imported)
	fmt.Fprintf(out, "Skipped: %d\n", skipped)
	fmt.Fprintf(out, "Catalog now holds %d books and %d members\n", len(manager.ListBooks()), len(manager.ListMembers()))
	return nil
}
