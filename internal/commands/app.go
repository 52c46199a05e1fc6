package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gestao-mpe/gmpe/internal/books"
	"github.com/gestao-mpe/gmpe/internal/config"
	"github.com/gestao-mpe/gmpe/internal/logging"
	"github.com/gestao-mpe/gmpe/internal/report"
	"github.com/gestao-mpe/gmpe/internal/store"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	envFile    string
	style      string
}

// app is an opened book plus the settings it was opened with.
type app struct {
	cfg   *config.Config
	log   *slog.Logger
	kv    store.KV
	books *books.Service
	out   io.Writer
}

// loadConfig reads the config file, overlays the environment and resolves
// a relative store path against the config file's directory.
func (g *globalFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(g.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(g.envFile); err != nil {
		return nil, err
	}
	if g.style != "" {
		cfg.Report.Style = g.style
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Store.Path != "" && !filepath.IsAbs(cfg.Store.Path) {
		cfg.Store.Path = filepath.Join(filepath.Dir(g.configPath), cfg.Store.Path)
	}
	return cfg, nil
}

func (g *globalFlags) open(cmd *cobra.Command) (*app, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}

	lc := logging.FromConfig(cfg.Log, "gmpe")
	lc.Output = cmd.ErrOrStderr()
	logger := logging.New(lc)

	kv, err := store.Open(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	gw := store.NewGateway(kv, logging.Component(logger, "store"))
	svc, err := books.Open(cmd.Context(), gw, books.WithLogger(logging.Component(logger, "books")))
	if err != nil {
		kv.Close()
		return nil, err
	}
	logger.Debug("opened book", "driver", cfg.Store.Driver, "path", cfg.Store.Path)
	return &app{cfg: cfg, log: logger, kv: kv, books: svc, out: cmd.OutOrStdout()}, nil
}

func (a *app) Close() error {
	return a.kv.Close()
}

// withApp opens the book for the duration of fn.
func (g *globalFlags) withApp(cmd *cobra.Command, fn func(a *app) error) error {
	a, err := g.open(cmd)
	if err != nil {
		return err
	}
	return errors.Join(fn(a), a.Close())
}

// show renders markdown according to the configured report style.
func (a *app) show(markdown string) error {
	out, err := report.Render(markdown, a.cfg.Report.Style, a.books.State().Cfg.Theme)
	if err != nil {
		return err
	}
	_, err = io.WriteString(a.out, out)
	return err
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// writeOutput writes data to path, or to the command output when path is
// "-". A directory path (or empty path) receives data under name.
func writeOutput(w io.Writer, path, name string, data []byte) (string, error) {
	if path == "-" {
		_, err := w.Write(data)
		return "", err
	}
	if path == "" {
		path = "."
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, name)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
