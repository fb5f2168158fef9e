package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDelay is how long the watcher waits for more changes before
// rebuilding. Editors often write a file several times when saving.
const watchDelay = 100 * time.Millisecond

func watchCommand(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	output := fs.String("o", "", "Output directory (default: output from the config, or .)")
	configPath := fs.String("config", "", "Config file (default: "+defaultConfigPath+" if present)")
	verbose := fs.Bool("v", false, "Show verbose compilation details")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fastruby watch [-o dir] [-config file] [-v] <files>\n")
		fmt.Fprintf(os.Stderr, "Build files, then rebuild whenever one of them changes\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: expected at least one file argument\n")
		fs.Usage()
		os.Exit(1)
	}

	cfg := mustLoadConfig(*configPath)
	if *output != "" {
		cfg.Output = *output
	}
	logger := newLogger(*verbose)
	files := fs.Args()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rebuild := func() error {
		units, err := buildFiles(ctx, files, cfg, logger)
		if err != nil {
			return err
		}
		if err := writeUnits(cfg.Output, units); err != nil {
			return err
		}
		fmt.Printf("Generated %d Java files in %s\n", len(units), cfg.Output)
		return nil
	}

	if err := watch(ctx, files, rebuild, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// watch calls rebuild once, then again after any of files changes, until
// ctx is done. Build errors are printed and do not stop the watch.
//
// The parent directories are watched rather than the files, so files
// replaced by rename (as many editors save) keep being noticed.
func watch(ctx context.Context, files []string, rebuild func() error, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	watched := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return err
		}
		watched[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		dirs[dir] = true
		logger.Debug("watching directory", "dir", dir)
	}

	run := func() {
		if err := rebuild(); err != nil {
			fmt.Fprintf(os.Stderr, "Compilation failed: %v\n", err)
		}
	}
	run()

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isRelevant(ev, watched) {
				continue
			}
			logger.Debug("file changed", "file", ev.Name, "op", ev.Op.String())
			pending = time.After(watchDelay)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		case <-pending:
			pending = nil
			run()
		}
	}
}

// isRelevant reports whether ev changes the contents of a watched file.
func isRelevant(ev fsnotify.Event, watched map[string]bool) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	return watched[abs]
}
