package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/strager/fastruby/compiler"
	"golang.org/x/sync/errgroup"
)

// buildFiles compiles files in parallel and returns every generated unit
// followed by the dispatch unit for all methods the files call.
//
// Each file gets its own compiler. Registries are merged in argument order,
// so when two files call a method with different arities the later file
// wins.
func buildFiles(ctx context.Context, files []string, cfg Config, logger *slog.Logger) ([]*compiler.Unit, error) {
	results := make([]*compiler.Compiler, len(files))

	g, gctx := errgroup.WithContext(ctx)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			mainClass := cfg.MainClass
			if len(files) > 1 {
				mainClass = ""
			}
			c, err := compileFile(file, mainClass, cfg, logger.With("file", file))
			if err != nil {
				return err
			}
			results[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	methods := compiler.NewRegistry()
	var units []*compiler.Unit
	origin := make(map[string]string)
	for i, c := range results {
		for _, unit := range c.Units {
			if prev, ok := origin[unit.Name]; ok {
				if prev == files[i] {
					return nil, fmt.Errorf("%s: class %s is defined more than once", prev, unit.Name)
				}
				return nil, fmt.Errorf("class %s is defined by both %s and %s", unit.Name, prev, files[i])
			}
			origin[unit.Name] = files[i]
			units = append(units, unit)
		}
		methods.Merge(c.Methods)
	}

	if prev, ok := origin[compiler.DispatchClass]; ok {
		return nil, fmt.Errorf("%s: class name %s is reserved", prev, compiler.DispatchClass)
	}
	units = append(units, compiler.DispatchUnit(cfg.options(), methods))

	logger.Info("build finished", "files", len(files), "units", len(units), "methods", methods.Len())
	return units, nil
}

// writeUnits saves each unit under dir, creating dir if needed.
func writeUnits(dir string, units []*compiler.Unit) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, unit := range units {
		path := filepath.Join(dir, unit.FileName())
		if err := os.WriteFile(path, []byte(unit.Source()), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}
