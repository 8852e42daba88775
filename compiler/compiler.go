// Package compiler loads storm declarations and builds their entity graph.
package compiler

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/syssam/storm/compiler/gen"
	"github.com/syssam/storm/compiler/load"
)

// Load parses the declarations file or directory at path and builds the
// entity graph. Declaration problems are reported through cfg and the
// returned graph; the error is set only when the declarations cannot be
// read or parsed.
func Load(ctx context.Context, path string, cfg *gen.Config) (*gen.Graph, error) {
	schemas, err := load.ParsePath(path)
	if err != nil {
		return nil, fmt.Errorf("storm/compiler: load %s: %w", path, err)
	}
	return gen.NewGraph(ctx, cfg, schemas...)
}

// LoadStructs builds the entity graph of the given Go struct values.
func LoadStructs(ctx context.Context, cfg *gen.Config, values ...any) (*gen.Graph, error) {
	schemas := make([]*load.Schema, 0, len(values))
	for _, v := range values {
		s, err := load.FromStruct(v)
		if err != nil {
			return nil, fmt.Errorf("storm/compiler: %w", err)
		}
		schemas = append(schemas, s)
	}
	return gen.NewGraph(ctx, cfg, schemas...)
}

// Watch watches dir and its subdirectories and calls fn with the path of
// every declarations file that is written or created. It blocks until ctx
// is done.
func Watch(ctx context.Context, dir string, logger zerolog.Logger, fn func(path string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return err
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch directory: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info().Str("dir", dir).Msg("watching declarations for changes")

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !load.IsSchemaFile(event.Name) {
				// New directories are watched too.
				if event.Has(fsnotify.Create) {
					addDir(watcher, event.Name, logger)
				}
				continue
			}
			// Atomic saves show up as create.
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				logger.Debug().
					Str("event", event.Op.String()).
					Str("file", event.Name).
					Msg("declarations changed")
				fn(event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error().Err(err).Msg("file watcher error")
		case <-ctx.Done():
			return nil
		}
	}
}

func addDir(watcher *fsnotify.Watcher, path string, logger zerolog.Logger) {
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		return
	}
	if err := watcher.Add(path); err != nil {
		logger.Error().Err(err).Str("dir", path).Msg("watch directory")
	}
}
