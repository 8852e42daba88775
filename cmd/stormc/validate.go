package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/syssam/storm/compiler"
	"github.com/syssam/storm/compiler/gen"
	"github.com/syssam/storm/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate entity declarations",
	Long: `Validate the entity declarations of a YAML file or of every YAML file
in a directory (default: the current directory).

Checks:
  - Every field type has a converter
  - Every entity has exactly one int64 id field
  - Every entity is bound to a declared database
  - Entity and table names are unique

Examples:
  stormc validate schema/
  stormc validate --config storm.yaml --snapshot model.msgpack schema/
  stormc validate --watch schema/`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

var (
	validateSnapshot string
	validateWatch    bool
)

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateSnapshot, "snapshot", "", "write the validated models to this file")
	validateCmd.Flags().BoolVar(&validateWatch, "watch", false, "validate again whenever a declarations file changes")
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := cfg.Logger(cmd.ErrOrStderr())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	err = validate(ctx, out, cfg, logger, path)
	if !validateWatch {
		return err
	}
	if err != nil {
		logger.Error().Err(err).Msg("validation failed")
	}
	dir := path
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		dir = filepath.Dir(path)
	}
	return compiler.Watch(ctx, dir, logger, func(string) {
		if err := validate(ctx, out, cfg, logger, path); err != nil {
			logger.Error().Err(err).Msg("validation failed")
		}
	})
}

func validate(ctx context.Context, out io.Writer, cfg *config.Config, logger zerolog.Logger, path string) error {
	opts, err := cfg.GenOptions()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	opts = append(opts, gen.WithLogger(logger), gen.WithReporter(gen.NewLogReporter(logger, nil)))
	c, err := gen.NewConfig(opts...)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	fmt.Fprintf(out, "Validating %s...\n\n", path)
	g, err := compiler.Load(ctx, path, c)
	if err != nil {
		return err
	}
	invalid := 0
	for _, e := range g.Nodes {
		if !e.Valid() {
			invalid++
			fmt.Fprintf(out, "  %s %s\n", crossMark, e.QualifiedName())
			continue
		}
		fmt.Fprintf(out, "  %s %s (table %s, database %s, %d fields)\n",
			checkMark, e.QualifiedName(), e.TableName, e.Database.Name, len(e.Fields))
	}
	fmt.Fprintln(out)

	if validateSnapshot != "" {
		if err := writeSnapshot(validateSnapshot, g); err != nil {
			return err
		}
		fmt.Fprintf(out, "Snapshot written to %s\n", validateSnapshot)
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d entities invalid, %d diagnostics", invalid, len(g.Nodes), len(g.Diagnostics()))
	}
	fmt.Fprintf(out, "%d entities valid\n", len(g.Nodes))
	return nil
}

func writeSnapshot(path string, g *gen.Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := gen.EncodeSnapshot(f, g.Snapshot()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

const (
	checkMark = "\033[32m✓\033[0m"
	crossMark = "\033[31m✗\033[0m"
)
