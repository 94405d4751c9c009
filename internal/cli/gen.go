package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"codec-generator/internal/config"
	"codec-generator/internal/gen"
	"codec-generator/internal/schema"
	"codec-generator/internal/watch"
)

func newGenCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen <schema>",
		Short: "Generate codec source files from a schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.generate(args[0]); err != nil {
				return err
			}

			if !a.cfg.Watch {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return a.watch(ctx, args[0])
		},
	}

	f := cmd.Flags()
	f.StringP("output", "o", ".", "directory for generated files")
	f.StringP("package", "p", "", "override the schema's package name")
	f.Bool("comments", true, "annotate generated reads and writes")
	f.String("runtime", gen.DefaultRuntimePackage, "import path of the codable runtime")
	f.Bool("fix-imports", false, "resolve missing imports with goimports")
	f.BoolP("watch", "w", false, "regenerate when the schema changes")
	f.Duration("debounce", watch.DefaultDelay, "quiet period before regenerating in watch mode")

	for key, flag := range map[string]string{
		config.KeyOutput:     "output",
		config.KeyPackage:    "package",
		config.KeyComments:   "comments",
		config.KeyRuntime:    "runtime",
		config.KeyFixImports: "fix-imports",
		config.KeyWatch:      "watch",
		config.KeyDebounce:   "debounce",
	} {
		_ = a.v.BindPFlag(key, f.Lookup(flag))
	}

	return cmd
}

func (a *app) generate(path string) error {
	f, err := schema.LoadFile(path)
	if err != nil {
		return err
	}

	g := gen.NewGenerator(gen.GeneratorConfig{
		PackageName:      a.cfg.Package,
		OutputDir:        a.cfg.Output,
		GenerateComments: a.cfg.Comments,
		RuntimePackage:   a.cfg.Runtime,
		FixImports:       a.cfg.FixImports,
	}, a.log)

	files, err := g.Generate(f)
	if err != nil {
		return err
	}

	return gen.WriteFiles(files, a.cfg.Output, a.log)
}

func (a *app) watch(ctx context.Context, path string) error {
	w, err := watch.New([]string{path}, a.cfg.Debounce, a.log)
	if err != nil {
		return err
	}

	a.log.Info("watching schema", zap.String("path", path))

	return w.Run(ctx, func([]string) error {
		return a.generate(path)
	})
}
