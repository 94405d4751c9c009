package cli

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"codec-generator/internal/schema"
)

func newInitCommand(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init <schema>",
		Short: "Write a starter schema (YAML, or TOML for a .toml path)",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := args[0]

			if _, err := os.Stat(path); err == nil && !force {
				return errors.WithHint(errors.Newf("%s already exists", path), "pass --force to overwrite it")
			}

			if err := schema.WriteFile(starterSchema(), path); err != nil {
				return err
			}

			a.log.Info("wrote starter schema", zap.String("path", path))

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

func starterSchema() *schema.File {
	zero := schema.Expr("0")
	dry := schema.Expr(`"dry"`)

	return &schema.File{
		Version: schema.CurrentVersion,
		Package: "models",
		Records: []schema.Record{
			{
				Name:   "Qux",
				Access: "public",
				Fields: []schema.Field{
					{Name: "id", Type: "int"},
				},
			},
			{
				Name:   "Foo",
				Access: "public",
				Doc:    "Foo reads bar, booz, qux and beer.doo.",
				Fields: []schema.Field{
					{Name: "bar", Type: "int", Default: &zero},
					{Name: "baz", Type: "*string", Key: "booz"},
					{Name: "qux", Type: "[]Qux"},
					{Name: "doo", Type: "string", Key: "beer.doo", Default: &dry},
				},
			},
		},
	}
}
