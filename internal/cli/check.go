package cli

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"codec-generator/internal/schema"
)

func newCheckCommand(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check <schema>",
		Short: "Validate a schema and print every finding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := schema.LoadFile(args[0])
			if err != nil {
				return err
			}

			diags := schema.Validate(f)
			out := cmd.OutOrStdout()

			for _, d := range diags.All() {
				fmt.Fprintf(out, "%s: %s\n", d.Severity, d)
			}

			if err := diags.Err(); err != nil {
				return err
			}

			if strict && len(diags.Warnings) > 0 {
				return errors.Newf("%d warning(s) in strict mode", len(diags.Warnings))
			}

			fmt.Fprintf(out, "%s: %d record(s) ok\n", args[0], len(f.Records))

			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as errors")

	return cmd
}
