package cli

import (
	"github.com/spf13/cobra"

	"codec-generator/internal/plan"
	"codec-generator/internal/schema"
)

func newPlanCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <schema>",
		Short: "Print the key trie and the read, write and constructor plans as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := schema.LoadFile(args[0])
			if err != nil {
				return err
			}

			units, err := schema.Compile(f, a.log)
			if err != nil {
				return err
			}

			records := make([]*plan.Record, 0, len(units))
			for _, u := range units {
				records = append(records, u.Plan)
			}

			data, err := plan.ExportYAML(records)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(data)

			return err
		},
	}
}
