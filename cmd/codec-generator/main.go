// Package main provides the CLI entrypoint for codec-generator.
//
// codec-generator turns a declarative schema of records and fields into Go
// codecs:
//   - Validates the schema and suggests fixes for near-miss names
//   - Plans nested key reads and writes ahead of time
//   - Generates structs with constructors, UnmarshalJSON and MarshalJSON
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"

	"codec-generator/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		if hints := errors.FlattenHints(err); hints != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", strings.ReplaceAll(hints, "\n", "\nHint: "))
		}

		os.Exit(1)
	}
}
