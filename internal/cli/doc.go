// Package cli implements the codec-generator command line: gen, check, plan,
// init and version.
package cli
