// Package config merges codec-generator settings from CLI flags, CODECGEN_*
// environment variables (optionally from a .env file) and codecgen.yaml.
package config
