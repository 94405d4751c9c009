package config

import (
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Name is the config file base name, looked up as codecgen.yaml.
const Name = "codecgen"

// EnvPrefix prefixes every environment override, e.g. CODECGEN_OUTPUT.
const EnvPrefix = "CODECGEN"

// Keys understood in the config file, the environment and CLI flags.
const (
	KeyOutput     = "output"
	KeyPackage    = "package"
	KeyComments   = "comments"
	KeyRuntime    = "runtime"
	KeyFixImports = "fix_imports"
	KeyLogJSON    = "log_json"
	KeyVerbose    = "verbose"
	KeyWatch      = "watch"
	KeyDebounce   = "debounce"
)

// Config holds the generator settings after all sources are merged.
// Precedence: flags, environment, config file, defaults.
type Config struct {
	Output     string        `mapstructure:"output"`
	Package    string        `mapstructure:"package"`
	Comments   bool          `mapstructure:"comments"`
	Runtime    string        `mapstructure:"runtime"`
	FixImports bool          `mapstructure:"fix_imports"`
	LogJSON    bool          `mapstructure:"log_json"`
	Verbose    bool          `mapstructure:"verbose"`
	Watch      bool          `mapstructure:"watch"`
	Debounce   time.Duration `mapstructure:"debounce"`
}

// New returns a viper instance with defaults and environment binding set.
// Callers bind their flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyOutput, ".")
	v.SetDefault(KeyPackage, "")
	v.SetDefault(KeyComments, true)
	v.SetDefault(KeyRuntime, "codec-generator/codable")
	v.SetDefault(KeyFixImports, false)
	v.SetDefault(KeyLogJSON, false)
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyWatch, false)
	v.SetDefault(KeyDebounce, 200*time.Millisecond)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads .env and codecgen.yaml from the first dir that has them, then
// merges everything into a Config.
func Load(v *viper.Viper, dirs ...string) (*Config, error) {
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	if err := loadDotenv(dirs); err != nil {
		return nil, err
	}

	v.SetConfigName(Name)
	v.SetConfigType("yaml")

	for _, d := range dirs {
		v.AddConfigPath(d)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadDotenv loads the first .env found. Variables already set win.
func loadDotenv(dirs []string) error {
	for _, d := range dirs {
		p := filepath.Join(d, ".env")
		if _, err := os.Stat(p); err != nil {
			continue
		}

		if err := godotenv.Load(p); err != nil {
			return errors.Wrapf(err, "load %s", p)
		}

		return nil
	}

	return nil
}

func (c *Config) validate() error {
	if c.Package != "" && !token.IsIdentifier(c.Package) {
		return errors.WithHint(
			errors.Newf("config %s: %q is not a Go identifier", KeyPackage, c.Package),
			"use a lower-case package name such as models",
		)
	}

	if c.Output == "" {
		return errors.Newf("config %s must not be empty", KeyOutput)
	}

	if c.Debounce < 0 {
		return errors.Newf("config %s must not be negative, got %s", KeyDebounce, c.Debounce)
	}

	return nil
}
