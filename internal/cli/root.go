package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"codec-generator/internal/config"
)

// Version information, set at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// app carries what every subcommand needs once flags and config are merged.
type app struct {
	v   *viper.Viper
	cfg *config.Config
	log *zap.Logger
}

// NewRootCommand creates the root command with all subcommands.
func NewRootCommand() *cobra.Command {
	a := &app{v: config.New(), log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "codec-generator",
		Short: "Generate Go codecs from declarative field descriptors",
		Long: `codec-generator reads a schema of records and their fields (YAML or TOML)
and emits, per record, a struct with a constructor, UnmarshalJSON and
MarshalJSON. Nested key paths, defaults, optional fields and fallible
collection elements are planned ahead of time.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, args)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.log.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.Bool("log-json", false, "emit JSON logs")
	pf.BoolP("verbose", "v", false, "log planning details")

	_ = a.v.BindPFlag(config.KeyLogJSON, pf.Lookup("log-json"))
	_ = a.v.BindPFlag(config.KeyVerbose, pf.Lookup("verbose"))

	root.AddCommand(
		newGenCommand(a),
		newCheckCommand(a),
		newPlanCommand(a),
		newInitCommand(a),
		newVersionCommand(),
	)

	return root
}

// setup loads configuration from the working directory and, when a schema
// path is given, from the schema's directory.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	dirs := []string{"."}
	if len(args) > 0 {
		dirs = append(dirs, filepath.Dir(args[0]))
	}

	cfg, err := config.Load(a.v, dirs...)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = newLogger(cfg, cmd.ErrOrStderr())

	a.log.Debug("configuration loaded",
		zap.String("config_file", a.v.ConfigFileUsed()),
		zap.String("output", cfg.Output),
		zap.Bool("watch", cfg.Watch),
	)

	return nil
}

// newLogger writes to w so command output on stdout stays clean.
func newLogger(cfg *config.Config, w io.Writer) *zap.Logger {
	level := zap.InfoLevel
	if cfg.Verbose {
		level = zap.DebugLevel
	}

	var enc zapcore.Encoder

	if cfg.LogJSON {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(ec)
	}

	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level))
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "codec-generator %s (commit %s, %s)\n", Version, GitCommit, runtime.Version())
		},
	}
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}
