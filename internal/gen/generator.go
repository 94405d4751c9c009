package gen

import (
	"bytes"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/tools/imports"

	"codec-generator/internal/common"
	"codec-generator/internal/match"
	"codec-generator/internal/schema"
)

// DefaultRuntimePackage is the import path of the codec runtime.
const DefaultRuntimePackage = "codec-generator/codable"

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// PackageName overrides the package declared by the schema.
	PackageName string
	// OutputDir is the directory where generated files are written.
	OutputDir string
	// GenerateComments enables generation of explanatory comments.
	GenerateComments bool
	// RuntimePackage is the import path of the codec runtime.
	RuntimePackage string
	// FixImports lets goimports resolve imports the schema did not declare.
	// Off by default: resolution scans the module cache.
	FixImports bool
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		OutputDir:        "./generated",
		GenerateComments: true,
		RuntimePackage:   DefaultRuntimePackage,
	}
}

// Generator turns a schema into Go source files, one per record.
type Generator struct {
	config GeneratorConfig
	log    *zap.Logger
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig, log *zap.Logger) *Generator {
	if config.RuntimePackage == "" {
		config.RuntimePackage = DefaultRuntimePackage
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Generator{config: config, log: log}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "foo_codec.go").
	Filename string
	// Record is the schema record the file was generated from.
	Record string
	// Content is the formatted Go source code.
	Content []byte
}

// Generate compiles f and renders every record. Nothing is returned unless
// every record renders.
func (g *Generator) Generate(f *schema.File) ([]GeneratedFile, error) {
	units, err := schema.Compile(f, g.log)
	if err != nil {
		return nil, err
	}

	pkg := g.config.PackageName
	if pkg == "" {
		pkg = f.Package
	}

	files := make([]GeneratedFile, 0, len(units))

	for _, u := range units {
		file, err := g.generateRecord(pkg, f.Imports, u)
		if err != nil {
			return nil, errors.Wrapf(err, "generating %s", u.Source.Name)
		}

		g.log.Debug("rendered record",
			zap.String("record", u.Source.Name),
			zap.String("file", file.Filename),
			zap.Int("bytes", len(file.Content)),
		)

		files = append(files, *file)
	}

	return files, nil
}

func (g *Generator) generateRecord(pkg string, extra []string, u schema.Compiled) (*GeneratedFile, error) {
	data := g.buildTemplateData(pkg, extra, u)

	var buf bytes.Buffer
	if err := codecTemplate.Execute(&buf, data); err != nil {
		return nil, errors.Wrap(err, "executing template")
	}

	formatted, err := g.format(data.Filename, buf.Bytes())
	if err != nil {
		// Best-effort: write unformatted code to a sidecar file to aid debugging.
		if g.config.OutputDir != "" {
			_ = writeDebugUnformatted(g.config.OutputDir, data.Filename, buf.Bytes())
		}

		return &GeneratedFile{
			Filename: data.Filename,
			Record:   u.Source.Name,
			Content:  buf.Bytes(),
		}, errors.Wrap(err, "formatting code (unformatted code returned)")
	}

	return &GeneratedFile{
		Filename: data.Filename,
		Record:   u.Source.Name,
		Content:  formatted,
	}, nil
}

func (g *Generator) format(filename string, src []byte) ([]byte, error) {
	return imports.Process(filename, src, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: !g.config.FixImports,
	})
}

// filename returns the snake_case file name for a record: "OrderLine" -> "order_line_codec.go".
func filename(record string) string {
	return strings.Join(match.Tokenize(record), "_") + "_codec.go"
}

// runtimeSelector is the package name generated code uses for the runtime.
func (g *Generator) runtimeSelector() string {
	return common.PkgAlias(g.config.RuntimePackage)
}
