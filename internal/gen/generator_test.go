package gen

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"codec-generator/internal/schema"
)

const fooSchema = `
package: models
records:
  - name: Foo
    access: public
    validate: true
    doc: Foo is the worked example record.
    fields:
      - name: bar
        type: int
        default: 0
        doc: Bar counts things.
      - name: baz
        type: "*string"
        key: booz
      - name: qux
        type: "[]Qux"
      - name: doo
        type: string
        key: beer.doo
        default: '"dry"'
      - name: duh
        type: "map[string]int"
        key: beer.ro.duh
      - name: cache
        type: "map[string]int"
        ignore: true
        default: "map[string]int{}"
      - name: kind
        type: string
        static: true
  - name: Qux
    access: public
    fields:
      - name: id
        type: int
`

func generate(t *testing.T, yaml string, cfg GeneratorConfig) map[string]string {
	t.Helper()

	f, err := schema.Parse([]byte(yaml), schema.FormatYAML)
	require.NoError(t, err)

	files, err := NewGenerator(cfg, zaptest.NewLogger(t)).Generate(f)
	require.NoError(t, err)

	out := make(map[string]string, len(files))
	for _, file := range files {
		out[file.Filename] = string(file.Content)
	}

	return out
}

// decls parses src and returns its top-level type and function names.
func decls(t *testing.T, src string) map[string]bool {
	t.Helper()

	file, err := parser.ParseFile(token.NewFileSet(), "gen.go", src, parser.ParseComments)
	require.NoError(t, err, src)

	names := map[string]bool{}

	for _, d := range file.Decls {
		switch d := d.(type) {
		case *ast.FuncDecl:
			names[d.Name.Name] = true
		case *ast.GenDecl:
			for _, s := range d.Specs {
				if ts, ok := s.(*ast.TypeSpec); ok {
					names[ts.Name.Name] = true
				}
			}
		}
	}

	return names
}

func TestGenerator_Generate_Foo(t *testing.T) {
	files := generate(t, fooSchema, DefaultGeneratorConfig())
	require.Len(t, files, 2)

	src, ok := files["foo_codec.go"]
	require.True(t, ok)

	names := decls(t, src)
	for _, n := range []string{
		"Foo", "FooOption", "NewFoo", "WithFooBar", "WithFooBaz", "WithFooDoo", "WithFooCache",
		"fooElement", "compactFooSequence", "compactFooMapping", "UnmarshalJSON", "MarshalJSON",
	} {
		assert.True(t, names[n], "missing declaration %s", n)
	}

	assert.False(t, names["compactFooSet"], "set helper emitted without a set field")

	assert.Contains(t, src, "// Code generated by codec-generator. DO NOT EDIT.")
	assert.Contains(t, src, "package models")
	assert.Contains(t, src, `json "github.com/goccy/go-json"`)
	assert.Contains(t, src, `"codec-generator/codable"`)

	// struct
	assert.Contains(t, src, "// Foo is the worked example record.\ntype Foo struct {")
	assert.Contains(t, src, "// Bar counts things.")
	assert.Regexp(t, `Baz\s+\*string`, src)
	assert.NotContains(t, src, "Kind")

	// constructor: only qux and duh are required
	assert.Contains(t, src, "func NewFoo(qux []Qux, duh map[string]int, opts ...FooOption) Foo {")
	assert.Regexp(t, `Bar:\s+0,`, src)
	assert.Regexp(t, `Baz:\s+nil,`, src)
	assert.Regexp(t, `Doo:\s+"dry",`, src)
	assert.Contains(t, src, "func WithFooBaz(baz *string) FooOption {")

	// decode
	assert.Contains(t, src, `container, err := codable.NewScope(data)`)
	assert.Contains(t, src, `v, err := codable.Decode[int](container, "bar")`)
	assert.Contains(t, src, `v, err := codable.Decode[string](container, "booz")`)
	assert.Contains(t, src, "out.Baz = &v")
	assert.Contains(t, src, "out.Baz = nil")
	assert.Contains(t, src, `elems, err := codable.Decode[[]fooElement[Qux]](container, "qux")`)
	assert.Contains(t, src, "out.Qux = []Qux{}")
	assert.Contains(t, src, `beerContainer, err := container.Nested("beer")`)
	assert.Contains(t, src, `v, err := codable.Decode[string](beerContainer, "doo")`)
	assert.Contains(t, src, `out.Doo = "dry"`)
	assert.Contains(t, src, `beerRoContainer, err := beerContainer.Nested("ro")`)
	assert.Contains(t, src, `elems, err := codable.Decode[map[string]fooElement[int]](beerRoContainer, "duh")`)
	assert.Contains(t, src, "out.Duh = map[string]int{}")
	assert.Regexp(t, `Cache:\s+map\[string\]int\{\},`, src)
	assert.Contains(t, src, "return codable.NewValidationError(container)")
	assert.Contains(t, src, "// doo <- beer.doo, default on failure")

	// encode
	assert.Contains(t, src, "container := codable.NewWriteScope()")
	assert.Contains(t, src, `if err := codable.Encode(container, "bar", r.Bar); err != nil {`)
	assert.Contains(t, src, "if r.Baz != nil {")
	assert.Contains(t, src, `codable.Encode(container, "booz", *r.Baz)`)
	assert.Contains(t, src, `codable.EncodeSequence(container, "qux", r.Qux)`)
	assert.Contains(t, src, `codable.Encode(beerContainer, "doo", r.Doo)`)
	assert.Contains(t, src, `codable.EncodeMapping(beerRoContainer, "duh", r.Duh)`)
	assert.NotContains(t, src, `"cache"`)
}

func TestGenerator_Generate_NoCollections(t *testing.T) {
	files := generate(t, fooSchema, DefaultGeneratorConfig())

	src := files["qux_codec.go"]
	names := decls(t, src)

	assert.True(t, names["NewQux"])
	assert.Regexp(t, `ID\s+int`, src)
	assert.Contains(t, src, "func NewQux(id int) Qux {")
	assert.False(t, names["quxElement"])
	assert.NotContains(t, src, `"bytes"`)
	assert.NotContains(t, src, "go-json")
	assert.NotContains(t, src, "IsValid")
}

func TestGenerator_Generate_Modes(t *testing.T) {
	files := generate(t, `
package: models
records:
  - name: Reader
    access: public
    mode: decodable
    fields: [{name: a, type: int}]
  - name: Writer
    access: public
    mode: encodable
    fields: [{name: a, type: int}]
  - name: Bare
    access: public
    init: false
    fields: [{name: a, type: int}]
`, DefaultGeneratorConfig())

	reader := decls(t, files["reader_codec.go"])
	assert.True(t, reader["UnmarshalJSON"])
	assert.False(t, reader["MarshalJSON"])
	assert.True(t, reader["NewReader"])

	writer := decls(t, files["writer_codec.go"])
	assert.False(t, writer["UnmarshalJSON"])
	assert.True(t, writer["MarshalJSON"])
	assert.False(t, writer["NewWriter"])

	bare := decls(t, files["bare_codec.go"])
	assert.False(t, bare["NewBare"])
	assert.True(t, bare["UnmarshalJSON"])
}

func TestGenerator_Generate_AccessAndCustom(t *testing.T) {
	files := generate(t, `
package: models
records:
  - name: OrderLine
    init_access: public
    fields:
      - name: sku
        type: string
      - name: type
        type: int
        custom: true
      - name: tags
        type: "Set[string]"
        key: meta.tags
`, GeneratorConfig{PackageName: "override"})

	src, ok := files["order_line_codec.go"]
	require.True(t, ok)

	names := decls(t, src)
	assert.True(t, names["orderLine"])
	assert.True(t, names["NewOrderLine"])
	assert.True(t, names["compactOrderLineSet"])

	assert.Contains(t, src, "package override")
	// keyword parameter names get a trailing underscore
	assert.Contains(t, src, "func NewOrderLine(sku string, type_ int, tags map[string]struct{}) orderLine {")
	assert.Contains(t, src, "v, err := out.decodeType(container)")
	assert.Contains(t, src, `return codable.WrapLeafError(err, "type")`)
	assert.Contains(t, src, `metaContainer, err := container.Nested("meta")`)
	assert.Contains(t, src, `codable.EncodeSet(metaContainer, "tags", r.Tags)`)
	// no comments requested
	assert.NotContains(t, src, "<- meta.tags")
}

func TestGenerator_Generate_NoCodableFields(t *testing.T) {
	files := generate(t, `
package: models
records:
  - name: Local
    access: public
    fields:
      - {name: a, type: int, ignore: true}
`, DefaultGeneratorConfig())

	src := files["local_codec.go"]
	names := decls(t, src)

	assert.True(t, names["Local"])
	assert.True(t, names["NewLocal"])
	assert.False(t, names["UnmarshalJSON"])
	assert.False(t, names["MarshalJSON"])
	assert.NotContains(t, src, "codable")
}

func TestGenerator_Generate_InvalidSchema(t *testing.T) {
	f, err := schema.Parse([]byte(`
package: models
records:
  - name: Foo
    fields: [{name: a}]
`), schema.FormatYAML)
	require.NoError(t, err)

	_, err = NewGenerator(DefaultGeneratorConfig(), nil).Generate(f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing_type")
}

func TestGenerator_Generate_UnformattedSidecar(t *testing.T) {
	dir := t.TempDir()

	f, err := schema.Parse([]byte(`
package: models
records:
  - name: Foo
    access: public
    fields:
      - {name: a, type: int, default: "}{"}
`), schema.FormatYAML)
	require.NoError(t, err)

	cfg := DefaultGeneratorConfig()
	cfg.OutputDir = dir

	_, err = NewGenerator(cfg, nil).Generate(f)
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "foo_codec.unformatted.go"))
	assert.NoError(t, statErr)
}

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	files := []GeneratedFile{
		{Filename: "a_codec.go", Record: "A", Content: []byte("package x\n")},
		{Filename: "b_codec.go", Record: "B", Content: []byte("package x\n")},
	}

	require.NoError(t, WriteFiles(files, dir, zaptest.NewLogger(t)))

	for _, f := range files {
		got, err := os.ReadFile(filepath.Join(dir, f.Filename))
		require.NoError(t, err)
		assert.Equal(t, f.Content, got)
	}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "foo_codec.go", filename("Foo"))
	assert.Equal(t, "order_line_codec.go", filename("OrderLine"))
	assert.Equal(t, "xml_parser_codec.go", filename("XMLParser"))
}
