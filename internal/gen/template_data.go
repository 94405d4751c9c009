package gen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"codec-generator/internal/common"
	"codec-generator/internal/descriptor"
	"codec-generator/internal/naming"
	"codec-generator/internal/plan"
	"codec-generator/internal/schema"
	"codec-generator/internal/shape"
	"codec-generator/internal/trie"
)

const (
	jsonImportPath = "github.com/goccy/go-json"
	rootScopeVar   = "container"
)

// templateData holds all data needed for the codec template.
type templateData struct {
	PackageName string
	Filename    string
	Imports     []importSpec
	Comments    bool
	// RT is the selector of the runtime package.
	RT      string
	Type    typeDecl
	Ctor    *ctorData
	Element *elementData
	Decode  *decodeData
	Encode  *encodeData
}

// importSpec represents an import statement.
type importSpec struct {
	Alias string
	Path  string
}

type typeDecl struct {
	Name   string
	Doc    []string
	Fields []structField
}

type structField struct {
	Name string
	Type string
	Doc  []string
}

type ctorData struct {
	Name   string
	Params []paramData
	Body   []assignData
	// Option is the functional option type; empty when nothing is optional.
	Option  string
	Options []optionData
}

type paramData struct {
	Name string
	Type string
}

type assignData struct {
	Field string
	Expr  string
}

type optionData struct {
	Func  string
	Param string
	Type  string
	Field string
}

// elementData names the fallible element helper and the compaction
// functions in use. An empty name means the function is not emitted.
type elementData struct {
	Name     string
	Sequence string
	Set      string
	Mapping  string
}

type decodeData struct {
	Type     string
	Init     []assignData
	Steps    []decodeStepData
	Validate bool
}

type decodeStepData struct {
	Field    string
	Comment  string
	Opens    []scopeOpen
	ReadVar  string
	ReadCall string
	// ReadErr is returned when ReadCall fails.
	ReadErr  string
	// Convert turns ReadVar into the field value; empty when ReadVar already is it.
	Convert  string
	Value    string
	Recovers bool
	Fallback string
}

type scopeOpen struct {
	Var     string
	Parent  string
	Segment string
}

type encodeData struct {
	Type   string
	Scopes []scopeOpen
	Writes []writeData
}

type writeData struct {
	Field       string
	Call        string
	Comment     string
	Conditional bool
}

func (g *Generator) buildTemplateData(pkg string, extra []string, u schema.Compiled) *templateData {
	rec := u.Plan
	typeName := recordTypeName(rec)

	data := &templateData{
		PackageName: pkg,
		Filename:    filename(rec.Name),
		Comments:    g.config.GenerateComments,
		RT:          g.runtimeSelector(),
		Type:        buildTypeDecl(typeName, u),
	}

	if u.Source.WantsInit() && rec.Mode != plan.ModeEncodable {
		data.Ctor = buildCtor(typeName, rec)
	}

	if rec.HasCodec() && rec.Mode.Decodes() {
		if rec.HasCollections() {
			data.Element = buildElement(typeName, rec)
		}

		data.Decode = g.buildDecode(typeName, rec, data.Element)
	}

	if rec.HasCodec() && rec.Mode.Encodes() {
		data.Encode = g.buildEncode(typeName, rec)
	}

	data.Imports = g.collectImports(data, extra)

	return data
}

func (g *Generator) collectImports(data *templateData, extra []string) []importSpec {
	seen := make(map[string]importSpec)

	for _, p := range extra {
		seen[p] = importSpec{Path: p}
	}

	if data.Decode != nil || data.Encode != nil {
		seen[g.config.RuntimePackage] = importSpec{Path: g.config.RuntimePackage}
	}

	if data.Element != nil {
		seen["bytes"] = importSpec{Path: "bytes"}
		seen[jsonImportPath] = importSpec{Alias: "json", Path: jsonImportPath}
	}

	out := make([]importSpec, 0, len(seen))
	for _, imp := range seen {
		out = append(out, imp)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})

	return out
}

// recordTypeName applies Go visibility: exported levels keep an upper-case
// first letter, the rest are lower-cased.
func recordTypeName(rec *plan.Record) string {
	if rec.Access.Exported() {
		return common.UpperFirst(rec.Name)
	}

	return common.LowerFirst(rec.Name)
}

func goName(f *descriptor.Field) string {
	return naming.Field(f.Name)
}

func docLines(doc string) []string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return nil
	}

	return strings.Split(doc, "\n")
}

func buildTypeDecl(typeName string, u schema.Compiled) typeDecl {
	docs := make(map[string]string, len(u.Source.Fields))
	for _, f := range u.Source.Fields {
		docs[f.Name] = f.Doc
	}

	decl := typeDecl{Name: typeName, Doc: docLines(u.Source.Doc)}

	for _, f := range u.Plan.Fields {
		decl.Fields = append(decl.Fields, structField{
			Name: goName(f),
			Type: f.Shape.String(),
			Doc:  docLines(docs[f.Name]),
		})
	}

	return decl
}

func buildCtor(typeName string, rec *plan.Record) *ctorData {
	in := rec.Init
	exported := in.Access.Exported()

	ctor := &ctorData{Name: exportAs("new"+common.UpperFirst(typeName), exported)}

	params := make(map[*descriptor.Field]plan.Param, len(in.Params))
	for _, p := range in.Params {
		params[p.Field] = p
	}

	ns := naming.Namespace{}
	ns.Reserve("opts", "opt", "r")

	if len(in.Optional()) > 0 {
		ctor.Option = exportAs(common.UpperFirst(typeName)+"Option", exported)
	}

	for _, f := range rec.Fields {
		if f.IsImmutableFixed() {
			ctor.Body = append(ctor.Body, assignData{Field: goName(f), Expr: *f.Default})
			continue
		}

		p := params[f]

		switch p.Requirement {
		case plan.Required:
			name := ns.Claim(naming.Param(f.Name))
			ctor.Params = append(ctor.Params, paramData{Name: name, Type: f.Shape.String()})
			ctor.Body = append(ctor.Body, assignData{Field: goName(f), Expr: name})
		case plan.Defaulted:
			ctor.Body = append(ctor.Body, assignData{Field: goName(f), Expr: p.Default})
		case plan.Absent:
			ctor.Body = append(ctor.Body, assignData{Field: goName(f), Expr: "nil"})
		}
	}

	for _, p := range in.Optional() {
		// the option closure takes the record as r
		local := naming.Namespace{}
		local.Reserve("r")

		ctor.Options = append(ctor.Options, optionData{
			Func:  exportAs("with"+common.UpperFirst(typeName)+goName(p.Field), exported),
			Param: local.Claim(naming.Param(p.Field.Name)),
			Type:  p.Field.Shape.String(),
			Field: goName(p.Field),
		})
	}

	return ctor
}

func exportAs(name string, exported bool) string {
	if exported {
		return common.UpperFirst(name)
	}

	return common.LowerFirst(name)
}

func buildElement(typeName string, rec *plan.Record) *elementData {
	base := common.UpperFirst(typeName)
	el := &elementData{Name: common.LowerFirst(typeName) + "Element"}

	for _, k := range rec.Kinds() {
		switch k {
		case plan.ReadSequence:
			el.Sequence = "compact" + base + "Sequence"
		case plan.ReadSet:
			el.Set = "compact" + base + "Set"
		case plan.ReadMapping:
			el.Mapping = "compact" + base + "Mapping"
		}
	}

	return el
}

func (g *Generator) buildDecode(typeName string, rec *plan.Record, el *elementData) *decodeData {
	d := &decodeData{Type: typeName, Validate: rec.Validate}

	for _, f := range rec.Fields {
		if !f.IsCodable() && f.HasDefault() {
			d.Init = append(d.Init, assignData{Field: goName(f), Expr: *f.Default})
		}
	}

	for _, step := range rec.Decode {
		d.Steps = append(d.Steps, g.buildDecodeStep(step, el))
	}

	return d
}

func (g *Generator) buildDecodeStep(step plan.DecodeStep, el *elementData) decodeStepData {
	f := step.Field
	sh := f.Shape.Unwrapped()

	ds := decodeStepData{
		Field:    goName(f),
		Comment:  stepComment(step),
		ReadVar:  "v",
		ReadErr:  "err",
		Value:    "v",
		Recovers: step.Fallback.Recovers(),
		Fallback: fallbackExpr(step),
	}

	ns := naming.Namespace{}
	ns.Reserve(rootScopeVar, "v", "elems", "err", "out", "r", "data")

	parent := rootScopeVar
	for _, n := range step.Scopes {
		v := ns.Claim(naming.ScopeVar(n.Path()))
		ds.Opens = append(ds.Opens, scopeOpen{Var: v, Parent: parent, Segment: strconv.Quote(n.Segment)})
		parent = v
	}

	key := strconv.Quote(step.Key)

	switch step.Read {
	case plan.ReadCustom:
		ds.ReadCall = fmt.Sprintf("out.decode%s(%s)", goName(f), rootScopeVar)

		args := []string{"err"}
		for _, seg := range f.Path {
			args = append(args, strconv.Quote(seg))
		}

		ds.ReadErr = fmt.Sprintf("%s.WrapLeafError(%s)", g.runtimeSelector(), strings.Join(args, ", "))

		return ds
	case plan.ReadSequence:
		ds.ReadVar = "elems"
		ds.ReadCall = fmt.Sprintf("%s.Decode[[]%s[%s]](%s, %s)", g.runtimeSelector(), el.Name, sh.Elem, parent, key)
		ds.Convert = el.Sequence + "(elems)"
	case plan.ReadSet:
		ds.ReadVar = "elems"
		ds.ReadCall = fmt.Sprintf("%s.Decode[[]%s[%s]](%s, %s)", g.runtimeSelector(), el.Name, sh.Elem, parent, key)
		ds.Convert = el.Set + "(elems)"
	case plan.ReadMapping:
		ds.ReadVar = "elems"
		ds.ReadCall = fmt.Sprintf("%s.Decode[map[%s]%s[%s]](%s, %s)",
			g.runtimeSelector(), sh.Key, el.Name, sh.Elem, parent, key)
		ds.Convert = el.Mapping + "(elems)"
	default:
		ds.ReadCall = fmt.Sprintf("%s.Decode[%s](%s, %s)", g.runtimeSelector(), sh, parent, key)
	}

	if f.Shape.IsOptional() {
		ds.Value = "&v"
	}

	return ds
}

func fallbackExpr(step plan.DecodeStep) string {
	switch step.Fallback {
	case plan.FallbackDefault:
		return *step.Field.Default
	case plan.FallbackAbsent:
		return "nil"
	case plan.FallbackEmpty:
		return step.Field.Shape.Unwrapped().String() + "{}"
	default:
		return ""
	}
}

func stepComment(step plan.DecodeStep) string {
	if step.Read == plan.ReadCustom {
		return step.Field.Name + ": custom read, failure propagates"
	}

	var outcome string

	switch step.Fallback {
	case plan.FallbackDefault:
		outcome = "default on failure"
	case plan.FallbackAbsent:
		outcome = "nil on failure"
	case plan.FallbackEmpty:
		outcome = "empty on failure"
	default:
		outcome = "failure propagates"
	}

	return fmt.Sprintf("%s <- %s, %s", step.Field.Name, step.Field.PathString(), outcome)
}

func (g *Generator) buildEncode(typeName string, rec *plan.Record) *encodeData {
	e := &encodeData{Type: typeName}
	rt := g.runtimeSelector()

	vars := map[*trie.Node]string{}
	ns := naming.Namespace{}
	ns.Reserve(rootScopeVar, "err", "r")

	for _, n := range rec.Encode.Scopes {
		if n.IsRoot() {
			vars[n] = rootScopeVar
			continue
		}

		v := ns.Claim(naming.ScopeVar(n.Path()))
		vars[n] = v
		e.Scopes = append(e.Scopes, scopeOpen{Var: v, Parent: vars[n.Parent], Segment: strconv.Quote(n.Segment)})
	}

	for _, w := range rec.Encode.Writes {
		arg := "r." + goName(w.Field)
		if w.Conditional {
			arg = "*" + arg
		}

		fn := "Encode"

		switch w.Field.Shape.Unwrapped().Kind {
		case shape.KindSequence:
			fn = "EncodeSequence"
		case shape.KindSet:
			fn = "EncodeSet"
		case shape.KindMapping:
			fn = "EncodeMapping"
		}

		e.Writes = append(e.Writes, writeData{
			Field:       goName(w.Field),
			Call:        fmt.Sprintf("%s.%s(%s, %s, %s)", rt, fn, vars[w.Scope], strconv.Quote(w.Key), arg),
			Comment:     fmt.Sprintf("%s -> %s", w.Field.Name, w.Field.PathString()),
			Conditional: w.Conditional,
		})
	}

	return e
}
