package gen

import "text/template"

var codecTemplate = template.Must(template.New("codec").Parse(`// Code generated by codec-generator. DO NOT EDIT.

package {{.PackageName}}
{{if .Imports}}
import (
{{- range .Imports}}
	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{- end}}
)
{{end}}
{{- with .Type}}
{{range .Doc}}// {{.}}
{{end -}}
type {{.Name}} struct {
{{- range .Fields}}
{{- range .Doc}}
	// {{.}}
{{- end}}
	{{.Name}} {{.Type}}
{{- end}}
}
{{end}}
{{- with .Ctor}}
{{if .Option}}
// {{.Option}} sets an optional value in {{.Name}}.
type {{.Option}} func(*{{$.Type.Name}})
{{range .Options}}
// {{.Func}} sets {{.Field}}.
func {{.Func}}({{.Param}} {{.Type}}) {{$.Ctor.Option}} {
	return func(r *{{$.Type.Name}}) {
		r.{{.Field}} = {{.Param}}
	}
}
{{end}}
{{- end}}
// {{.Name}} returns a {{$.Type.Name}} with every field set in declaration order.
func {{.Name}}({{range .Params}}{{.Name}} {{.Type}}, {{end}}{{if .Option}}opts ...{{.Option}}{{end}}) {{$.Type.Name}} {
	r := {{$.Type.Name}}{
{{- range .Body}}
		{{.Field}}: {{.Expr}},
{{- end}}
	}
{{- if .Option}}

	for _, opt := range opts {
		opt(&r)
	}
{{- end}}

	return r
}
{{end}}
{{- with .Element}}
// {{.Name}} is one collection element of {{$.Type.Name}}. An element that does
// not decode is dropped from the collection instead of failing the read.
type {{.Name}}[T any] struct {
	value T
	ok    bool
}

// UnmarshalJSON implements json.Unmarshaler. It never fails.
func (e *{{.Name}}[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	e.ok = json.Unmarshal(data, &e.value) == nil

	return nil
}
{{if .Sequence}}
func {{.Sequence}}[T any](elems []{{.Name}}[T]) []T {
	out := make([]T, 0, len(elems))

	for _, e := range elems {
		if e.ok {
			out = append(out, e.value)
		}
	}

	return out
}
{{end}}
{{- if .Set}}
func {{.Set}}[T comparable](elems []{{.Name}}[T]) map[T]struct{} {
	out := make(map[T]struct{}, len(elems))

	for _, e := range elems {
		if e.ok {
			out[e.value] = struct{}{}
		}
	}

	return out
}
{{end}}
{{- if .Mapping}}
func {{.Mapping}}[K comparable, V any](elems map[K]{{.Name}}[V]) map[K]V {
	out := make(map[K]V, len(elems))

	for k, e := range elems {
		if e.ok {
			out[k] = e.value
		}
	}

	return out
}
{{end}}
{{- end}}
{{- with .Decode}}
// UnmarshalJSON implements json.Unmarshaler.
func (r *{{.Type}}) UnmarshalJSON(data []byte) error {
	container, err := {{$.RT}}.NewScope(data)
	if err != nil {
		return err
	}

	out := {{.Type}}{
{{- range .Init}}
		{{.Field}}: {{.Expr}},
{{- end}}
	}
{{range .Steps}}
{{- if $.Comments}}
	// {{.Comment}}
{{- end}}
	if err := func() error {
{{- range .Opens}}
		{{.Var}}, err := {{.Parent}}.Nested({{.Segment}})
		if err != nil {
			return err
		}
{{end}}
		{{.ReadVar}}, err := {{.ReadCall}}
		if err != nil {
			return {{.ReadErr}}
		}
{{- if .Convert}}

		v := {{.Convert}}
{{- end}}

		out.{{.Field}} = {{.Value}}

		return nil
	}(); err != nil {
{{- if .Recovers}}
		out.{{.Field}} = {{.Fallback}}
{{- else}}
		return err
{{- end}}
	}
{{end}}
{{- if .Validate}}
	if !out.IsValid() {
		return {{$.RT}}.NewValidationError(container)
	}
{{end}}
	*r = out

	return nil
}
{{end}}
{{- with .Encode}}
// MarshalJSON implements json.Marshaler.
func (r {{.Type}}) MarshalJSON() ([]byte, error) {
	container := {{$.RT}}.NewWriteScope()
{{range .Scopes}}
	{{.Var}}, err := {{.Parent}}.Nested({{.Segment}})
	if err != nil {
		return nil, err
	}
{{end}}
{{- range .Writes}}
{{- if $.Comments}}
	// {{.Comment}}
{{- end}}
{{- if .Conditional}}
	if r.{{.Field}} != nil {
		if err := {{.Call}}; err != nil {
			return nil, err
		}
	}
{{else}}
	if err := {{.Call}}; err != nil {
		return nil, err
	}
{{end}}
{{- end}}
	return container.MarshalJSON()
}
{{end -}}
`))
