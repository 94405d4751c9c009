package codable

import (
	"bytes"
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"codec-generator/internal/descriptor"
	"codec-generator/internal/plan"
	"codec-generator/internal/shape"
	"codec-generator/internal/trie"
)

var (
	ErrNotStruct       = errors.New("codec target must be a struct")
	ErrUnknownField    = errors.New("no such struct field")
	ErrUnexported      = errors.New("struct field is not exported")
	ErrInvalidDefault  = errors.New("default is not valid JSON")
	ErrNoValidator     = errors.New("validation requested but record has no IsValid method")
	ErrMissingArgument = errors.New("missing required argument")
	ErrUnknownArgument = errors.New("unknown argument")
	ErrArgumentType    = errors.New("argument has the wrong type")
)

var rawMessageType = reflect.TypeFor[json.RawMessage]()

// Option configures a Codec.
type Option func(*options)

type options struct {
	validate bool
	log      *zap.Logger
}

// WithValidation checks the record's IsValid method after every successful read.
func WithValidation() Option {
	return func(o *options) { o.validate = true }
}

// WithLogger logs dropped collection elements at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

type binding struct {
	index []int
	typ   reflect.Type
	def   json.RawMessage
	read  func(*Scope) (any, error)
}

// Codec reads, writes and constructs values of T following a compiled plan.
// A Codec is immutable and safe for concurrent use.
type Codec[T any] struct {
	record   *plan.Record
	bindings map[string]binding
	log      *zap.Logger
}

// Compile builds a codec for T from explicit field declarations.
func Compile[T any](fields []Field, opts ...Option) (*Codec[T], error) {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	typ := reflect.TypeFor[T]()
	if typ.Kind() != reflect.Struct {
		return nil, errors.Wrapf(ErrNotStruct, "%s", typ)
	}

	inputs := make([]descriptor.Input, 0, len(fields))
	bindings := make(map[string]binding, len(fields))

	for _, f := range fields {
		if f.Static {
			continue
		}

		sf, ok := typ.FieldByName(f.Name)
		if !ok {
			return nil, errors.Wrapf(ErrUnknownField, "%s.%s", typ, f.Name)
		}

		if !sf.IsExported() {
			return nil, errors.Wrapf(ErrUnexported, "%s.%s", typ, f.Name)
		}

		sh, err := shape.FromType(sf.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "%s.%s", typ, f.Name)
		}

		in := descriptor.Input{
			Name:      f.Name,
			Shape:     sh,
			Key:       f.Key,
			Immutable: f.Immutable,
			Ignore:    f.Ignore,
			Custom:    f.Read != nil,
		}

		b := binding{index: sf.Index, typ: sf.Type, read: f.Read}

		if f.Default != "" {
			def := f.Default
			if !json.Valid([]byte(def)) {
				return nil, errors.Wrapf(ErrInvalidDefault, "%s.%s: %s", typ, f.Name, def)
			}

			in.Default = &def
			b.def = json.RawMessage(def)
		}

		inputs = append(inputs, in)
		bindings[f.Name] = b
	}

	descs, err := descriptor.Build(inputs)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", typ)
	}

	rec, err := plan.Compile(plan.Config{
		Name:     typ.Name(),
		Access:   descriptor.AccessPublic,
		Validate: o.validate,
	}, descs, o.log)
	if err != nil {
		return nil, err
	}

	if o.validate && !reflect.PointerTo(typ).Implements(reflect.TypeFor[Validator]()) {
		return nil, errors.Wrapf(ErrNoValidator, "%s", typ)
	}

	return &Codec[T]{record: rec, bindings: bindings, log: o.log}, nil
}

// Plan exposes the compiled record plan.
func (c *Codec[T]) Plan() *plan.Record {
	return c.record
}

// Decode reads a T from data. Fields are read in declaration order; each one
// either succeeds, recovers through its fallback, or aborts the whole read.
func (c *Codec[T]) Decode(data []byte) (T, error) {
	var out T

	rv := reflect.ValueOf(&out).Elem()
	if err := c.assignDeclared(rv); err != nil {
		return out, err
	}

	var root *Scope

	if len(c.record.Decode) > 0 {
		var err error

		root, err = NewScope(data)
		if err != nil {
			var zero T
			return zero, err
		}
	}

	for _, step := range c.record.Decode {
		if err := c.decodeField(root, step, rv); err != nil {
			var zero T
			return zero, err
		}
	}

	if c.record.Validate {
		if v, ok := any(&out).(Validator); ok && !v.IsValid() {
			var zero T
			return zero, NewValidationError(root)
		}
	}

	return out, nil
}

// assignDeclared gives fields outside the codec their declared value.
func (c *Codec[T]) assignDeclared(rv reflect.Value) error {
	for _, f := range c.record.Fields {
		if f.IsCodable() || !f.HasDefault() {
			continue
		}

		if err := c.assignDefault(rv, f.Name); err != nil {
			return err
		}
	}

	return nil
}

func (c *Codec[T]) assignDefault(rv reflect.Value, name string) error {
	b := c.bindings[name]

	p := reflect.New(b.typ)
	if err := json.Unmarshal(b.def, p.Interface()); err != nil {
		return errors.Wrapf(ErrInvalidDefault, "%s: %v", name, err)
	}

	rv.FieldByIndex(b.index).Set(p.Elem())

	return nil
}

func (c *Codec[T]) decodeField(root *Scope, step plan.DecodeStep, rv reflect.Value) error {
	b := c.bindings[step.Field.Name]
	fv := rv.FieldByIndex(b.index)

	val, err := c.read(root, step, b)
	if err == nil {
		fv.Set(val)
		return nil
	}

	switch step.Fallback {
	case plan.FallbackDefault:
		return c.assignDefault(rv, step.Field.Name)
	case plan.FallbackAbsent:
		fv.SetZero()
		return nil
	case plan.FallbackEmpty:
		fv.Set(emptyCollection(b.typ))
		return nil
	default:
		return err
	}
}

func (c *Codec[T]) read(root *Scope, step plan.DecodeStep, b binding) (reflect.Value, error) {
	if step.Read == plan.ReadCustom {
		return readCustom(root, step, b)
	}

	scope := root
	for _, n := range step.Scopes {
		var err error

		scope, err = scope.Nested(n.Segment)
		if err != nil {
			return reflect.Value{}, err
		}
	}

	raw, err := scope.Raw(step.Key)
	if err != nil {
		return reflect.Value{}, err
	}

	target := b.typ
	if step.Field.Shape.IsOptional() {
		target = target.Elem()
	}

	path := scope.child(step.Key)

	var val reflect.Value

	switch step.Read {
	case plan.ReadSequence:
		val, err = c.readSequence(raw, target, path)
	case plan.ReadSet:
		val, err = c.readSet(raw, target, path)
	case plan.ReadMapping:
		val, err = c.readMapping(raw, target, path)
	default:
		val, err = decodeInto(raw, target)
	}

	if err != nil {
		return reflect.Value{}, newReadError(KindLeaf, path, err)
	}

	if step.Field.Shape.IsOptional() {
		p := reflect.New(target)
		p.Elem().Set(val)
		val = p
	}

	return val, nil
}

func readCustom(root *Scope, step plan.DecodeStep, b binding) (reflect.Value, error) {
	v, err := b.read(root)
	if err != nil {
		return reflect.Value{}, WrapLeafError(err, step.Field.Path...)
	}

	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return reflect.Zero(b.typ), nil
	}

	if !rv.Type().AssignableTo(b.typ) {
		return reflect.Value{}, newReadError(KindLeaf, step.Field.Path,
			errors.Newf("custom read returned %s, want %s", rv.Type(), b.typ))
	}

	return rv, nil
}

func (c *Codec[T]) readSequence(raw json.RawMessage, typ reflect.Type, path []string) (reflect.Value, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return reflect.Value{}, err
	}

	out := reflect.MakeSlice(typ, 0, len(items))

	for i, item := range items {
		v, ok := c.element(item, typ.Elem(), path, i)
		if ok {
			out = reflect.Append(out, v)
		}
	}

	return out, nil
}

func (c *Codec[T]) readSet(raw json.RawMessage, typ reflect.Type, path []string) (reflect.Value, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return reflect.Value{}, err
	}

	out := reflect.MakeMapWithSize(typ, len(items))
	member := reflect.Zero(typ.Elem())

	for i, item := range items {
		if v, ok := c.element(item, typ.Key(), path, i); ok {
			out.SetMapIndex(v, member)
		}
	}

	return out, nil
}

func (c *Codec[T]) readMapping(raw json.RawMessage, typ reflect.Type, path []string) (reflect.Value, error) {
	entries := reflect.New(reflect.MapOf(typ.Key(), rawMessageType))
	if err := json.Unmarshal(raw, entries.Interface()); err != nil {
		return reflect.Value{}, err
	}

	out := reflect.MakeMapWithSize(typ, entries.Elem().Len())

	iter := entries.Elem().MapRange()
	for iter.Next() {
		item, _ := iter.Value().Interface().(json.RawMessage)
		if v, ok := c.element(item, typ.Elem(), path, iter.Key().Interface()); ok {
			out.SetMapIndex(iter.Key(), v)
		}
	}

	return out, nil
}

// element decodes one collection member the way a Slot does. Failures are dropped.
func (c *Codec[T]) element(raw json.RawMessage, typ reflect.Type, path []string, at any) (reflect.Value, bool) {
	p := reflect.New(typ)

	err := fill(raw, p.Interface())
	if err == nil {
		return p.Elem(), true
	}

	c.log.Debug("dropped collection element",
		zap.Any("at", at),
		zap.Error(newReadError(KindElement, path, err)),
	)

	return reflect.Value{}, false
}

func decodeInto(raw json.RawMessage, typ reflect.Type) (reflect.Value, error) {
	p := reflect.New(typ)
	if err := json.Unmarshal(raw, p.Interface()); err != nil {
		return reflect.Value{}, err
	}

	return p.Elem(), nil
}

func emptyCollection(typ reflect.Type) reflect.Value {
	switch typ.Kind() {
	case reflect.Slice:
		return reflect.MakeSlice(typ, 0, 0)
	case reflect.Map:
		return reflect.MakeMap(typ)
	default:
		return reflect.Zero(typ)
	}
}

// Encode writes v. Namespaces are opened once, before any value is written.
func (c *Codec[T]) Encode(v T) ([]byte, error) {
	if !c.record.HasCodec() {
		return []byte("{}"), nil
	}

	rv := reflect.ValueOf(v)
	scopes := make(map[*trie.Node]*WriteScope, len(c.record.Encode.Scopes))

	for _, n := range c.record.Encode.Scopes {
		if n.IsRoot() {
			scopes[n] = NewWriteScope()
			continue
		}

		ns, err := scopes[n.Parent].Nested(n.Segment)
		if err != nil {
			return nil, err
		}

		scopes[n] = ns
	}

	for _, w := range c.record.Encode.Writes {
		fv := rv.FieldByIndex(c.bindings[w.Field.Name].index)

		if w.Conditional {
			if fv.IsNil() {
				continue
			}

			fv = fv.Elem()
		}

		raw, err := encodeValue(fv, w.Field.Shape.Unwrapped())
		if err != nil {
			return nil, errors.Wrapf(err, "encode %s", w.Field.Name)
		}

		if err := scopes[w.Scope].Put(w.Key, raw); err != nil {
			return nil, err
		}
	}

	return scopes[c.record.Trie].MarshalJSON()
}

func encodeValue(fv reflect.Value, sh *shape.Shape) (json.RawMessage, error) {
	switch sh.Kind {
	case shape.KindSet:
		elems := make([]json.RawMessage, 0, fv.Len())

		for _, k := range fv.MapKeys() {
			raw, err := json.Marshal(k.Interface())
			if err != nil {
				return nil, err
			}

			elems = append(elems, raw)
		}

		return joinSorted(elems), nil

	case shape.KindSequence:
		if fv.IsNil() {
			return json.RawMessage("[]"), nil
		}

	case shape.KindMapping:
		if fv.IsNil() {
			return json.RawMessage("{}"), nil
		}
	}

	raw, err := json.Marshal(fv.Interface())
	if err != nil {
		return nil, err
	}

	return bytes.TrimSpace(raw), nil
}

// Construct builds a T the way the record's canonical constructor would:
// required parameters must be given, defaulted ones fall back to their
// default, optional ones to nil. Fixed fields always get their declared value.
func (c *Codec[T]) Construct(args map[string]any) (T, error) {
	var out T

	params := make(map[string]plan.Param, len(c.record.Init.Params))
	for _, p := range c.record.Init.Params {
		params[p.Field.Name] = p
	}

	for name := range args {
		if _, ok := params[name]; !ok {
			return out, errors.Wrapf(ErrUnknownArgument, "%s", name)
		}
	}

	rv := reflect.ValueOf(&out).Elem()

	for _, f := range c.record.Init.Fixed {
		if err := c.assignDefault(rv, f.Name); err != nil {
			return out, err
		}
	}

	for _, p := range c.record.Init.Params {
		b := c.bindings[p.Field.Name]
		fv := rv.FieldByIndex(b.index)

		arg, ok := args[p.Field.Name]
		if !ok {
			switch p.Requirement {
			case plan.Defaulted:
				if err := c.assignDefault(rv, p.Field.Name); err != nil {
					return out, err
				}
			case plan.Absent:
				fv.SetZero()
			default:
				return out, errors.Wrapf(ErrMissingArgument, "%s", p.Field.Name)
			}

			continue
		}

		av := reflect.ValueOf(arg)

		switch {
		case !av.IsValid():
			fv.SetZero()
		case av.Type().AssignableTo(b.typ):
			fv.Set(av)
		default:
			return out, errors.Wrapf(ErrArgumentType, "%s: got %s, want %s", p.Field.Name, av.Type(), b.typ)
		}
	}

	return out, nil
}
