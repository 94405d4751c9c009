package plan

import (
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"codec-generator/internal/common"
	"codec-generator/internal/descriptor"
	"codec-generator/internal/trie"
)

// Mode selects which procedures a record gets.
type Mode int

const (
	ModeCodable Mode = iota
	ModeDecodable
	ModeEncodable
)

// ModeNames lists the accepted spellings of Mode.
var ModeNames = []string{"codable", "decodable", "encodable"}

// ErrUnknownMode is returned by ParseMode.
var ErrUnknownMode = errors.New("unknown codec mode")

// ParseMode parses a mode name. The empty string is ModeCodable.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "codable":
		return ModeCodable, nil
	case "decodable":
		return ModeDecodable, nil
	case "encodable":
		return ModeEncodable, nil
	default:
		return ModeCodable, errors.Wrapf(ErrUnknownMode, "%q", s)
	}
}

// String returns a human-readable representation of the Mode.
func (m Mode) String() string {
	switch m {
	case ModeCodable:
		return "codable"
	case ModeDecodable:
		return "decodable"
	case ModeEncodable:
		return "encodable"
	default:
		return common.UnknownStr
	}
}

// Decodes reports whether a read procedure is produced.
func (m Mode) Decodes() bool { return m != ModeEncodable }

// Encodes reports whether a write procedure is produced.
func (m Mode) Encodes() bool { return m != ModeDecodable }

// Config describes a record beyond its fields.
type Config struct {
	Name   string
	Access descriptor.Access
	// InitAccess overrides the constructor access level.
	InitAccess *descriptor.Access
	// Validate runs the record's IsValid predicate after every read.
	Validate bool
	Mode     Mode
}

// Record bundles every plan derived from one record's descriptors.
type Record struct {
	Name     string
	Access   descriptor.Access
	Validate bool
	Mode     Mode
	// Fields holds all non-static fields in declaration order.
	Fields []*descriptor.Field
	// Trie is nil when no field is codable.
	Trie   *trie.Node
	Decode []DecodeStep
	Encode EncodePlan
	Init   Initializer
}

// Compile runs the planners over fields. Planning is pure: on error nothing
// outside the returned value has been touched.
func Compile(cfg Config, fields []*descriptor.Field, log *zap.Logger) (*Record, error) {
	if log == nil {
		log = zap.NewNop()
	}

	codable := descriptor.Codable(fields)
	root := trie.Build(codable)

	r := &Record{
		Name:     cfg.Name,
		Access:   cfg.Access,
		Validate: cfg.Validate,
		Mode:     cfg.Mode,
		Fields:   fields,
		Trie:     root,
		Encode:   Encode(root),
		Init:     Synthesize(fields, cfg.Access, cfg.InitAccess),
	}

	for _, f := range codable {
		step, err := Decode(f, root)
		if err != nil {
			return nil, errors.Wrapf(err, "record %s", cfg.Name)
		}

		r.Decode = append(r.Decode, step)

		log.Debug("planned field",
			zap.String("record", cfg.Name),
			zap.String("field", f.Name),
			zap.String("path", f.PathString()),
			zap.Stringer("read", step.Read),
			zap.Stringer("fallback", step.Fallback),
			zap.Int("scopes", len(step.Scopes)),
		)
	}

	return r, nil
}

// HasCodec reports whether the record has any codable field.
func (r *Record) HasCodec() bool {
	return r.Trie != nil
}

// HasCollections reports whether a standard read handles a collection,
// which is when the fallible element helper is needed.
func (r *Record) HasCollections() bool {
	for _, s := range r.Decode {
		if s.Read != ReadValue && s.Read != ReadCustom {
			return true
		}
	}

	return false
}

// Kinds returns the distinct read kinds in use, in ReadKind order.
func (r *Record) Kinds() []ReadKind {
	seen := map[ReadKind]bool{}
	for _, s := range r.Decode {
		seen[s.Read] = true
	}

	var out []ReadKind

	for k := ReadValue; k <= ReadCustom; k++ {
		if seen[k] {
			out = append(out, k)
		}
	}

	return out
}
