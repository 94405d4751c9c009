package schema

import (
	"fmt"
	"go/token"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"codec-generator/internal/descriptor"
	"codec-generator/internal/diagnostic"
	"codec-generator/internal/match"
	"codec-generator/internal/plan"
	"codec-generator/internal/shape"
	"codec-generator/internal/trie"
)

// Validate checks a schema without generating anything.
// It returns every finding instead of stopping at the first.
func Validate(f *File) *diagnostic.Diagnostics {
	diags := &diagnostic.Diagnostics{}

	if f == nil {
		diags.AddError("schema_is_nil", "schema is nil", "", "")
		return diags
	}

	if f.Version != CurrentVersion {
		diags.AddError("unsupported_version",
			fmt.Sprintf("unsupported schema version %q, want %q", f.Version, CurrentVersion), "", "")
	}

	switch {
	case f.Package == "":
		diags.AddError("missing_package", "package name is required", "", "")
	case !token.IsIdentifier(f.Package):
		diags.AddError("invalid_package", fmt.Sprintf("package %q is not a Go identifier", f.Package), "", "")
	}

	if len(f.Records) == 0 {
		diags.AddInfo("no_records", "schema declares no records", "", "")
	}

	seen := make(map[string]struct{}, len(f.Records))

	for i := range f.Records {
		rec := &f.Records[i]

		switch {
		case rec.Name == "":
			diags.AddError("missing_record_name", fmt.Sprintf("record #%d has no name", i+1), "", "")
			continue
		case !token.IsIdentifier(rec.Name):
			diags.AddError("invalid_record_name",
				fmt.Sprintf("%q is not a Go identifier", rec.Name), rec.Name, "")
		}

		if _, dup := seen[rec.Name]; dup {
			diags.AddError("duplicate_record", "record declared more than once", rec.Name, "")
		}

		seen[rec.Name] = struct{}{}

		validateRecord(rec, diags)
	}

	return diags
}

func validateRecord(rec *Record, diags *diagnostic.Diagnostics) {
	if rec.Access != "" {
		if _, err := descriptor.ParseAccess(rec.Access); err != nil {
			diags.AddError("unknown_access", fmt.Sprintf("unknown access %q", rec.Access), rec.Name, "",
				match.Suggest(rec.Access, descriptor.AccessNames, match.DefaultThreshold)...)
		}
	}

	if rec.InitAccess != "" {
		if _, err := descriptor.ParseAccess(rec.InitAccess); err != nil {
			diags.AddError("unknown_init_access", fmt.Sprintf("unknown init_access %q", rec.InitAccess), rec.Name, "",
				match.Suggest(rec.InitAccess, descriptor.AccessNames, match.DefaultThreshold)...)
		}
	}

	mode, err := plan.ParseMode(rec.Mode)
	if err != nil {
		diags.AddError("unknown_mode", fmt.Sprintf("unknown mode %q", rec.Mode), rec.Name, "",
			match.Suggest(rec.Mode, plan.ModeNames, match.DefaultThreshold)...)
	} else if rec.Validate && !mode.Decodes() {
		diags.AddWarning("validate_without_decode", "validate has no effect on an encode-only record", rec.Name, "")
	}

	fieldsOK := true

	for i := range rec.Fields {
		fd := &rec.Fields[i]
		if fd.Static {
			continue
		}

		if fd.Name != "" && !token.IsIdentifier(fd.Name) {
			fieldsOK = false

			diags.AddError("invalid_field_name",
				fmt.Sprintf("field name %q is not a valid Go identifier", fd.Name), rec.Name, fd.Name)

			continue
		}

		if _, err := descriptor.Build([]descriptor.Input{fd.Input()}); err != nil {
			fieldsOK = false

			diags.AddError(errorCode(err), errorMessage(err), rec.Name, fd.Name)
		}
	}

	if !fieldsOK {
		return
	}

	fields, err := descriptor.Build(rec.Inputs())
	if err != nil {
		var de *descriptor.Error
		name := ""

		if errors.As(err, &de) {
			name = de.Field
		}

		diags.AddError(errorCode(err), errorMessage(err), rec.Name, name)

		return
	}

	checkGoNames(rec, diags)

	codable := descriptor.Codable(fields)
	if len(codable) == 0 {
		diags.AddInfo("no_codable_fields", "record has no codable fields; its codec reads and writes nothing", rec.Name, "")
		return
	}

	if root := trie.Build(codable); root != nil {
		checkKeys(rec.Name, root, diags)
	}
}

// checkGoNames catches fields that differ only in their first letter's case.
func checkGoNames(rec *Record, diags *diagnostic.Diagnostics) {
	owners := make(map[string]string, len(rec.Fields))

	for i := range rec.Fields {
		fd := &rec.Fields[i]
		if fd.Static {
			continue
		}

		goName := fd.GoName()
		if other, ok := owners[goName]; ok {
			diags.AddError("duplicate_go_name",
				fmt.Sprintf("Go field name %s also produced by %q", goName, other), rec.Name, fd.Name)

			continue
		}

		owners[goName] = fd.Name
	}
}

// checkKeys warns about keys a reader is likely to confuse and about
// terminals that share a name with a namespace, which fails at write time.
func checkKeys(record string, root *trie.Node, diags *diagnostic.Diagnostics) {
	root.Walk(func(n *trie.Node) {
		keys := make([]string, 0, len(n.Terminals)+len(n.Children))
		for _, t := range n.Terminals {
			keys = append(keys, t.Key)
		}

		for _, c := range n.Children {
			keys = append(keys, c.Segment)

			if t, ok := n.Terminal(c.Segment); ok {
				diags.AddWarning("key_namespace_conflict",
					fmt.Sprintf("key %q is both a value and a namespace; writing fails", scopeLabel(c)),
					record, t.Field.Name)
			}
		}

		byNorm := make(map[string][]string, len(keys))
		for _, k := range keys {
			norm := match.NormalizeKey(k)
			byNorm[norm] = append(byNorm[norm], k)
		}

		norms := make([]string, 0, len(byNorm))
		for norm := range byNorm {
			norms = append(norms, norm)
		}

		sort.Strings(norms)

		for _, norm := range norms {
			group := uniq(byNorm[norm])
			if len(group) < 2 {
				continue
			}

			diags.AddWarning("near_duplicate_key",
				fmt.Sprintf("keys %s in %s differ only in case or separators", strings.Join(group, ", "), scopeLabel(n)),
				record, "")
		}
	})
}

func scopeLabel(n *trie.Node) string {
	if n.IsRoot() {
		return "root"
	}

	return strings.Join(n.Path(), ".")
}

func uniq(keys []string) []string {
	sort.Strings(keys)

	out := keys[:0]
	for i, k := range keys {
		if i > 0 && k == keys[i-1] {
			continue
		}

		out = append(out, k)
	}

	return out
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, shape.ErrNoType):
		return "missing_type"
	case errors.Is(err, shape.ErrUnsupportedType):
		return "unsupported_type"
	case errors.Is(err, descriptor.ErrCustomReadExcluded):
		return "custom_read_excluded"
	case errors.Is(err, descriptor.ErrDuplicateName):
		return "duplicate_name"
	case errors.Is(err, descriptor.ErrDuplicatePath):
		return "duplicate_key_path"
	case errors.Is(err, descriptor.ErrEmptyPath):
		return "empty_key_path"
	case errors.Is(err, descriptor.ErrNoName):
		return "missing_field_name"
	default:
		return "invalid_field"
	}
}

func errorMessage(err error) string {
	var de *descriptor.Error
	if errors.As(err, &de) {
		return de.Err.Error()
	}

	return err.Error()
}
