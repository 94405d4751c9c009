package plan

import (
	"codec-generator/internal/common"
	"codec-generator/internal/descriptor"
)

// Requirement tells how a constructor parameter gets its value when omitted.
type Requirement int

const (
	// Required parameters have no default.
	Required Requirement = iota
	// Defaulted parameters fall back to the field's default expression.
	Defaulted
	// Absent parameters are optional fields defaulting to nil.
	Absent
)

// String returns a human-readable representation of the Requirement.
func (r Requirement) String() string {
	switch r {
	case Required:
		return "required"
	case Defaulted:
		return "defaulted"
	case Absent:
		return "absent"
	default:
		return common.UnknownStr
	}
}

// Param is one constructor parameter.
type Param struct {
	Field       *descriptor.Field
	Requirement Requirement
	// Default is the default expression for Defaulted parameters.
	Default string
}

// Initializer is the canonical constructor of a record.
type Initializer struct {
	Access descriptor.Access
	// Params are in declaration order. The body assigns each one in the same order.
	Params []Param
	// Fixed fields are assigned their declared value and are never parameters.
	Fixed []*descriptor.Field
}

// Required returns the parameters without a default.
func (in Initializer) Required() []Param {
	var out []Param

	for _, p := range in.Params {
		if p.Requirement == Required {
			out = append(out, p)
		}
	}

	return out
}

// Optional returns the parameters that may be omitted.
func (in Initializer) Optional() []Param {
	var out []Param

	for _, p := range in.Params {
		if p.Requirement != Required {
			out = append(out, p)
		}
	}

	return out
}

// Synthesize derives the constructor from fields in declaration order.
// Excluded fields still become parameters; fixed fields never do. The access
// level is override as given, otherwise the record's level with open
// collapsed to public.
func Synthesize(fields []*descriptor.Field, record descriptor.Access, override *descriptor.Access) Initializer {
	access := record.Constructible()
	if override != nil {
		access = *override
	}

	in := Initializer{Access: access}

	for _, f := range fields {
		if f.IsImmutableFixed() {
			in.Fixed = append(in.Fixed, f)
			continue
		}

		p := Param{Field: f, Requirement: Required}

		switch {
		case f.HasDefault():
			p.Requirement = Defaulted
			p.Default = *f.Default
		case f.Shape.IsOptional():
			p.Requirement = Absent
		}

		in.Params = append(in.Params, p)
	}

	return in
}
