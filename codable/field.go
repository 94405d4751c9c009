package codable

// Field declares one struct field of a record for the runtime codec. Fields
// are bound to struct members by Name; nothing is discovered from tags.
type Field struct {
	// Name is the exported struct field name.
	Name string
	// Key is the dotted external key path. Defaults to Name.
	Key string
	// Default is a JSON literal used when the read fails. Empty means none.
	Default string
	// Immutable with a Default fixes the value: it is never read, written or
	// passed to Construct.
	Immutable bool
	// Ignore keeps the field out of reads and writes.
	Ignore bool
	// Static marks a member that is not record data at all.
	Static bool
	// Read replaces the standard read. It receives the root scope and must
	// return a value assignable to the field.
	Read func(root *Scope) (any, error)
}

// Validator is implemented by records checked after every read.
type Validator interface {
	IsValid() bool
}
