package descriptor

import (
	"strings"

	"github.com/cockroachdb/errors"

	"codec-generator/internal/common"
)

// Access is the visibility of a record or its constructor.
type Access int

const (
	AccessInternal Access = iota
	AccessPrivate
	AccessPackage
	AccessPublic
	AccessOpen
)

// AccessNames lists the accepted spellings, narrowest first.
var AccessNames = []string{"private", "internal", "package", "public", "open"}

// ErrUnknownAccess is returned by ParseAccess for unrecognized levels.
var ErrUnknownAccess = errors.New("unknown access level")

// ParseAccess parses an access level. The empty string is AccessInternal.
func ParseAccess(s string) (Access, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "internal":
		return AccessInternal, nil
	case "private":
		return AccessPrivate, nil
	case "package":
		return AccessPackage, nil
	case "public":
		return AccessPublic, nil
	case "open":
		return AccessOpen, nil
	default:
		return AccessInternal, errors.Wrapf(ErrUnknownAccess, "%q", s)
	}
}

// String returns a human-readable access level name.
func (a Access) String() string {
	switch a {
	case AccessInternal:
		return "internal"
	case AccessPrivate:
		return "private"
	case AccessPackage:
		return "package"
	case AccessPublic:
		return "public"
	case AccessOpen:
		return "open"
	default:
		return common.UnknownStr
	}
}

// Constructible collapses open to public: a record open to extension still
// only exposes a publicly constructible initializer.
func (a Access) Constructible() Access {
	if a == AccessOpen {
		return AccessPublic
	}

	return a
}

// Exported reports whether generated identifiers at this level are exported.
func (a Access) Exported() bool {
	return a.Constructible() == AccessPublic
}
