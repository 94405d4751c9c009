package naming

import "strconv"

// NewStem creates a Stem allocating names derived from stem inside namespace.
// A nil namespace is treated as a free namespace, meaning all names are available.
func NewStem(stem string, namespace Namespace) *Stem {
	return &Stem{
		taken: namespace,
		stem:  stem,
		last:  0,
	}
}

// Namespace is a set of identifiers already in use in one Go scope.
type Namespace map[string]struct{}

// Reserve marks names as used.
func (ns Namespace) Reserve(names ...string) {
	for _, n := range names {
		ns[n] = struct{}{}
	}
}

// Claim returns name when it is free, otherwise the first free name+N.
func (ns Namespace) Claim(name string) string {
	if _, ok := ns[name]; !ok {
		ns[name] = struct{}{}
		return name
	}

	return NewStem(name, ns).Next()
}

type Stem struct {
	taken Namespace
	stem  string
	last  int
}

func (s *Stem) Next() string {
	if s.taken == nil {
		s.taken = make(Namespace)
	}

	for {
		s.last++
		name := s.stem + strconv.Itoa(s.last)

		if _, ok := s.taken[name]; !ok {
			s.taken[name] = struct{}{}
			return name
		}
	}
}
