package command

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Spec is the argument contract for a single slash command.
type Spec struct {
	// Name includes the leading slash, e.g. "/set-bin".
	Name string

	// MinArgs is the lower bound on positional arguments. Nil means unbounded.
	MinArgs *int

	// MaxArgs is the upper bound on positional arguments. Nil means unbounded.
	MaxArgs *int

	// Usage is shown verbatim when the argument count is out of range.
	Usage string
}

// Validate checks that the name is well formed and the bounds are ordered.
func (s Spec) Validate() error {
	if !strings.HasPrefix(s.Name, "/") {
		return fmt.Errorf("command name %q must start with /", s.Name)
	}
	if strings.ContainsFunc(s.Name, unicode.IsSpace) {
		return fmt.Errorf("command name %q must not contain whitespace", s.Name)
	}
	if s.MinArgs != nil && *s.MinArgs < 0 {
		return fmt.Errorf("%s: min_args must be >= 0, got %d", s.Name, *s.MinArgs)
	}
	if s.MaxArgs != nil && *s.MaxArgs < 0 {
		return fmt.Errorf("%s: max_args must be >= 0, got %d", s.Name, *s.MaxArgs)
	}
	if s.MinArgs != nil && s.MaxArgs != nil && *s.MinArgs > *s.MaxArgs {
		return fmt.Errorf("%s: min_args (%d) exceeds max_args (%d)", s.Name, *s.MinArgs, *s.MaxArgs)
	}
	if s.Usage == "" {
		return fmt.Errorf("%s: usage is required", s.Name)
	}
	return nil
}

// Accepts reports whether n positional arguments satisfy the contract.
func (s Spec) Accepts(n int) bool {
	if s.MinArgs != nil && n < *s.MinArgs {
		return false
	}
	if s.MaxArgs != nil && n > *s.MaxArgs {
		return false
	}
	return true
}

// Registry is an immutable lookup table of command specs keyed by name.
type Registry struct {
	specs map[string]Spec
}

// NewRegistry builds a registry from specs. Every spec is validated and names
// must be unique.
func NewRegistry(specs ...Spec) (*Registry, error) {
	if len(specs) == 0 {
		return nil, errors.New("registry has no commands")
	}

	m := make(map[string]Spec, len(specs))
	for _, s := range specs {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, dup := m[s.Name]; dup {
			return nil, fmt.Errorf("duplicate command %s", s.Name)
		}
		m[s.Name] = s
	}

	return &Registry{specs: m}, nil
}

// Lookup returns the spec registered under name.
func (r *Registry) Lookup(name string) (Spec, bool) {
	if r == nil {
		return Spec{}, false
	}
	s, ok := r.specs[name]
	return s, ok
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.specs)
}

// Specs returns all specs sorted by name.
func (r *Registry) Specs() []Spec {
	if r == nil {
		return nil
	}
	out := make([]Spec, 0, len(r.specs))
	for _, s := range r.specs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Bound returns a pointer to n, for building specs in code.
func Bound(n int) *int {
	return &n
}
