package route

import (
	"sort"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// Built-in parameter type names.
const (
	TypeString = "string"
	TypeInt    = "int"
	TypeUUID   = "uuid"
)

// ParamType validates the text occupying a parameter segment.
type ParamType interface {
	Check(value string) bool
}

// CheckFunc adapts an ordinary function to the ParamType interface.
type CheckFunc func(value string) bool

// Check calls f(value).
func (f CheckFunc) Check(value string) bool {
	return f(value)
}

// Built-in parameter types.
var (
	// StringType accepts any path component, including the empty one.
	StringType ParamType = CheckFunc(checkString)

	// IntType accepts signed 64-bit decimal integers. A leading '+' is rejected.
	IntType ParamType = CheckFunc(checkInt)

	// UUIDType accepts any form understood by uuid.Parse: hyphenated,
	// braced, urn:uuid: prefixed or 32 plain hex digits.
	UUIDType ParamType = CheckFunc(checkUUID)
)

func checkString(string) bool {
	return true
}

func checkInt(value string) bool {
	if value == "" || value[0] == '+' {
		return false
	}
	_, err := strconv.ParseInt(value, 10, 64)
	return err == nil
}

func checkUUID(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}

// Registry maps parameter type names to their validators.
//
// A Registry is safe for concurrent use. Entries are only ever inserted or
// replaced, never removed. The zero value is an empty registry ready to use.
type Registry struct {
	types map[string]ParamType
	mu    sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]ParamType),
	}
}

// DefaultRegistry creates a registry holding the string, int and uuid types.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.types[TypeString] = StringType
	r.types[TypeInt] = IntType
	r.types[TypeUUID] = UUIDType
	return r
}

// Register inserts or replaces the type registered under typename.
// The last registration for a name wins.
func (r *Registry) Register(typename string, t ParamType) {
	if t == nil {
		panic("route: nil ParamType registered for " + strconv.Quote(typename))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.types == nil {
		r.types = make(map[string]ParamType)
	}
	r.types[typename] = t
}

// RegisterFunc registers fn as the validator for typename.
func (r *Registry) RegisterFunc(typename string, fn func(value string) bool) {
	r.Register(typename, CheckFunc(fn))
}

// Lookup returns the type registered under typename. Names are matched exactly.
func (r *Registry) Lookup(typename string) (ParamType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.types[typename]
	return t, ok
}

// Names returns the registered type names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c := &Registry{
		types: make(map[string]ParamType, len(r.types)),
	}
	for name, t := range r.types {
		c.types[name] = t
	}
	return c
}
