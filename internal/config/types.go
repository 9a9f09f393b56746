package config

// Parameter type kinds understood by BuildRegistry.
const (
	// KindEnum accepts one of a fixed set of values.
	KindEnum = "enum"
	// KindRegex accepts components fully matched by a regular expression.
	KindRegex = "regex"
	// KindInt accepts signed decimal integers within optional bounds.
	KindInt = "int"
	// KindUint accepts unsigned decimal integers within optional bounds.
	KindUint = "uint"
	// KindAlpha accepts non-empty runs of ASCII letters.
	KindAlpha = "alpha"
	// KindAlias reuses an existing type under a new name.
	KindAlias = "alias"
)

// RouteTable is the root of a route table file.
type RouteTable struct {
	// Includes lists route table files loaded before this one. Relative
	// paths resolve against the including file's directory.
	Includes []string `yaml:"includes,omitempty" json:"includes,omitempty"`

	// Watch configures hot reload.
	Watch *WatchConfig `yaml:"watch,omitempty" json:"watch,omitempty"`

	// ParamTypes declares custom parameter types, in registration order.
	ParamTypes []ParamTypeConfig `yaml:"paramTypes,omitempty" json:"paramTypes,omitempty"`

	// Routes lists routes in priority order; the first match wins.
	Routes []RouteConfig `yaml:"routes" json:"routes"`
}

// WatchConfig configures route table hot reload.
type WatchConfig struct {
	Debounce Duration `yaml:"debounce,omitempty" json:"debounce,omitempty"`
}

// ParamTypeConfig declares a custom parameter type.
type ParamTypeConfig struct {
	// Name is the type name used in templates, e.g. "color" in "<c:color>".
	Name string `yaml:"name" json:"name"`

	// Kind selects the validator. When empty it is inferred from the
	// other fields: values means enum, pattern means regex, bounds mean int.
	Kind string `yaml:"kind,omitempty" json:"kind,omitempty"`

	// Values lists the accepted components for enum types.
	Values []string `yaml:"values,omitempty" json:"values,omitempty"`

	// Pattern is the regular expression for regex types. It must match
	// the whole component.
	Pattern string `yaml:"pattern,omitempty" json:"pattern,omitempty"`

	// IgnoreCase makes enum and regex matching case-insensitive.
	IgnoreCase bool `yaml:"ignoreCase,omitempty" json:"ignoreCase,omitempty"`

	// Min and Max bound int and uint types, inclusive.
	Min *int64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max *int64 `yaml:"max,omitempty" json:"max,omitempty"`

	// Base names the aliased type for alias types.
	Base string `yaml:"base,omitempty" json:"base,omitempty"`
}

// ResolvedKind returns the explicit kind, or the kind implied by the set
// fields. It returns "" when nothing implies a kind.
func (p *ParamTypeConfig) ResolvedKind() string {
	if p.Kind != "" {
		return p.Kind
	}
	switch {
	case len(p.Values) > 0:
		return KindEnum
	case p.Pattern != "":
		return KindRegex
	case p.Min != nil || p.Max != nil:
		return KindInt
	case p.Base != "":
		return KindAlias
	default:
		return ""
	}
}

// RouteConfig declares a named route.
type RouteConfig struct {
	Name        string `yaml:"name" json:"name"`
	Pattern     string `yaml:"pattern" json:"pattern"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// DebounceDelay returns the configured watch debounce, or zero.
func (t *RouteTable) DebounceDelay() Duration {
	if t == nil || t.Watch == nil {
		return 0
	}
	return t.Watch.Debounce
}

// merge appends other's declarations after t's. Watch settings from other
// win when set.
func (t *RouteTable) merge(other *RouteTable) {
	if other == nil {
		return
	}
	t.ParamTypes = append(t.ParamTypes, other.ParamTypes...)
	t.Routes = append(t.Routes, other.Routes...)
	if other.Watch != nil {
		t.Watch = other.Watch
	}
}
