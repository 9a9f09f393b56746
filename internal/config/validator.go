package config

import (
	"fmt"
	"strings"

	"github.com/vyrodovalexey/routem/internal/route"
	"github.com/vyrodovalexey/routem/internal/util"
)

// ValidationError represents a route table validation error.
type ValidationError struct {
	Path    string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Is reports whether target is util.ErrConfigInvalid.
func (e ValidationErrors) Is(target error) bool {
	return target == util.ErrConfigInvalid
}

// HasErrors returns true if there are validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates route tables.
type Validator struct {
	base   *route.Registry
	errors ValidationErrors
}

// NewValidator creates a validator resolving types against base
// (route.DefaultRegistry when nil).
func NewValidator(base *route.Registry) *Validator {
	if base == nil {
		base = route.DefaultRegistry()
	}
	return &Validator{
		base:   base,
		errors: make(ValidationErrors, 0),
	}
}

// ValidateRouteTable validates a route table against the default registry.
func ValidateRouteTable(table *RouteTable) error {
	return NewValidator(nil).Validate(table)
}

// Validate validates the route table and returns any errors. Route
// templates are compiled only when every parameter type is valid.
func (v *Validator) Validate(table *RouteTable) error {
	v.errors = make(ValidationErrors, 0)

	if table == nil {
		v.addError("", "route table is nil")
		return v.errors
	}

	if table.Watch != nil {
		if err := util.ValidateDuration(table.Watch.Debounce.Duration()); err != nil {
			v.addError("watch.debounce", err.Error())
		}
	}

	typesOK := v.validateParamTypes(table.ParamTypes)
	v.validateRoutes(table.Routes)

	if typesOK && !v.errors.HasErrors() {
		v.compileRoutes(table)
	}

	if v.errors.HasErrors() {
		return v.errors
	}
	return nil
}

// validateParamTypes validates custom type declarations and reports whether
// they are all valid.
func (v *Validator) validateParamTypes(types []ParamTypeConfig) bool {
	before := len(v.errors)
	declared := make(map[string]bool, len(types))

	for i := range types {
		pt := &types[i]
		path := fmt.Sprintf("paramTypes[%d]", i)

		v.validateParamTypeName(pt.Name, path, declared)
		v.validateParamTypeKind(pt, path, declared)

		if pt.Name != "" {
			declared[pt.Name] = true
		}
	}

	return len(v.errors) == before
}

func (v *Validator) validateParamTypeName(name, path string, declared map[string]bool) {
	if err := util.ValidateNonEmpty(name, "name"); err != nil {
		v.addError(path+".name", err.Error())
		return
	}
	if !route.IsTypeName(name) {
		v.addError(path+".name", fmt.Sprintf("type name %q may only contain letters, digits, '-' and '_'", name))
	}
	if _, builtin := v.base.Lookup(name); builtin {
		v.addError(path+".name", fmt.Sprintf("type %q shadows a built-in type", name))
	}
	if declared[name] {
		v.addError(path+".name", fmt.Sprintf("duplicate type name %q", name))
	}
}

func (v *Validator) validateParamTypeKind(pt *ParamTypeConfig, path string, declared map[string]bool) {
	kind := pt.ResolvedKind()

	switch kind {
	case KindEnum:
		v.validateEnum(pt, path)
	case KindRegex:
		if err := util.ValidateNonEmpty(pt.Pattern, "pattern"); err != nil {
			v.addError(path+".pattern", err.Error())
		} else if err := util.ValidateRegex(pt.Pattern); err != nil {
			v.addError(path+".pattern", err.Error())
		}
	case KindInt, KindUint:
		if err := util.ValidateRange(pt.Min, pt.Max); err != nil {
			v.addError(path, err.Error())
		}
		if kind == KindUint && pt.Min != nil && *pt.Min < 0 {
			v.addError(path+".min", "min must not be negative for uint types")
		}
	case KindAlpha:
	case KindAlias:
		if err := util.ValidateNonEmpty(pt.Base, "base"); err != nil {
			v.addError(path+".base", err.Error())
			break
		}
		if _, builtin := v.base.Lookup(pt.Base); !builtin && !declared[pt.Base] {
			v.addError(path+".base", fmt.Sprintf("unknown base type %q", pt.Base))
		}
	case "":
		v.addError(path+".kind", "kind is required")
		return
	default:
		v.addError(path+".kind", fmt.Sprintf(
			"unknown kind %q (want one of %s)", kind,
			strings.Join([]string{KindEnum, KindRegex, KindInt, KindUint, KindAlpha, KindAlias}, ", "),
		))
		return
	}

	v.validateUnusedFields(pt, kind, path)
}

func (v *Validator) validateEnum(pt *ParamTypeConfig, path string) {
	if len(pt.Values) == 0 {
		v.addError(path+".values", "at least one value is required")
		return
	}

	seen := make(map[string]bool, len(pt.Values))
	for j, value := range pt.Values {
		key := value
		if pt.IgnoreCase {
			key = strings.ToLower(value)
		}
		if seen[key] {
			v.addError(fmt.Sprintf("%s.values[%d]", path, j), fmt.Sprintf("duplicate value %q", value))
		}
		seen[key] = true
	}
}

// validateUnusedFields rejects fields that have no effect for kind.
func (v *Validator) validateUnusedFields(pt *ParamTypeConfig, kind, path string) {
	if len(pt.Values) > 0 && kind != KindEnum {
		v.addError(path+".values", fmt.Sprintf("values is not used by kind %q", kind))
	}
	if pt.Pattern != "" && kind != KindRegex {
		v.addError(path+".pattern", fmt.Sprintf("pattern is not used by kind %q", kind))
	}
	if pt.IgnoreCase && kind != KindEnum && kind != KindRegex {
		v.addError(path+".ignoreCase", fmt.Sprintf("ignoreCase is not used by kind %q", kind))
	}
	if (pt.Min != nil || pt.Max != nil) && kind != KindInt && kind != KindUint {
		v.addError(path, fmt.Sprintf("min and max are not used by kind %q", kind))
	}
	if pt.Base != "" && kind != KindAlias {
		v.addError(path+".base", fmt.Sprintf("base is not used by kind %q", kind))
	}
}

// validateRoutes validates route names and the shape of their patterns.
func (v *Validator) validateRoutes(routes []RouteConfig) {
	names := make(map[string]int, len(routes))

	for i := range routes {
		r := &routes[i]
		path := fmt.Sprintf("routes[%d]", i)

		if err := util.ValidateNonEmpty(r.Name, "name"); err != nil {
			v.addError(path+".name", err.Error())
		} else if first, dup := names[r.Name]; dup {
			v.addError(path+".name", fmt.Sprintf("duplicate route name %q (first declared at routes[%d])", r.Name, first))
		} else {
			names[r.Name] = i
		}

		if err := util.ValidateNonEmpty(r.Pattern, "pattern"); err != nil {
			v.addError(path+".pattern", err.Error())
		} else if !strings.HasPrefix(r.Pattern, "/") {
			v.addError(path+".pattern", "pattern must start with '/'")
		}
	}
}

// compileRoutes compiles every template against the table's registry.
func (v *Validator) compileRoutes(table *RouteTable) {
	reg, err := BuildRegistry(table, v.base)
	if err != nil {
		v.addError("paramTypes", err.Error())
		return
	}

	for i := range table.Routes {
		r := &table.Routes[i]
		if _, err := route.Compile(r.Name, r.Pattern, reg); err != nil {
			v.addError(fmt.Sprintf("routes[%d].pattern", i), err.Error())
		}
	}
}

// addError adds a validation error.
func (v *Validator) addError(path, message string) {
	v.errors = append(v.errors, ValidationError{Path: path, Message: message})
}
