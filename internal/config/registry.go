package config

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/vyrodovalexey/routem/internal/route"
	"github.com/vyrodovalexey/routem/internal/util"
)

// BuildRegistry returns a copy of base (route.DefaultRegistry when nil)
// with the table's parameter types registered in declaration order.
func BuildRegistry(table *RouteTable, base *route.Registry) (*route.Registry, error) {
	var reg *route.Registry
	if base == nil {
		reg = route.DefaultRegistry()
	} else {
		reg = base.Clone()
	}
	if table == nil {
		return reg, nil
	}

	for i := range table.ParamTypes {
		pt := &table.ParamTypes[i]
		t, err := NewParamType(pt, reg)
		if err != nil {
			return nil, util.NewConfigErrorWithCause(
				fmt.Sprintf("paramTypes[%d]", i),
				fmt.Sprintf("cannot build type %q", pt.Name),
				err,
			)
		}
		reg.Register(pt.Name, t)
	}

	return reg, nil
}

// NewParamType builds the validator described by cfg. Alias types resolve
// their base in reg.
func NewParamType(cfg *ParamTypeConfig, reg *route.Registry) (route.ParamType, error) {
	switch kind := cfg.ResolvedKind(); kind {
	case KindEnum:
		return newEnumType(cfg.Values, cfg.IgnoreCase)
	case KindRegex:
		return newRegexType(cfg.Pattern, cfg.IgnoreCase)
	case KindInt:
		return newIntRangeType(cfg.Min, cfg.Max), nil
	case KindUint:
		return newUintRangeType(cfg.Min, cfg.Max), nil
	case KindAlpha:
		return route.CheckFunc(isAlphaComponent), nil
	case KindAlias:
		if reg == nil {
			reg = route.DefaultRegistry()
		}
		t, ok := reg.Lookup(cfg.Base)
		if !ok {
			return nil, fmt.Errorf("unknown base type %q", cfg.Base)
		}
		return t, nil
	case "":
		return nil, fmt.Errorf("kind is required")
	default:
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
}

func newEnumType(values []string, ignoreCase bool) (route.ParamType, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("enum type needs at least one value")
	}

	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if ignoreCase {
			v = strings.ToLower(v)
		}
		set[v] = struct{}{}
	}

	return route.CheckFunc(func(value string) bool {
		if ignoreCase {
			value = strings.ToLower(value)
		}
		_, ok := set[value]
		return ok
	}), nil
}

func newRegexType(pattern string, ignoreCase bool) (route.ParamType, error) {
	if pattern == "" {
		return nil, fmt.Errorf("regex type needs a pattern")
	}

	expr := `^(?:` + pattern + `)$`
	if ignoreCase {
		expr = `(?i)` + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern: %w", err)
	}
	return route.CheckFunc(re.MatchString), nil
}

func newIntRangeType(minValue, maxValue *int64) route.ParamType {
	return route.CheckFunc(func(value string) bool {
		if !route.IntType.Check(value) {
			return false
		}
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return false
		}
		return inRange(n, minValue, maxValue)
	})
}

func newUintRangeType(minValue, maxValue *int64) route.ParamType {
	return route.CheckFunc(func(value string) bool {
		if value == "" || value[0] < '0' || value[0] > '9' {
			return false
		}
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return false
		}
		if n > math.MaxInt64 {
			return maxValue == nil
		}
		return inRange(int64(n), minValue, maxValue)
	})
}

func inRange(n int64, minValue, maxValue *int64) bool {
	if minValue != nil && n < *minValue {
		return false
	}
	if maxValue != nil && n > *maxValue {
		return false
	}
	return true
}

func isAlphaComponent(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		c := value[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
