package route

import "strings"

// Route is a compiled path template. It is immutable and safe to share
// between goroutines.
type Route struct {
	name     string
	segments []Segment
	params   int
}

// ParamValue pairs an extracted value with the parameter it was taken from.
type ParamValue struct {
	Name     string
	TypeName string
	Value    string
}

func newRoute(name string, segments []Segment) *Route {
	params := 0
	for _, seg := range segments {
		if seg.Kind == SegmentParam {
			params++
		}
	}
	return &Route{
		name:     name,
		segments: segments,
		params:   params,
	}
}

// Name returns the caller-supplied route name.
func (r *Route) Name() string {
	return r.name
}

// Segments returns a copy of the segment sequence.
func (r *Route) Segments() []Segment {
	out := make([]Segment, len(r.segments))
	copy(out, r.segments)
	return out
}

// NumParams returns the number of Param segments.
func (r *Route) NumParams() int {
	return r.params
}

// ParamNames returns the parameter names in pattern order.
func (r *Route) ParamNames() []string {
	names := make([]string, 0, r.params)
	for _, seg := range r.segments {
		if seg.Kind == SegmentParam {
			names = append(names, seg.Param.Name)
		}
	}
	return names
}

// Pattern renders the route back to template syntax. Untyped placeholders
// come back with their implicit string type.
func (r *Route) Pattern() string {
	return renderSegments(r.segments)
}

// String returns the name and pattern.
func (r *Route) String() string {
	return r.name + " " + r.Pattern()
}

// Matches reports whether path satisfies the route.
//
// At most one leading '/' is stripped and the rest is split on '/'. The
// component count must equal the segment count; each component is then
// checked against the segment in the same position.
func (r *Route) Matches(path string) bool {
	return r.walk(path, nil)
}

// Extract returns the path components at parameter positions, in pattern
// order. The result is positional; zip it with ParamNames for named access.
// ok is false exactly when Matches would return false.
func (r *Route) Extract(path string) (values []string, ok bool) {
	values = make([]string, 0, r.params)
	if !r.walk(path, func(_ Segment, component string) {
		values = append(values, component)
	}) {
		return nil, false
	}
	return values, true
}

// Params is Extract with each value labelled by its parameter.
func (r *Route) Params(path string) ([]ParamValue, bool) {
	params := make([]ParamValue, 0, r.params)
	if !r.walk(path, func(seg Segment, component string) {
		params = append(params, ParamValue{
			Name:     seg.Param.Name,
			TypeName: seg.Param.TypeName,
			Value:    component,
		})
	}) {
		return nil, false
	}
	return params, true
}

// Fill builds a path from the route, substituting values for parameters in
// order. Values are inserted verbatim without validation or escaping. ok is
// false when len(values) differs from NumParams.
func (r *Route) Fill(values []string) (path string, ok bool) {
	var sb strings.Builder
	used := 0
	for _, seg := range r.segments {
		sb.WriteByte('/')
		switch seg.Kind {
		case SegmentConstant:
			sb.WriteString(seg.Text)
		case SegmentParam:
			if used < len(values) {
				sb.WriteString(values[used])
			}
			used++
		}
	}

	if used != len(values) {
		return "", false
	}
	return sb.String(), true
}

// walk checks path against every segment, calling visit for each parameter
// component when non-nil. Components are visited before the whole path is
// known to match, so callers must discard collected values on false.
func (r *Route) walk(path string, visit func(seg Segment, component string)) bool {
	path = strings.TrimPrefix(path, "/")
	if strings.Count(path, "/")+1 != len(r.segments) {
		return false
	}

	for _, seg := range r.segments {
		var component string
		component, path = nextPart(path)
		if !seg.Match(component) {
			return false
		}
		if visit != nil && seg.Kind == SegmentParam {
			visit(seg, component)
		}
	}
	return true
}

// nextPart splits path at its first '/'.
func nextPart(path string) (part, remain string) {
	idx := strings.IndexByte(path, '/')
	if idx == -1 {
		return path, ""
	}
	return path[:idx], path[idx+1:]
}
