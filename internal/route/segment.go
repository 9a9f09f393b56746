package route

import "strings"

// SegmentKind identifies the variant held by a Segment.
type SegmentKind uint8

// Segment kinds.
const (
	// SegmentEmpty matches only a zero-length path component.
	SegmentEmpty SegmentKind = iota
	// SegmentConstant matches a path component byte for byte.
	SegmentConstant
	// SegmentParam matches any path component accepted by its ParamType.
	SegmentParam
)

// String returns the kind name.
func (k SegmentKind) String() string {
	switch k {
	case SegmentEmpty:
		return "empty"
	case SegmentConstant:
		return "constant"
	case SegmentParam:
		return "param"
	default:
		return "unknown"
	}
}

// Param describes a parameter placeholder. Name is metadata only and plays
// no part in matching.
type Param struct {
	Name     string
	TypeName string
	Type     ParamType
}

// Segment is one '/'-delimited slot of a route pattern.
type Segment struct {
	Kind  SegmentKind
	Text  string
	Param Param
}

// EmptySegment returns an Empty segment.
func EmptySegment() Segment {
	return Segment{Kind: SegmentEmpty}
}

// ConstantSegment returns a Constant segment matching text.
func ConstantSegment(text string) Segment {
	return Segment{Kind: SegmentConstant, Text: text}
}

// ParamSegment returns a Param segment validated by t.
func ParamSegment(name, typename string, t ParamType) Segment {
	return Segment{
		Kind:  SegmentParam,
		Param: Param{Name: name, TypeName: typename, Type: t},
	}
}

// Match reports whether a single path component satisfies the segment.
func (s Segment) Match(component string) bool {
	switch s.Kind {
	case SegmentEmpty:
		return component == ""
	case SegmentConstant:
		return component == s.Text
	case SegmentParam:
		return s.Param.Type != nil && s.Param.Type.Check(component)
	default:
		return false
	}
}

// Equal compares two segments by kind, text, parameter name and type name.
// The validators themselves are not compared.
func (s Segment) Equal(o Segment) bool {
	return s.Kind == o.Kind &&
		s.Text == o.Text &&
		s.Param.Name == o.Param.Name &&
		s.Param.TypeName == o.Param.TypeName
}

// String renders the segment in template syntax.
func (s Segment) String() string {
	switch s.Kind {
	case SegmentConstant:
		return s.Text
	case SegmentParam:
		var sb strings.Builder
		sb.Grow(len(s.Param.Name) + len(s.Param.TypeName) + 3)
		sb.WriteByte('<')
		sb.WriteString(s.Param.Name)
		sb.WriteByte(':')
		sb.WriteString(s.Param.TypeName)
		sb.WriteByte('>')
		return sb.String()
	default:
		return ""
	}
}

// renderSegments renders a segment sequence back to template syntax.
func renderSegments(segments []Segment) string {
	var sb strings.Builder
	for _, seg := range segments {
		sb.WriteByte('/')
		sb.WriteString(seg.String())
	}
	return sb.String()
}
