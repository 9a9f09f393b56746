package route

import "fmt"

// Parser compiles path templates against a registry of parameter types.
//
// A Parser owns its registry: NewParser takes a copy, so types registered
// on the source registry afterwards are not seen by the parser and types
// added with RegisterType do not leak back.
type Parser struct {
	registry *Registry
}

// NewParser creates a parser using a copy of reg. A nil reg selects
// DefaultRegistry.
func NewParser(reg *Registry) *Parser {
	if reg == nil {
		return &Parser{registry: DefaultRegistry()}
	}
	return &Parser{registry: reg.Clone()}
}

// Registry returns the parser's own registry.
func (p *Parser) Registry() *Registry {
	return p.registry
}

// RegisterType adds or replaces a parameter type on the parser's registry.
func (p *Parser) RegisterType(typename string, t ParamType) {
	p.registry.Register(typename, t)
}

// Compile parses template into a named Route.
func (p *Parser) Compile(name, template string) (*Route, error) {
	segments, err := p.Parse(template)
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.Route = name
		}
		return nil, err
	}
	return newRoute(name, segments), nil
}

// MustCompile is like Compile but panics if the template cannot be parsed.
func (p *Parser) MustCompile(name, template string) *Route {
	r, err := p.Compile(name, template)
	if err != nil {
		panic(fmt.Sprintf("route: MustCompile(%q): %v", template, err))
	}
	return r
}

// Compile parses template with reg (DefaultRegistry when nil) without
// copying the registry.
func Compile(name, template string, reg *Registry) (*Route, error) {
	if reg == nil {
		reg = DefaultRegistry()
	}
	p := &Parser{registry: reg}
	return p.Compile(name, template)
}

// Parse turns template into its segment sequence.
//
//	pattern      := "/" segment_list
//	segment_list := segment ("/" segment)*
//	segment      := param | constant | ""
//	param        := "<" identifier [":" typename] ">"
//	constant     := urlsafe+
//	identifier   := alpha urlsafe*
//	typename     := urlsafe+
//
// Alternatives are tried in order and a failed alternative consumes nothing.
// A placeholder without a type name is a string parameter.
func (p *Parser) Parse(template string) ([]Segment, error) {
	if template == "" || template[0] != '/' {
		return nil, newSyntaxError(template, 0, "pattern must start with '/'")
	}

	pos := 1
	segments := make([]Segment, 0, 4)
	for {
		seg, next, err := p.segment(template, pos)
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
		pos = next

		if pos < len(template) && template[pos] == '/' {
			pos++
			continue
		}
		break
	}

	if pos < len(template) {
		return nil, newTrailingInputError(template, pos, segments)
	}
	return segments, nil
}

// segment parses one slot starting at pos and returns the position after it.
func (p *Parser) segment(input string, pos int) (Segment, int, error) {
	seg, next, ok, err := p.param(input, pos)
	if err != nil {
		return Segment{}, pos, err
	}
	if ok {
		return seg, next, nil
	}

	if end := scanURLSafe(input, pos); end > pos {
		return ConstantSegment(input[pos:end]), end, nil
	}

	return EmptySegment(), pos, nil
}

// param parses a "<name:type>" placeholder. Malformed syntax reports
// ok == false so the caller can try the next alternative; an unknown type in
// an otherwise well-formed placeholder is an error.
func (p *Parser) param(input string, pos int) (seg Segment, next int, ok bool, err error) {
	i := pos
	if i >= len(input) || input[i] != '<' {
		return Segment{}, pos, false, nil
	}
	i++

	nameEnd := scanIdentifier(input, i)
	if nameEnd == i {
		return Segment{}, pos, false, nil
	}
	name := input[i:nameEnd]
	i = nameEnd

	typename := TypeString
	typeOffset := i
	if i < len(input) && input[i] == ':' {
		i++
		typeOffset = i
		typeEnd := scanURLSafe(input, i)
		if typeEnd == i {
			return Segment{}, pos, false, nil
		}
		typename = input[i:typeEnd]
		i = typeEnd
	}

	if i >= len(input) || input[i] != '>' {
		return Segment{}, pos, false, nil
	}
	i++

	t, found := p.registry.Lookup(typename)
	if !found {
		return Segment{}, pos, false, newUnknownTypeError(input, typeOffset, name, typename)
	}

	return ParamSegment(name, typename, t), i, true, nil
}

// scanIdentifier returns the end of an identifier starting at pos, or pos if
// there is none.
func scanIdentifier(input string, pos int) int {
	if pos >= len(input) || !isAlpha(input[pos]) {
		return pos
	}
	return scanURLSafe(input, pos+1)
}

// scanURLSafe returns the end of the run of URL-safe bytes starting at pos.
func scanURLSafe(input string, pos int) int {
	for pos < len(input) && isURLSafe(input[pos]) {
		pos++
	}
	return pos
}

// IsIdentifier reports whether s is a valid placeholder name.
func IsIdentifier(s string) bool {
	return s != "" && scanIdentifier(s, 0) == len(s)
}

// IsTypeName reports whether s can appear as a type name in a template.
func IsTypeName(s string) bool {
	return s != "" && scanURLSafe(s, 0) == len(s)
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isURLSafe(c byte) bool {
	return isAlpha(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}
