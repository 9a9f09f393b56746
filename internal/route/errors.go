package route

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vyrodovalexey/routem/internal/util"
)

// Sentinel errors matched by ParseError through errors.Is.
var (
	ErrSyntax        = errors.New("route syntax error")
	ErrUnknownType   = errors.New("unknown parameter type")
	ErrTrailingInput = errors.New("unexpected input remaining")
)

// ErrorKind classifies a ParseError.
type ErrorKind int

// Parse error kinds.
const (
	// ErrorKindSyntax is a malformed template, e.g. one missing its leading '/'.
	ErrorKindSyntax ErrorKind = iota
	// ErrorKindUnknownType is a well-formed placeholder naming an unregistered type.
	ErrorKindUnknownType
	// ErrorKindTrailingInput is a valid prefix followed by unparsable input.
	ErrorKindTrailingInput
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindSyntax:
		return "syntax"
	case ErrorKindUnknownType:
		return "unknown_type"
	case ErrorKindTrailingInput:
		return "trailing_input"
	default:
		return "unknown"
	}
}

// ParseError reports why a template could not be compiled.
type ParseError struct {
	Kind ErrorKind

	// Route is the name passed to Compile, if any.
	Route string

	// Template is the full input and Offset the byte position of the problem.
	Template string
	Offset   int

	// Message describes syntax errors.
	Message string

	// Param and TypeName are set for ErrorKindUnknownType.
	Param    string
	TypeName string

	// Segments and Remainder are set for ErrorKindTrailingInput. Segments
	// holds everything parsed before Remainder.
	Segments  []Segment
	Remainder string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var detail string
	switch e.Kind {
	case ErrorKindUnknownType:
		detail = fmt.Sprintf("unknown parameter type %q for parameter %q", e.TypeName, e.Param)
	case ErrorKindTrailingInput:
		detail = fmt.Sprintf("unexpected input %q at offset %d", e.Remainder, e.Offset)
	default:
		detail = fmt.Sprintf("%s at offset %d", e.Message, e.Offset)
	}

	if e.Route != "" {
		return fmt.Sprintf("route %q: parse %q: %s", e.Route, e.Template, detail)
	}
	return fmt.Sprintf("parse %q: %s", e.Template, detail)
}

// Unwrap returns the sentinel error for the kind.
func (e *ParseError) Unwrap() error {
	switch e.Kind {
	case ErrorKindUnknownType:
		return ErrUnknownType
	case ErrorKindTrailingInput:
		return ErrTrailingInput
	default:
		return ErrSyntax
	}
}

// Is checks if the error matches the target.
func (e *ParseError) Is(target error) bool {
	if target == util.ErrInvalidInput {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// Diagnostic renders the template with a caret under the offending byte.
//
//	/user/<id:int>.json
//	              ^ unexpected input ".json"
func (e *ParseError) Diagnostic() string {
	offset := e.Offset
	if offset < 0 {
		offset = 0
	}
	if offset > len(e.Template) {
		offset = len(e.Template)
	}

	var hint string
	switch e.Kind {
	case ErrorKindUnknownType:
		hint = fmt.Sprintf("unknown parameter type %q (is it registered?)", e.TypeName)
	case ErrorKindTrailingInput:
		hint = fmt.Sprintf("unexpected input %q", e.Remainder)
	default:
		hint = e.Message
	}

	return e.Template + "\n" + strings.Repeat(" ", offset) + "^ " + hint
}

func newSyntaxError(template string, offset int, message string) *ParseError {
	return &ParseError{
		Kind:     ErrorKindSyntax,
		Template: template,
		Offset:   offset,
		Message:  message,
	}
}

func newUnknownTypeError(template string, offset int, param, typename string) *ParseError {
	return &ParseError{
		Kind:     ErrorKindUnknownType,
		Template: template,
		Offset:   offset,
		Param:    param,
		TypeName: typename,
	}
}

func newTrailingInputError(template string, offset int, segments []Segment) *ParseError {
	return &ParseError{
		Kind:      ErrorKindTrailingInput,
		Template:  template,
		Offset:    offset,
		Segments:  segments,
		Remainder: template[offset:],
	}
}
