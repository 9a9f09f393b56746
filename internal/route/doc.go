// Package route compiles URL path templates into typed routes and matches
// request paths against them.
//
// # Templates
//
// A template is a '/'-separated list of segments. Each segment is a
// constant, a typed parameter placeholder or empty:
//
//	/user/<id:int>/profile/<profile_id:uuid>
//	/game/<slug>/
//	/
//
// Constants and type names are made of ASCII letters, digits, '-' and '_'.
// Parameter names must start with a letter. A placeholder without a type is
// a string parameter. A trailing '/' produces a trailing empty segment, so
// /user/<id:int>/ matches /user/7/ but not /user/7.
//
// # Parameter Types
//
// The default registry provides:
//
//	string  any component, including the empty one
//	int     signed 64-bit decimal integer (eg. -1, 42)
//	uuid    a UUID as accepted by github.com/google/uuid
//
// Further types are registered by name:
//
//	reg := route.DefaultRegistry()
//	reg.RegisterFunc("lower", func(s string) bool { return s == strings.ToLower(s) })
//	p := route.NewParser(reg)
//
// # Matching and Reverse Routing
//
//	r, err := p.Compile("profile", "/user/<id:int>/profile/<profile_id:uuid>")
//	if err != nil {
//	    var pe *route.ParseError
//	    if errors.As(err, &pe) {
//	        fmt.Println(pe.Diagnostic())
//	    }
//	    return err
//	}
//
//	r.Matches("/user/7/profile/36be8705-6c31-45d7-9321-d56cc07b50d9")  // true
//	values, ok := r.Extract("/user/7/profile/36be8705-6c31-45d7-9321-d56cc07b50d9")
//	// values == []string{"7", "36be8705-6c31-45d7-9321-d56cc07b50d9"}
//
//	path, ok := r.Fill([]string{"7", "36be8705-6c31-45d7-9321-d56cc07b50d9"})
//
// Extracted values are positional. Route.ParamNames and Route.Params give
// name-keyed access. Matching is byte exact and does not decode
// percent-escapes.
package route
