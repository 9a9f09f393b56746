// Package router provides an insertion-ordered route set over compiled
// path templates.
//
// Lookups are first-match: routes are tried in the order they were added
// and the first route whose pattern matches wins. There is no priority,
// specificity scoring or conflict detection, so an earlier route silently
// shadows any later route matching the same paths.
//
// # Features
//
//   - First-match Find and Match with positional and named parameters
//   - Reverse routing by route name with URL
//   - Atomic replacement of the route set from a config.RouteTable
//   - Prometheus lookup, compile error and reload metrics
//   - Thread-safe registration and lookup
//
// # Usage
//
//	r := router.New(router.WithLogger(logger))
//	if _, err := r.Compile("user", "/user/<id:int>/"); err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := r.Match("/user/42/")
//	if err == nil {
//	    id, _ := result.Param("id") // "42"
//	}
//
//	link, err := r.URL("user", "7") // "/user/7/"
package router
