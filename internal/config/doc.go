// Package config provides route table loading, validation and hot reload.
//
// A route table is a YAML file listing custom parameter types and named
// routes in priority order:
//
//	includes:
//	  - common.yaml
//	watch:
//	  debounce: 250ms
//	paramTypes:
//	  - name: color
//	    values: [red, green, blue]
//	  - name: slug
//	    pattern: "[a-z0-9]+(-[a-z0-9]+)*"
//	  - name: port
//	    kind: uint
//	    min: 1
//	    max: 65535
//	routes:
//	  - name: user
//	    pattern: /user/<id:int>/
//	  - name: swatch
//	    pattern: /swatch/<c:color>
//
// # Features
//
//   - Environment variable substitution with ${VAR:-default} syntax
//   - Includes, loaded ahead of the including file
//   - Validation that compiles every template and reports all problems
//   - BuildRegistry to turn declared types into a route.Registry
//   - File watching for hot reload
//
// # Loading
//
//	table, err := config.LoadRouteTable("routes.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := config.ValidateRouteTable(table); err != nil {
//	    log.Fatal(err)
//	}
//
// # File Watching
//
//	watcher, err := config.NewWatcher("routes.yaml", func(t *config.RouteTable) {
//	    // swap in the new table
//	}, config.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := watcher.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer watcher.Stop()
package config
