// Package observability provides structured logging for routem via zap.
//
// The Logger interface keeps callers independent of zap:
//
//	logger, err := observability.NewLogger(observability.LogConfig{
//	    Level:  "info",
//	    Format: "json",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
//	logger.Info("route table loaded",
//	    observability.String("path", "routes.yaml"),
//	    observability.Int("routes", 12),
//	)
//
// Library packages default to NopLogger and accept a Logger through their
// options.
package observability
