// Package httpserver wraps net/http with configurable timeouts, graceful
// shutdown bound to a context, and liveness/readiness handlers.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	g.Go(func() error { return srv.Run(ctx, router) })
//
// Run returns nil after a clean shutdown and wraps listen failures with
// ErrStart; Shutdown wraps failures with ErrShutdown.
package httpserver
