package http

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/croquet-league/internal/config"
)

// Middleware defines the standard signature for an HTTP middleware.
type Middleware func(http.Handler) http.Handler

// Chain combines multiple middlewares into a single handler.
// The middlewares are applied in the order they are passed.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

type contextKey string

const runFlagsKey contextKey = "runFlags"

// paramsMiddleware reads the 'verbose', 'dry_run' and 'notify' query
// parameters into the request context as run flags.
func paramsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Info("incoming request", "method", r.Method, "url", r.URL.String())
		q := r.URL.Query()
		flags := config.RunFlags{
			Verbose: q.Get("verbose") == "true",
			DryRun:  q.Get("dry_run") == "true",
			Notify:  q.Get("notify") == "true",
		}
		if flags.Verbose {
			originalLevel := log.GetLevel()
			log.SetLevel(log.DebugLevel)
			defer log.SetLevel(originalLevel)
		}

		ctx := context.WithValue(r.Context(), runFlagsKey, flags)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// runFlagsFromContext returns the flags set by paramsMiddleware, or the zero
// value when the handler was not wrapped.
func runFlagsFromContext(r *http.Request) config.RunFlags {
	flags, _ := r.Context().Value(runFlagsKey).(config.RunFlags)
	return flags
}
