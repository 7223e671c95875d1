package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Options wires the HTTP surface together.
type Options struct {
	AllowedOrigins []string
	// StaticDir, when set, serves the browser client at the root.
	StaticDir string
	WebSocket http.Handler
	Metrics   *MetricsHandler
	Log       *zap.Logger
}

// NewRouter mounts the REST API under /api, the game socket at /ws and the
// optional static client at /.
func NewRouter(opts Options) (http.Handler, error) {
	r := chi.NewRouter()
	r.Mount("/api", NewAPIRouter(opts))
	r.Handle("/ws", opts.WebSocket)

	if opts.StaticDir != "" {
		static, err := StaticFileServer(opts.StaticDir, "/index.html")
		if err != nil {
			return nil, err
		}
		r.Handle("/*", static)
	}
	return r, nil
}

// NewAPIRouter builds the /api router with middlewares and routes.
func NewAPIRouter(opts Options) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(opts.Log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/v1", func(sub chi.Router) {
		sub.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})
		opts.Metrics.Routes(sub)
	})

	return r
}

// requestLogger logs each request once it completes.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.Debug("http request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("elapsed", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
