package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"proximity_components/pkg/config"
)

// drainTimeout bounds how long shutdown waits for in-flight clustering jobs.
const drainTimeout = 10 * time.Second

// NewServer creates an HTTP server with all routes and middleware.
func NewServer(cfg config.Server, handlers *Handlers) *http.Server {
	mux := http.NewServeMux()

	// Clustering is CPU bound; the semaphore caps jobs running at once.
	sem := make(chan struct{}, cfg.MaxConcurrent)
	wrap := func(h http.HandlerFunc) http.HandlerFunc {
		return withRequestLog(withHeaders(withLimit(withRecover(withTimeout(h, cfg.RequestTimeout)), sem), cfg.CORSOrigin))
	}

	mux.HandleFunc("POST /api/v1/components", wrap(handlers.HandleComponents))
	mux.HandleFunc("GET /api/v1/health", wrap(handlers.HandleHealth))
	mux.HandleFunc("GET /api/v1/stats", wrap(handlers.HandleStats))

	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// ListenAndServe serves until SIGTERM or SIGINT, then drains in-flight
// requests.
func ListenAndServe(srv *http.Server) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Components API listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		stop()
		log.Printf("Shutdown requested, draining for up to %s", drainTimeout)
		drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
		defer cancel()
		if err := srv.Shutdown(drainCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// requestInfo is filled in by handlers and read back by the request log.
type requestInfo struct {
	points     int
	components int
}

type requestInfoKey struct{}

func requestInfoFrom(ctx context.Context) *requestInfo {
	info, _ := ctx.Value(requestInfoKey{}).(*requestInfo)
	return info
}

// statusRecorder captures the status code for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withRequestLog logs one line per request with the point and component
// counts the handler reported.
func withRequestLog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info := &requestInfo{}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next(rec, r.WithContext(context.WithValue(r.Context(), requestInfoKey{}, info)))

		if info.points > 0 {
			log.Printf("%s %s %d points=%d components=%d %s", r.Method, r.URL.Path, rec.status,
				info.points, info.components, time.Since(start).Round(time.Microsecond))
			return
		}
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond))
	}
}

func withHeaders(next http.HandlerFunc, corsOrigin string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Cache-Control", "no-store")
		if corsOrigin != "" {
			h.Set("Access-Control-Allow-Origin", corsOrigin)
		}
		next(w, r)
	}
}

// withLimit rejects the request with 503 when every slot is taken.
func withLimit(next http.HandlerFunc, sem chan struct{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case sem <- struct{}{}:
			defer func() { <-sem }()
		default:
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusServiceUnavailable, "busy", "", nil)
			return
		}
		next(w, r)
	}
}

func withRecover(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic in %s: %v", r.URL.Path, rec)
				writeError(w, http.StatusInternalServerError, "internal_error", "", nil)
			}
		}()
		next(w, r)
	}
}

// withTimeout bounds the clustering job; BuildContext stops between chunks
// once the deadline passes.
func withTimeout(next http.HandlerFunc, d time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), d)
		defer cancel()
		next(w, r.WithContext(ctx))
	}
}
