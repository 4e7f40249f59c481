package httpadapter

import (
	"context"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeyUsername
)

func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyRequestID).(string)
	return v
}

// UsernameFromContext returns the identity attached by requireAuth.
func UsernameFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyUsername).(string)
	return v
}

// requireAuth gates protected endpoints on a bearer token. The header scheme
// is not inspected; only the second space-separated segment is used, matching
// the established client contract.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if h == "" {
			writeError(w, http.StatusForbidden, "Token missing")
			return
		}
		parts := strings.SplitN(h, " ", 2)
		if len(parts) < 2 || parts[1] == "" {
			writeError(w, http.StatusForbidden, "Token malformed")
			return
		}
		cl, err := s.parseToken(parts[1])
		if err != nil {
			s.log.Warn("token_rejected",
				"error", err.Error(),
				"request_id", RequestIDFromContext(r.Context()),
			)
			writeError(w, http.StatusForbidden, "Invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyUsername, cl.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	h  http.ResponseWriter
	st int
	n  int
}

func (w *statusRecorder) Header() http.Header { return w.h.Header() }
func (w *statusRecorder) WriteHeader(code int) {
	w.st = code
	w.h.WriteHeader(code)
}
func (w *statusRecorder) Write(b []byte) (int, error) {
	n, err := w.h.Write(b)
	w.n += n
	return n, err
}

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", reqID)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyRequestID, reqID)))
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{h: w, st: http.StatusOK}
		next.ServeHTTP(sr, r)
		lat := time.Since(start)
		s.log.Info("http_request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sr.st,
			"bytes", sr.n,
			"latency_ms", float64(lat.Microseconds())/1000.0,
			"request_id", RequestIDFromContext(r.Context()),
		)
	})
}

// withRecovery is the last-resort net: the stack is logged server-side and
// the client only ever sees a generic message.
func (s *Server) withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("panic_recovered",
					"panic", rec,
					"stack", string(debug.Stack()),
					"request_id", RequestIDFromContext(r.Context()),
				)
				writeError(w, http.StatusInternalServerError, "Something went wrong!")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
