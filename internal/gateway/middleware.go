package gateway

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/abhisek/sattutor/internal/store"
)

type contextKey string

const subjectKey contextKey = "subject"

func subjectFrom(ctx context.Context) string {
	if v, ok := ctx.Value(subjectKey).(string); ok {
		return v
	}
	return ""
}

// authenticate resolves a bearer token to its subject. Requests without a
// token pass through anonymously; a token that fails verification is a 401.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" || s.opts.Verifier == nil {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := s.opts.Verifier.Verify(token)
		if err != nil {
			errorResponse(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), subjectKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractBearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// logRequests appends one request event per routed request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.opts.Events == nil {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		op := r.Method + " " + r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				op = r.Method + " " + tpl
			}
		}
		ev := store.RequestEventData{
			Source:     store.SourceGateway,
			Operation:  op,
			StatusCode: rec.status,
			LatencyMs:  time.Since(start).Milliseconds(),
			Success:    rec.status < http.StatusBadRequest,
		}
		if !ev.Success {
			ev.ErrorMessage = http.StatusText(rec.status)
		}
		if err := s.opts.Events.AppendRequestEvent(context.WithoutCancel(r.Context()), ev); err != nil {
			fmt.Fprintf(os.Stderr, "warning: record gateway request: %v\n", err)
		}
	})
}
