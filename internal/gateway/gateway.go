// Package gateway exposes the read-side tutor routes over HTTP for web
// clients: leaderboard, ability, progress and chat history. It forwards to
// a tutor.Service and never holds state of its own.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/abhisek/sattutor/internal/auth"
	"github.com/abhisek/sattutor/internal/store"
	"github.com/abhisek/sattutor/internal/tutor"
)

// Options configures optional gateway collaborators. A nil Verifier
// disables bearer authentication and a nil Events disables request logging.
type Options struct {
	Verifier    *auth.Verifier
	Events      store.EventRepo
	CORSOrigins []string
}

// Server routes gateway requests to the tutor backend.
type Server struct {
	svc  tutor.Service
	opts Options
}

func New(svc tutor.Service, opts Options) *Server {
	return &Server{svc: svc, opts: opts}
}

// Handler builds the router with CORS, request logging and bearer auth.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests, s.authenticate)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.health).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard", s.leaderboard).Methods(http.MethodGet)
	api.HandleFunc("/user-ability", s.userAbility).Methods(http.MethodGet)
	api.HandleFunc("/progress", s.progress).Methods(http.MethodGet)
	api.HandleFunc("/chat-history", s.chatHistory).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins:   s.opts.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

// ListenAndServe serves h on addr until ctx is cancelled, then shuts down
// gracefully.
func ListenAndServe(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("gateway: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("gateway shutdown: %w", err)
	}
	return nil
}

func jsonResponse(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		fmt.Fprintf(os.Stderr, "warning: encode response: %v\n", err)
	}
}

func errorResponse(w http.ResponseWriter, message string, status int) {
	jsonResponse(w, map[string]string{"error": message}, status)
}
