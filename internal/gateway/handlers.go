package gateway

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/abhisek/sattutor/internal/tutor"
)

const invalidParameters = "Invalid parameters"

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]any{
		"status":    "ok",
		"auth":      s.opts.Verifier != nil,
		"timestamp": time.Now().UTC(),
	}, http.StatusOK)
}

func (s *Server) leaderboard(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q := tutor.LeaderboardQuery{
		Type:   tutor.LeaderboardType(params.Get("type")),
		Topic:  params.Get("topic"),
		UserID: userID(r),
	}
	if raw := params.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			errorResponse(w, invalidParameters, http.StatusBadRequest)
			return
		}
		q.Limit = n
	}
	if err := q.Validate(); err != nil {
		errorResponse(w, invalidParameters, http.StatusBadRequest)
		return
	}

	res, err := tutor.FetchLeaderboard(r.Context(), s.svc, q)
	if err != nil {
		errorResponse(w, "Failed to fetch leaderboard", http.StatusInternalServerError)
		return
	}
	if q.Type == tutor.LeaderboardUser {
		ranking := res.Ranking
		if ranking == nil {
			ranking = &tutor.UserRanking{}
		}
		jsonResponse(w, ranking, http.StatusOK)
		return
	}
	entries := res.Entries
	if entries == nil {
		entries = []tutor.LeaderboardEntry{}
	}
	jsonResponse(w, map[string]any{"leaderboard": entries}, http.StatusOK)
}

func (s *Server) userAbility(w http.ResponseWriter, r *http.Request) {
	id, ok := requireUser(w, r)
	if !ok {
		return
	}
	snap, err := s.svc.UserAbility(r.Context(), id)
	if err != nil {
		upstreamError(w, err)
		return
	}
	jsonResponse(w, snap, http.StatusOK)
}

func (s *Server) progress(w http.ResponseWriter, r *http.Request) {
	id, ok := requireUser(w, r)
	if !ok {
		return
	}
	trends, err := s.svc.UserProgress(r.Context(), id)
	if err != nil {
		upstreamError(w, err)
		return
	}
	if trends == nil {
		trends = []tutor.ProgressEntry{}
	}
	jsonResponse(w, map[string]any{"trends": trends}, http.StatusOK)
}

func (s *Server) chatHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := requireUser(w, r)
	if !ok {
		return
	}
	history, err := s.svc.ChatHistory(r.Context(), id)
	if err != nil {
		upstreamError(w, err)
		return
	}
	if history == nil {
		history = []tutor.ChatRecord{}
	}
	jsonResponse(w, map[string]any{"history": history}, http.StatusOK)
}

// userID prefers the explicit query parameter over the bearer subject.
func userID(r *http.Request) string {
	if id := r.URL.Query().Get("userId"); id != "" {
		return id
	}
	return subjectFrom(r.Context())
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := userID(r)
	if id == "" {
		errorResponse(w, "userId is required", http.StatusBadRequest)
		return "", false
	}
	return id, true
}

// upstreamError passes a backend status through unchanged. Anything that
// never reached the backend is a 500.
func upstreamError(w http.ResponseWriter, err error) {
	var se *tutor.StatusError
	if errors.As(err, &se) {
		msg := se.Message
		if msg == "" {
			msg = http.StatusText(se.Code)
		}
		errorResponse(w, msg, se.Code)
		return
	}
	errorResponse(w, "upstream request failed", http.StatusInternalServerError)
}
