package api

import (
	"net/http"
	"strconv"
)

const (
	defaultLeaderboardLimit = 100
	maxLeaderboardLimit     = 500
)

// handleGetLeaderboard handles GET /api/leaderboard?limit=N&highlight=0x...
func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := defaultLeaderboardLimit
	if limitStr := query.Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "limit must be a positive integer", nil)
			return
		}
		limit = parsed
		if limit > maxLeaderboardLimit {
			limit = maxLeaderboardLimit
		}
	}

	highlight := query.Get("highlight")

	board, err := s.leaderboardService.GetLeaderboard(r.Context(), limit, highlight)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, board)
}
