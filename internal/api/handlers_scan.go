package api

import (
	"net/http"

	"github.com/base-genesis/internal/logging"
	"github.com/base-genesis/internal/models"
	"github.com/base-genesis/internal/types"
	"github.com/gorilla/mux"
)

// scanResponse is the POST /api/scan payload: the scan result plus the
// leaderboard with the scanned wallet merged in, so the client sees its
// position immediately even when the profile was not persisted yet.
type scanResponse struct {
	*types.UserGenesisData
	Leaderboard *types.Leaderboard `json:"leaderboard,omitempty"`
}

// handleScan handles POST /api/scan - run a genesis scan for a wallet.
//
// A wallet with no on-chain history maps to 404, and a scan whose persistence
// failed still returns 200 with persisted=false: the in-memory classification
// is the product, storage is enrichment. The merged leaderboard is likewise an
// enrichment; if it cannot be built the scan result is returned without it.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Address string `json:"address"`
	}

	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if req.Address == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Address is required", nil)
		return
	}

	data, err := s.scanService.Scan(r.Context(), req.Address)
	if err != nil {
		logging.FromContext(r.Context()).WithError(err).Debug("Scan failed")
		respondServiceError(w, err)
		return
	}

	resp := scanResponse{UserGenesisData: data}

	board, err := s.leaderboardService.GetLeaderboardWithProfile(r.Context(), defaultLeaderboardLimit, &models.WalletProfile{
		Address:         data.Address,
		Rank:            data.Rank,
		DaysSinceJoined: data.DaysSinceJoined,
		FirstTxDate:     data.FirstTxDate,
		FirstTxHash:     data.FirstTxHash,
		BlockNumber:     data.BlockNumber,
		TxCount:         data.TxCount,
	})
	if err != nil {
		logging.FromContext(r.Context()).WithError(err).Warn("Failed to build merged leaderboard for scan response")
	} else {
		resp.Leaderboard = board
	}

	respondJSON(w, http.StatusOK, resp)
}

// handleGetProfile handles GET /api/profiles/{address} - read a stored profile
// with tenure and achievements derived fresh.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	address := vars["address"]

	if address == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Address parameter required", nil)
		return
	}

	data, err := s.scanService.GetProfile(r.Context(), address)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, data)
}
