package service

import (
	"context"
	"time"

	"github.com/base-genesis/internal/errors"
	"github.com/base-genesis/internal/genesis"
	"github.com/base-genesis/internal/logging"
	"github.com/base-genesis/internal/models"
	"github.com/base-genesis/internal/types"
)

// LeaderboardStore reads ranked profile data.
type LeaderboardStore interface {
	ReadTopN(ctx context.Context, n int) ([]*models.WalletProfile, error)
	Count(ctx context.Context) (int, error)
}

// LeaderboardCache caches leaderboard snapshots for store-down fallback.
type LeaderboardCache interface {
	GetLeaderboard(ctx context.Context, n int) (*types.Leaderboard, error)
	SetLeaderboard(ctx context.Context, n int, board *types.Leaderboard) error
}

// LeaderboardService builds dense-ranked leaderboards from stored profiles.
type LeaderboardService struct {
	store LeaderboardStore
	cache LeaderboardCache // optional
	now   func() time.Time
}

// NewLeaderboardService creates a new leaderboard service. cache may be nil
// when Redis is not configured.
func NewLeaderboardService(store LeaderboardStore, cache LeaderboardCache) *LeaderboardService {
	return &LeaderboardService{
		store: store,
		cache: cache,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// GetLeaderboard returns the top-n leaderboard. Entries are re-ranked on every
// read with daysSinceJoined recomputed from each profile's firstTxDate. When
// the profile store is unavailable, the last cached snapshot is served
// instead; only when both are unavailable does the read fail.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, n int, highlight string) (*types.Leaderboard, error) {
	logger := logging.FromContext(ctx)

	profiles, err := s.store.ReadTopN(ctx, n)
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"limit": n,
			"error": err.Error(),
		}).Error("Profile store unavailable, falling back to cached leaderboard")

		if cached := s.cachedFallback(ctx, n, highlight); cached != nil {
			return cached, nil
		}
		return nil, errors.NewDatabaseError("leaderboard read", err)
	}

	total, err := s.store.Count(ctx)
	if err != nil {
		// Non-fatal: the entry list is still valid.
		total = len(profiles)
	}

	board := &types.Leaderboard{
		Entries:      genesis.RankProfiles(profiles, s.now(), highlight),
		TotalWallets: total,
	}

	if s.cache != nil {
		if err := s.cache.SetLeaderboard(ctx, n, board); err != nil {
			logger.WithError(err).Warn("Failed to refresh leaderboard cache")
		}
	}

	return board, nil
}

// GetLeaderboardWithProfile returns the top-n leaderboard with a freshly
// scanned profile merged in, whether or not it was persisted yet. The merge is
// duplicate-free: an already-listed address is replaced, not doubled.
func (s *LeaderboardService) GetLeaderboardWithProfile(ctx context.Context, n int, profile *models.WalletProfile) (*types.Leaderboard, error) {
	board, err := s.GetLeaderboard(ctx, n, profile.Address)
	if err != nil {
		return nil, err
	}

	board.Entries = genesis.MergeProfile(board.Entries, profile, s.now())
	return board, nil
}

// cachedFallback serves the last known snapshot, re-marking the highlighted
// address. Returns nil when no usable snapshot exists.
func (s *LeaderboardService) cachedFallback(ctx context.Context, n int, highlight string) *types.Leaderboard {
	if s.cache == nil {
		return nil
	}

	cached, err := s.cache.GetLeaderboard(ctx, n)
	if err != nil || cached == nil {
		return nil
	}

	highlight = models.CanonicalAddress(highlight)
	for i := range cached.Entries {
		cached.Entries[i].IsHighlighted = highlight != "" && cached.Entries[i].Address == highlight
	}

	return cached
}
