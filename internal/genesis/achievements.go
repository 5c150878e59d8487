package genesis

import "github.com/base-genesis/internal/types"

// ogBlockBoundary is the block height below which the og_block badge unlocks.
const ogBlockBoundary = 1_000_000

// AchievementInput carries the already-computed scan facts a badge can depend on.
type AchievementInput struct {
	Rank            types.Rank
	TxCount         int
	DaysSinceJoined int
	BlockNumber     uint64
}

// EvaluateAchievements evaluates every badge independently and returns the
// full set in a fixed order. Badges are non-exclusive and the evaluation is
// idempotent: the same input always yields the same output.
//
// Note: TxCount is capped by the fetcher's pagination limit, so very active
// wallets report the cap, not their true count. Badges that key off TxCount
// inherit that approximation.
func EvaluateAchievements(in AchievementInput) []types.Achievement {
	return []types.Achievement{
		// The evaluator is only called once at least one transaction exists.
		{ID: types.BadgeFirstTx, Unlocked: true},
		{ID: types.BadgePioneer, Unlocked: in.Rank == types.RankOGLegend},
		{ID: types.BadgeEarlyBird, Unlocked: in.Rank == types.RankOGLegend || in.Rank == types.RankGenesisPioneer},
		{ID: types.BadgeTx10, Unlocked: in.TxCount >= 10},
		{ID: types.BadgeTx100, Unlocked: in.TxCount >= 100},
		{ID: types.BadgeTx1000, Unlocked: in.TxCount >= 1000},
		{ID: types.BadgeYear1, Unlocked: in.DaysSinceJoined >= 365},
		{ID: types.BadgeOGBlock, Unlocked: in.BlockNumber < ogBlockBoundary},
	}
}

// UnlockedBadges returns only the unlocked badge IDs, for compact logging.
func UnlockedBadges(achievements []types.Achievement) []types.BadgeID {
	var ids []types.BadgeID
	for _, a := range achievements {
		if a.Unlocked {
			ids = append(ids, a.ID)
		}
	}
	return ids
}
