package genesis

import (
	"sort"
	"time"

	"github.com/base-genesis/internal/models"
	"github.com/base-genesis/internal/types"
)

// RankProfiles produces a dense 1-based ranking of the given profiles.
//
// Ordering: daysSinceJoined descending, ties broken by tier weight descending,
// remaining ties keep the input order (stable sort). daysSinceJoined is
// recomputed from firstTxDate at the given reference time so a stored value
// never goes stale.
func RankProfiles(profiles []*models.WalletProfile, now time.Time, highlight string) []types.LeaderboardEntry {
	highlight = models.CanonicalAddress(highlight)

	entries := make([]types.LeaderboardEntry, 0, len(profiles))
	for _, p := range profiles {
		entries = append(entries, types.LeaderboardEntry{
			DisplayName:     p.DisplayName(),
			Address:         p.Address,
			Rank:            p.Rank,
			DaysSinceJoined: DaysSinceJoined(p.FirstTxDate, now),
			IsHighlighted:   highlight != "" && p.Address == highlight,
		})
	}

	sortEntries(entries)

	for i := range entries {
		entries[i].Position = i + 1
	}

	return entries
}

// MergeProfile inserts a freshly scanned, possibly not-yet-persisted profile
// into an already ranked list and re-ranks. Any existing entry for the same
// address is removed first, so the result never holds two positions for one
// address. The merged entry is always highlighted: it is the wallet the
// caller just scanned.
func MergeProfile(entries []types.LeaderboardEntry, profile *models.WalletProfile, now time.Time) []types.LeaderboardEntry {
	address := models.CanonicalAddress(profile.Address)

	merged := make([]types.LeaderboardEntry, 0, len(entries)+1)
	for _, e := range entries {
		if e.Address == address {
			continue
		}
		merged = append(merged, e)
	}

	merged = append(merged, types.LeaderboardEntry{
		DisplayName:     profile.DisplayName(),
		Address:         address,
		Rank:            profile.Rank,
		DaysSinceJoined: DaysSinceJoined(profile.FirstTxDate, now),
		IsHighlighted:   true,
	})

	sortEntries(merged)

	for i := range merged {
		merged[i].Position = i + 1
	}

	return merged
}

// sortEntries applies the leaderboard ordering. Stability matters: two wallets
// with identical days and identical tier must keep their relative input order.
func sortEntries(entries []types.LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].DaysSinceJoined != entries[j].DaysSinceJoined {
			return entries[i].DaysSinceJoined > entries[j].DaysSinceJoined
		}
		return entries[i].Rank.Weight() > entries[j].Rank.Weight()
	})
}
