package genesis

import (
	"testing"
	"time"

	"github.com/base-genesis/internal/models"
	"github.com/base-genesis/internal/types"
)

var rankedAt = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func profile(address string, rank types.Rank, daysAgo int) *models.WalletProfile {
	return &models.WalletProfile{
		Address:     address,
		Rank:        rank,
		FirstTxDate: rankedAt.AddDate(0, 0, -daysAgo),
	}
}

func TestRankProfiles(t *testing.T) {
	profiles := []*models.WalletProfile{
		profile("0xaaa1", types.RankEarlySettler, 300),
		profile("0xbbb2", types.RankOGLegend, 650),
		profile("0xccc3", types.RankGenesisPioneer, 500),
	}

	entries := RankProfiles(profiles, rankedAt, "")

	wantOrder := []string{"0xbbb2", "0xccc3", "0xaaa1"}
	for i, addr := range wantOrder {
		if entries[i].Address != addr {
			t.Errorf("position %d = %s, want %s", i+1, entries[i].Address, addr)
		}
		if entries[i].Position != i+1 {
			t.Errorf("entry %d position = %d, want %d", i, entries[i].Position, i+1)
		}
	}
}

func TestRankProfilesTieBreakByTierWeight(t *testing.T) {
	// Same tenure, different tiers: higher tier wins.
	profiles := []*models.WalletProfile{
		profile("0xcitizen", types.RankBaseCitizen, 400),
		profile("0xlegend", types.RankOGLegend, 400),
	}

	entries := RankProfiles(profiles, rankedAt, "")

	if entries[0].Address != "0xlegend" || entries[1].Address != "0xcitizen" {
		t.Errorf("tie-break order = [%s, %s], want [0xlegend, 0xcitizen]",
			entries[0].Address, entries[1].Address)
	}
}

func TestRankProfilesStability(t *testing.T) {
	// Identical days and tier must preserve input order across repeated runs.
	profiles := []*models.WalletProfile{
		profile("0xfirst", types.RankEarlySettler, 200),
		profile("0xsecond", types.RankEarlySettler, 200),
		profile("0xthird", types.RankEarlySettler, 200),
	}

	first := RankProfiles(profiles, rankedAt, "")
	second := RankProfiles(profiles, rankedAt, "")

	wantOrder := []string{"0xfirst", "0xsecond", "0xthird"}
	for i, addr := range wantOrder {
		if first[i].Address != addr {
			t.Errorf("run 1 position %d = %s, want %s", i+1, first[i].Address, addr)
		}
		if second[i].Address != first[i].Address || second[i].Position != first[i].Position {
			t.Errorf("re-ranking changed position %d: %v vs %v", i+1, second[i], first[i])
		}
	}
}

func TestRankProfilesHighlight(t *testing.T) {
	profiles := []*models.WalletProfile{
		profile("0xaaa1", types.RankOGLegend, 600),
		profile("0xbbb2", types.RankBaseCitizen, 100),
	}

	entries := RankProfiles(profiles, rankedAt, "0xBBB2")

	if entries[0].IsHighlighted {
		t.Error("entry 0xaaa1 should not be highlighted")
	}
	if !entries[1].IsHighlighted {
		t.Error("entry 0xbbb2 should be highlighted (case-insensitive match)")
	}
}

func TestRankProfilesRecomputesDays(t *testing.T) {
	p := profile("0xaaa1", types.RankOGLegend, 100)
	p.DaysSinceJoined = 1 // stale stored value must be ignored

	entries := RankProfiles([]*models.WalletProfile{p}, rankedAt, "")

	if entries[0].DaysSinceJoined != 100 {
		t.Errorf("daysSinceJoined = %d, want recomputed 100", entries[0].DaysSinceJoined)
	}
}

func TestMergeProfileInsertsNewEntry(t *testing.T) {
	entries := RankProfiles([]*models.WalletProfile{
		profile("0xaaa1", types.RankOGLegend, 650),
		profile("0xbbb2", types.RankEarlySettler, 300),
	}, rankedAt, "")

	merged := MergeProfile(entries, profile("0xccc3", types.RankGenesisPioneer, 500), rankedAt)

	if len(merged) != 3 {
		t.Fatalf("len(merged) = %d, want 3", len(merged))
	}
	if merged[1].Address != "0xccc3" || merged[1].Position != 2 {
		t.Errorf("merged entry = %+v, want 0xccc3 at position 2", merged[1])
	}
}

func TestMergeProfileIsDuplicateFree(t *testing.T) {
	entries := RankProfiles([]*models.WalletProfile{
		profile("0xaaa1", types.RankOGLegend, 650),
		profile("0xbbb2", types.RankEarlySettler, 300),
	}, rankedAt, "")

	// Re-scan of an address already on the board must replace its entry.
	merged := MergeProfile(entries, profile("0xBBB2", types.RankEarlySettler, 300), rankedAt)

	if len(merged) != 2 {
		t.Fatalf("len(merged) = %d, want 2", len(merged))
	}
	seen := make(map[string]int)
	for _, e := range merged {
		seen[e.Address]++
	}
	if seen["0xbbb2"] != 1 {
		t.Errorf("address 0xbbb2 appears %d times, want exactly 1", seen["0xbbb2"])
	}
}

func TestMergeProfilePositionsAreDense(t *testing.T) {
	entries := RankProfiles([]*models.WalletProfile{
		profile("0xaaa1", types.RankOGLegend, 650),
		profile("0xbbb2", types.RankEarlySettler, 300),
		profile("0xccc3", types.RankBaseCitizen, 10),
	}, rankedAt, "")

	merged := MergeProfile(entries, profile("0xddd4", types.RankGenesisPioneer, 400), rankedAt)

	for i, e := range merged {
		if e.Position != i+1 {
			t.Errorf("position at index %d = %d, want %d (dense, no gaps)", i, e.Position, i+1)
		}
	}
}
