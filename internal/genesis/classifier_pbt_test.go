package genesis

import (
	"testing"
	"time"

	"github.com/base-genesis/internal/types"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

const testAddr = "0x1111111111111111111111111111111111111111"

func TestClassifyProperties(t *testing.T) {
	c := newTestClassifier()
	properties := gopter.NewProperties(nil)

	// Any first transaction strictly before launch classifies as OG_LEGEND.
	properties.Property("pre-launch is always OG_LEGEND", prop.ForAll(
		func(secondsBefore int64) bool {
			firstTx := launch.Add(-time.Duration(secondsBefore) * time.Second)
			return c.Classify(testAddr, firstTx) == types.RankOGLegend
		},
		gen.Int64Range(1, 10*365*24*3600),
	))

	// As days since launch grow, the tier weight never increases.
	properties.Property("classification is monotonic in days since launch", prop.ForAll(
		func(daysA, daysB int) bool {
			if daysA > daysB {
				daysA, daysB = daysB, daysA
			}
			earlier := c.Classify(testAddr, launch.AddDate(0, 0, daysA))
			later := c.Classify(testAddr, launch.AddDate(0, 0, daysB))
			return earlier.Weight() >= later.Weight()
		},
		gen.IntRange(0, 2000),
		gen.IntRange(0, 2000),
	))

	// Pure function: repeated evaluation yields identical output.
	properties.Property("classification is idempotent", prop.ForAll(
		func(days int) bool {
			firstTx := launch.AddDate(0, 0, days)
			return c.Classify(testAddr, firstTx) == c.Classify(testAddr, firstTx)
		},
		gen.IntRange(-500, 2000),
	))

	// Every date maps to one of the four known tiers.
	properties.Property("classification is total", prop.ForAll(
		func(days int) bool {
			return c.Classify(testAddr, launch.AddDate(0, 0, days)).Valid()
		},
		gen.IntRange(-2000, 5000),
	))

	properties.TestingRun(t)
}

func TestEvaluateAchievementsProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	ranks := gen.OneConstOf(
		types.RankOGLegend, types.RankGenesisPioneer,
		types.RankEarlySettler, types.RankBaseCitizen,
	)

	// Idempotent: evaluating twice with the same inputs yields identical output.
	properties.Property("achievement evaluation is idempotent", prop.ForAll(
		func(rank types.Rank, txCount, days int, block uint64) bool {
			in := AchievementInput{Rank: rank, TxCount: txCount, DaysSinceJoined: days, BlockNumber: block}
			a := EvaluateAchievements(in)
			b := EvaluateAchievements(in)
			if len(a) != len(b) {
				return false
			}
			for i := range a {
				if a[i] != b[i] {
					return false
				}
			}
			return true
		},
		ranks,
		gen.IntRange(1, 20000),
		gen.IntRange(0, 5000),
		gen.UInt64(),
	))

	// tx badges are downward-closed: tx_1000 implies tx_100 implies tx_10.
	properties.Property("transaction badges are downward-closed", prop.ForAll(
		func(txCount int) bool {
			badges := badgeMap(EvaluateAchievements(AchievementInput{
				Rank: types.RankBaseCitizen, TxCount: txCount, DaysSinceJoined: 1, BlockNumber: 1,
			}))
			if badges[types.BadgeTx1000] && !badges[types.BadgeTx100] {
				return false
			}
			if badges[types.BadgeTx100] && !badges[types.BadgeTx10] {
				return false
			}
			return true
		},
		gen.IntRange(1, 20000),
	))

	properties.TestingRun(t)
}

func badgeMap(achievements []types.Achievement) map[types.BadgeID]bool {
	m := make(map[types.BadgeID]bool, len(achievements))
	for _, a := range achievements {
		m[a.ID] = a.Unlocked
	}
	return m
}
