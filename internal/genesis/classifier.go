// Package genesis implements rank classification, achievement evaluation and
// leaderboard ranking. Everything in this package is pure: the same inputs
// always produce the same outputs, whether called from the scan path or a
// preview path.
package genesis

import (
	"strings"
	"time"

	"github.com/base-genesis/internal/config"
	"github.com/base-genesis/internal/types"
)

// LaunchDate is the Base public mainnet launch.
var LaunchDate = time.Date(2023, 8, 9, 0, 0, 0, 0, time.UTC)

// Thresholds holds the day-count boundaries between rank tiers, measured from
// the launch date. Injectable so classification, achievements and the API all
// share a single definition and tests can pin exact boundary behavior.
type Thresholds struct {
	OGDays      int
	PioneerDays int
	SettlerDays int
}

// DefaultThresholds is the canonical threshold table.
var DefaultThresholds = Thresholds{
	OGDays:      30,
	PioneerDays: 180,
	SettlerDays: 365,
}

// Classifier maps a first-transaction timestamp to a rank tier.
type Classifier struct {
	launchDate time.Time
	thresholds Thresholds
	allowList  map[string]bool // addresses always classified OG_LEGEND
}

// NewClassifier creates a classifier with the given launch date, thresholds
// and OG allow-list. Zero-valued thresholds fall back to the defaults.
func NewClassifier(launchDate time.Time, thresholds Thresholds, allowList []string) *Classifier {
	if thresholds == (Thresholds{}) {
		thresholds = DefaultThresholds
	}

	allowed := make(map[string]bool, len(allowList))
	for _, addr := range allowList {
		allowed[strings.ToLower(addr)] = true
	}

	return &Classifier{
		launchDate: launchDate.UTC(),
		thresholds: thresholds,
		allowList:  allowed,
	}
}

// NewClassifierFromConfig builds a classifier from the Genesis config section.
func NewClassifierFromConfig(cfg *config.GenesisConfig) *Classifier {
	return NewClassifier(cfg.LaunchDate, Thresholds{
		OGDays:      cfg.OGDays,
		PioneerDays: cfg.PioneerDays,
		SettlerDays: cfg.SettlerDays,
	}, cfg.OGAllowList)
}

// Classify returns the rank tier for a wallet given its first transaction
// date. Allow-listed addresses are always OG_LEGEND, as is any pre-launch
// activity; otherwise the tier boundaries are evaluated in ascending order and
// the first match wins. Boundaries are inclusive.
func (c *Classifier) Classify(address string, firstTxDate time.Time) types.Rank {
	if c.allowList[strings.ToLower(address)] {
		return types.RankOGLegend
	}

	if firstTxDate.Before(c.launchDate) {
		return types.RankOGLegend
	}

	days := DaysBetween(c.launchDate, firstTxDate)
	switch {
	case days <= c.thresholds.OGDays:
		return types.RankOGLegend
	case days <= c.thresholds.PioneerDays:
		return types.RankGenesisPioneer
	case days <= c.thresholds.SettlerDays:
		return types.RankEarlySettler
	default:
		return types.RankBaseCitizen
	}
}

// Thresholds returns the threshold table in effect.
func (c *Classifier) Thresholds() Thresholds {
	return c.thresholds
}

// LaunchDate returns the launch date in effect.
func (c *Classifier) LaunchDate() time.Time {
	return c.launchDate
}

// DaysBetween returns ceil(|to - from| / 24h) in whole days.
func DaysBetween(from, to time.Time) int {
	d := to.Sub(from)
	if d < 0 {
		d = -d
	}
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// DaysSinceJoined returns the wallet's tenure in whole days at the given
// reference time. Recomputed on every read, never cached indefinitely.
func DaysSinceJoined(firstTxDate, now time.Time) int {
	if now.Before(firstTxDate) {
		return 0
	}
	return DaysBetween(firstTxDate, now)
}
