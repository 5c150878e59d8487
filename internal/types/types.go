// Package types provides common type definitions for the BaseGenesis service.
package types

import "time"

// Rank represents a genesis rank tier, ordered by how early a wallet's first
// on-chain activity occurred relative to the Base launch date.
type Rank string

const (
	// RankOGLegend is the highest tier: pre-launch or launch-window activity.
	RankOGLegend Rank = "OG_LEGEND"
	// RankGenesisPioneer is the second tier.
	RankGenesisPioneer Rank = "GENESIS_PIONEER"
	// RankEarlySettler is the third tier.
	RankEarlySettler Rank = "EARLY_SETTLER"
	// RankBaseCitizen is the default tier for everyone else.
	RankBaseCitizen Rank = "BASE_CITIZEN"
)

// Weight returns the tier weight used for leaderboard tie-breaking.
// Higher is better. Unknown ranks weigh zero.
func (r Rank) Weight() int {
	switch r {
	case RankOGLegend:
		return 4
	case RankGenesisPioneer:
		return 3
	case RankEarlySettler:
		return 2
	case RankBaseCitizen:
		return 1
	default:
		return 0
	}
}

// Valid reports whether r is one of the four known tiers.
func (r Rank) Valid() bool {
	return r.Weight() > 0
}

// BadgeID identifies an achievement badge.
type BadgeID string

const (
	// BadgeFirstTx is unlocked once any transaction exists.
	BadgeFirstTx BadgeID = "first_tx"
	// BadgePioneer is unlocked for OG_LEGEND wallets.
	BadgePioneer BadgeID = "pioneer"
	// BadgeEarlyBird is unlocked for OG_LEGEND and GENESIS_PIONEER wallets.
	BadgeEarlyBird BadgeID = "early_bird"
	// BadgeTx10 is unlocked at 10 observed transactions.
	BadgeTx10 BadgeID = "tx_10"
	// BadgeTx100 is unlocked at 100 observed transactions.
	BadgeTx100 BadgeID = "tx_100"
	// BadgeTx1000 is unlocked at 1000 observed transactions.
	BadgeTx1000 BadgeID = "tx_1000"
	// BadgeYear1 is unlocked after 365 days on-chain.
	BadgeYear1 BadgeID = "year_1"
	// BadgeOGBlock is unlocked for first transactions below block 1,000,000.
	BadgeOGBlock BadgeID = "og_block"
)

// Achievement represents the evaluated state of a single badge.
type Achievement struct {
	ID       BadgeID `json:"id"`
	Unlocked bool    `json:"unlocked"`
}

// GenesisTransaction is a single transaction record as returned by the
// block-explorer API, reduced to the fields the genesis scan needs.
type GenesisTransaction struct {
	Hash        string `json:"hash"`
	BlockNumber uint64 `json:"blockNumber"`
	Timestamp   int64  `json:"timestamp"` // Unix seconds
	From        string `json:"from"`
	To          string `json:"to"`
}

// Time returns the transaction timestamp as a time.Time in UTC.
func (t *GenesisTransaction) Time() time.Time {
	return time.Unix(t.Timestamp, 0).UTC()
}

// UserGenesisData is the full scan result for one wallet.
type UserGenesisData struct {
	Address         string        `json:"address"`
	Rank            Rank          `json:"rank"`
	FirstTxDate     time.Time     `json:"firstTxDate"`
	FirstTxHash     string        `json:"firstTxHash"`
	BlockNumber     uint64        `json:"blockNumber"`
	TxCount         int           `json:"txCount"`
	DaysSinceJoined int           `json:"daysSinceJoined"`
	Achievements    []Achievement `json:"achievements"`
	Persisted       bool          `json:"persisted"`           // false when the store was unavailable
	ScanCount       uint64        `json:"scanCount,omitempty"` // lifetime scans of this address, when analytics are enabled
}

// LeaderboardEntry is one dense-ranked row of the leaderboard. Derived on
// every read, never persisted.
type LeaderboardEntry struct {
	Position        int    `json:"position"`
	DisplayName     string `json:"displayName"`
	Address         string `json:"address"`
	Rank            Rank   `json:"rank"`
	DaysSinceJoined int    `json:"daysSinceJoined"`
	IsHighlighted   bool   `json:"isHighlighted"`
}

// Leaderboard is the API response shape for leaderboard reads.
type Leaderboard struct {
	Entries      []LeaderboardEntry `json:"entries"`
	TotalWallets int                `json:"totalWallets"`
	FromCache    bool               `json:"fromCache,omitempty"`
}

// ServiceError represents a structured error response
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}
