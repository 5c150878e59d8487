// Package models provides persisted data models for the BaseGenesis service.
package models

import (
	"strings"
	"time"

	"github.com/base-genesis/internal/types"
)

// WalletProfile represents one wallet's persisted genesis profile. Exactly one
// row exists per address; the address is the natural key, lowercased.
type WalletProfile struct {
	Address         string     `json:"address"`
	Rank            types.Rank `json:"rank"`
	RankWeight      int        `json:"-"` // persisted so upserts can compare tiers in SQL
	DaysSinceJoined int        `json:"daysSinceJoined"`
	FirstTxDate     time.Time  `json:"firstTxDate"`
	FirstTxHash     string     `json:"firstTxHash"`
	BlockNumber     uint64     `json:"blockNumber"`
	TxCount         int        `json:"txCount"`

	// Optional social metadata, attached opportunistically. Never required
	// for ranking.
	Username *string `json:"username,omitempty"`
	PfpURL   *string `json:"pfpUrl,omitempty"`
	FID      *int64  `json:"fid,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CanonicalAddress lowercases an address for use as the natural key.
func CanonicalAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// DisplayName returns the username when set, otherwise a shortened address.
func (p *WalletProfile) DisplayName() string {
	if p.Username != nil && *p.Username != "" {
		return *p.Username
	}
	return ShortAddress(p.Address)
}

// ShortAddress renders an address as 0x1234...abcd for display.
func ShortAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}
