package models

import (
	"time"

	"github.com/base-genesis/internal/types"
)

// ScanEvent is one append-only analytics record per completed wallet scan.
// Written best-effort to ClickHouse; never read back on the request path.
type ScanEvent struct {
	ID              string     `json:"id"` // UUID
	Address         string     `json:"address"`
	Rank            types.Rank `json:"rank"`
	TxCount         int        `json:"txCount"`
	DaysSinceJoined int        `json:"daysSinceJoined"`
	ScannedAt       time.Time  `json:"scannedAt"`
}
