package storage

import (
	"context"
	"fmt"

	"github.com/base-genesis/internal/models"
	"github.com/google/uuid"
)

// ScanEventRepository appends scan analytics events to ClickHouse.
// Writes are best-effort; a failure here never fails a scan.
type ScanEventRepository struct {
	db *ClickHouseDB
}

// NewScanEventRepository creates a new scan event repository
func NewScanEventRepository(db *ClickHouseDB) *ScanEventRepository {
	return &ScanEventRepository{db: db}
}

// Insert appends one scan event.
func (r *ScanEventRepository) Insert(ctx context.Context, event *models.ScanEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	query := `
		INSERT INTO scan_events (id, address, rank, tx_count, days_since_joined, scanned_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	err := r.db.Conn().Exec(ctx, query,
		event.ID,
		models.CanonicalAddress(event.Address),
		string(event.Rank),
		uint32(event.TxCount),          // #nosec G115 - tx count is capped by pagination
		uint32(event.DaysSinceJoined),  // #nosec G115 - bounded by calendar time
		event.ScannedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert scan event: %w", err)
	}

	return nil
}

// CountByAddress returns how many times an address has been scanned.
func (r *ScanEventRepository) CountByAddress(ctx context.Context, address string) (uint64, error) {
	var count uint64
	query := `SELECT count() FROM scan_events WHERE address = ?`

	row := r.db.Conn().QueryRow(ctx, query, models.CanonicalAddress(address))
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count scan events: %w", err)
	}

	return count, nil
}
