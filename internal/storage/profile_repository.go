package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/base-genesis/internal/models"
	"github.com/jackc/pgx/v5"
)

// ProfileRepository handles wallet profile persistence. One row per address,
// keyed by the lowercased address.
type ProfileRepository struct {
	db *PostgresDB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *PostgresDB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Upsert inserts or updates a wallet profile. The upsert is idempotent:
// replaying the same scan result never creates a duplicate row. The rank is
// never decreased on update; the stored rank only changes when the incoming
// tier weight is at least as high.
func (r *ProfileRepository) Upsert(ctx context.Context, profile *models.WalletProfile) error {
	profile.Address = models.CanonicalAddress(profile.Address)
	profile.RankWeight = profile.Rank.Weight()

	now := time.Now().UTC()
	profile.UpdatedAt = now

	query := `
		INSERT INTO wallet_profiles (
			address, rank, rank_weight, days_since_joined,
			first_tx_date, first_tx_hash, block_number, tx_count,
			username, pfp_url, fid, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
		ON CONFLICT (address) DO UPDATE SET
			rank = CASE
				WHEN EXCLUDED.rank_weight >= wallet_profiles.rank_weight THEN EXCLUDED.rank
				ELSE wallet_profiles.rank
			END,
			rank_weight = GREATEST(EXCLUDED.rank_weight, wallet_profiles.rank_weight),
			days_since_joined = EXCLUDED.days_since_joined,
			first_tx_date = EXCLUDED.first_tx_date,
			first_tx_hash = EXCLUDED.first_tx_hash,
			block_number = EXCLUDED.block_number,
			tx_count = EXCLUDED.tx_count,
			username = COALESCE(EXCLUDED.username, wallet_profiles.username),
			pfp_url = COALESCE(EXCLUDED.pfp_url, wallet_profiles.pfp_url),
			fid = COALESCE(EXCLUDED.fid, wallet_profiles.fid),
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Pool().Exec(ctx, query,
		profile.Address,
		profile.Rank,
		profile.RankWeight,
		profile.DaysSinceJoined,
		profile.FirstTxDate,
		profile.FirstTxHash,
		profile.BlockNumber,
		profile.TxCount,
		profile.Username,
		profile.PfpURL,
		profile.FID,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert wallet profile: %w", err)
	}

	return nil
}

// GetByAddress retrieves a wallet profile by address. Returns (nil, nil) when
// no profile exists.
func (r *ProfileRepository) GetByAddress(ctx context.Context, address string) (*models.WalletProfile, error) {
	query := profileSelect + ` WHERE address = $1`

	row := r.db.Pool().QueryRow(ctx, query, models.CanonicalAddress(address))
	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get wallet profile: %w", err)
	}

	return profile, nil
}

// ReadTopN returns the top-n profiles ordered by tenure. The stored
// days_since_joined is a snapshot from each profile's last scan, so values from
// different scan dates are not comparable; ordering by first_tx_date ascending
// is equivalent to current tenure descending and never goes stale. Tie-breaks
// match the in-memory ranker: tier weight descending, then insertion order so
// repeated reads are stable.
func (r *ProfileRepository) ReadTopN(ctx context.Context, n int) ([]*models.WalletProfile, error) {
	query := profileSelect + `
		ORDER BY first_tx_date ASC, rank_weight DESC, created_at ASC, address ASC
		LIMIT $1`

	rows, err := r.db.Pool().Query(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("failed to read top profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.WalletProfile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallet profile: %w", err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wallet profiles: %w", err)
	}

	return profiles, nil
}

// Count returns the total number of wallet profiles.
func (r *ProfileRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.Pool().QueryRow(ctx, `SELECT COUNT(*) FROM wallet_profiles`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count wallet profiles: %w", err)
	}
	return count, nil
}

const profileSelect = `
	SELECT address, rank, rank_weight, days_since_joined,
	       first_tx_date, first_tx_hash, block_number, tx_count,
	       username, pfp_url, fid, created_at, updated_at
	FROM wallet_profiles`

// scanProfile scans one profile row from either a Row or Rows.
func scanProfile(row pgx.Row) (*models.WalletProfile, error) {
	var p models.WalletProfile
	var blockNumber int64

	err := row.Scan(
		&p.Address,
		&p.Rank,
		&p.RankWeight,
		&p.DaysSinceJoined,
		&p.FirstTxDate,
		&p.FirstTxHash,
		&blockNumber,
		&p.TxCount,
		&p.Username,
		&p.PfpURL,
		&p.FID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.BlockNumber = uint64(blockNumber) // #nosec G115 - block heights fit in int64
	return &p, nil
}
