// Package service implements the genesis scan and leaderboard use cases.
package service

import (
	"context"
	"time"

	"github.com/base-genesis/internal/errors"
	"github.com/base-genesis/internal/genesis"
	"github.com/base-genesis/internal/logging"
	"github.com/base-genesis/internal/models"
	"github.com/base-genesis/internal/types"
	"github.com/ethereum/go-ethereum/common"
)

// TransactionFetcher fetches a wallet's transaction history, ascending.
type TransactionFetcher interface {
	FetchTransactionHistory(ctx context.Context, address string) ([]*types.GenesisTransaction, error)
}

// ProfileStore persists wallet profiles.
type ProfileStore interface {
	Upsert(ctx context.Context, profile *models.WalletProfile) error
	GetByAddress(ctx context.Context, address string) (*models.WalletProfile, error)
}

// EventSink records scan analytics events and answers how often an address has
// been scanned.
type EventSink interface {
	Insert(ctx context.Context, event *models.ScanEvent) error
	CountByAddress(ctx context.Context, address string) (uint64, error)
}

// ScanService orchestrates one wallet scan: fetch history, classify, evaluate
// achievements, persist. Classification and achievements are computed purely
// in memory, so persistence is an enrichment step: a store outage downgrades
// the result to Persisted=false instead of failing the scan.
type ScanService struct {
	fetcher    TransactionFetcher
	classifier *genesis.Classifier
	profiles   ProfileStore
	events     EventSink // optional
	now        func() time.Time
}

// NewScanService creates a new scan service. events may be nil when ClickHouse
// is not configured.
func NewScanService(fetcher TransactionFetcher, classifier *genesis.Classifier, profiles ProfileStore, events EventSink) *ScanService {
	return &ScanService{
		fetcher:    fetcher,
		classifier: classifier,
		profiles:   profiles,
		events:     events,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Scan runs a full genesis scan for one address.
//
// Returns NewInvalidAddressError for malformed input (rejected before any
// network call) and NewNoHistoryError when the wallet has no transactions;
// the latter is a user-facing outcome, not a failure.
func (s *ScanService) Scan(ctx context.Context, address string) (*types.UserGenesisData, error) {
	logger := logging.FromContext(ctx)

	if !common.IsHexAddress(address) {
		return nil, errors.NewInvalidAddressError(address)
	}
	address = models.CanonicalAddress(address)

	txs, err := s.fetcher.FetchTransactionHistory(ctx, address)
	if err != nil {
		return nil, errors.NewProviderError("transaction history fetch", err)
	}
	if len(txs) == 0 {
		return nil, errors.NewNoHistoryError(address)
	}

	// Pages arrive in ascending order, so the first record is the genesis
	// transaction.
	first := txs[0]
	now := s.now()

	rank := s.classifier.Classify(address, first.Time())
	daysSinceJoined := genesis.DaysSinceJoined(first.Time(), now)

	achievements := genesis.EvaluateAchievements(genesis.AchievementInput{
		Rank:            rank,
		TxCount:         len(txs),
		DaysSinceJoined: daysSinceJoined,
		BlockNumber:     first.BlockNumber,
	})

	data := &types.UserGenesisData{
		Address:         address,
		Rank:            rank,
		FirstTxDate:     first.Time(),
		FirstTxHash:     first.Hash,
		BlockNumber:     first.BlockNumber,
		TxCount:         len(txs),
		DaysSinceJoined: daysSinceJoined,
		Achievements:    achievements,
		Persisted:       true,
	}

	profile := &models.WalletProfile{
		Address:         address,
		Rank:            rank,
		DaysSinceJoined: daysSinceJoined,
		FirstTxDate:     first.Time(),
		FirstTxHash:     first.Hash,
		BlockNumber:     first.BlockNumber,
		TxCount:         len(txs),
	}

	if err := s.profiles.Upsert(ctx, profile); err != nil {
		// Store unavailable: the computed result is still correct and must
		// reach the caller.
		logger.WithFields(map[string]interface{}{
			"address": address,
			"error":   err.Error(),
		}).Error("Failed to persist wallet profile, returning unpersisted result")
		data.Persisted = false
	}

	s.recordScanEvent(ctx, data)

	// Scan-count enrichment, best-effort: omitted when analytics are down.
	if s.events != nil {
		if count, err := s.events.CountByAddress(ctx, address); err == nil {
			data.ScanCount = count
		}
	}

	logger.WithFields(map[string]interface{}{
		"address":   address,
		"rank":      rank,
		"txCount":   len(txs),
		"persisted": data.Persisted,
		"badges":    genesis.UnlockedBadges(achievements),
	}).Info("Wallet scan completed")

	return data, nil
}

// GetProfile returns the stored profile for an address with daysSinceJoined
// recomputed and achievements derived fresh.
func (s *ScanService) GetProfile(ctx context.Context, address string) (*types.UserGenesisData, error) {
	if !common.IsHexAddress(address) {
		return nil, errors.NewInvalidAddressError(address)
	}
	address = models.CanonicalAddress(address)

	profile, err := s.profiles.GetByAddress(ctx, address)
	if err != nil {
		return nil, errors.NewDatabaseError("profile read", err)
	}
	if profile == nil {
		return nil, errors.NewProfileNotFoundError(address)
	}

	daysSinceJoined := genesis.DaysSinceJoined(profile.FirstTxDate, s.now())

	return &types.UserGenesisData{
		Address:         profile.Address,
		Rank:            profile.Rank,
		FirstTxDate:     profile.FirstTxDate,
		FirstTxHash:     profile.FirstTxHash,
		BlockNumber:     profile.BlockNumber,
		TxCount:         profile.TxCount,
		DaysSinceJoined: daysSinceJoined,
		Achievements: genesis.EvaluateAchievements(genesis.AchievementInput{
			Rank:            profile.Rank,
			TxCount:         profile.TxCount,
			DaysSinceJoined: daysSinceJoined,
			BlockNumber:     profile.BlockNumber,
		}),
		Persisted: true,
	}, nil
}

// recordScanEvent appends an analytics event, best-effort.
func (s *ScanService) recordScanEvent(ctx context.Context, data *types.UserGenesisData) {
	if s.events == nil {
		return
	}

	event := &models.ScanEvent{
		Address:         data.Address,
		Rank:            data.Rank,
		TxCount:         data.TxCount,
		DaysSinceJoined: data.DaysSinceJoined,
		ScannedAt:       s.now(),
	}

	if err := s.events.Insert(ctx, event); err != nil {
		logging.FromContext(ctx).WithFields(map[string]interface{}{
			"address": data.Address,
			"error":   err.Error(),
		}).Warn("Failed to record scan event")
	}
}
