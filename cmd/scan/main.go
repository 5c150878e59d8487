// Package main provides a one-shot CLI scan for a single wallet address.
// It computes the rank and badges in memory without touching any store.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/base-genesis/internal/config"
	"github.com/base-genesis/internal/explorer"
	"github.com/base-genesis/internal/genesis"
	"github.com/base-genesis/internal/models"
	"github.com/ethereum/go-ethereum/common"
)

func main() {
	address := flag.String("address", "", "Wallet address to scan")
	flag.Parse()

	if *address == "" {
		log.Fatal("usage: scan -address 0x...")
	}
	if !common.IsHexAddress(*address) {
		log.Fatalf("invalid address format: %s", *address)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	client := explorer.NewClient(&cfg.Explorer)
	classifier := genesis.NewClassifierFromConfig(&cfg.Genesis)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	addr := models.CanonicalAddress(*address)
	txs, err := client.FetchTransactionHistory(ctx, addr)
	if err != nil {
		log.Fatalf("Fetch failed: %v", err)
	}
	if len(txs) == 0 {
		fmt.Printf("No transaction history found for %s\n", addr)
		return
	}

	first := txs[0]
	now := time.Now().UTC()
	rank := classifier.Classify(addr, first.Time())
	days := genesis.DaysSinceJoined(first.Time(), now)

	achievements := genesis.EvaluateAchievements(genesis.AchievementInput{
		Rank:            rank,
		TxCount:         len(txs),
		DaysSinceJoined: days,
		BlockNumber:     first.BlockNumber,
	})

	fmt.Printf("Address:      %s\n", addr)
	fmt.Printf("Rank:         %s\n", rank)
	fmt.Printf("First tx:     %s (block %d)\n", first.Time().Format(time.RFC3339), first.BlockNumber)
	fmt.Printf("First hash:   %s\n", first.Hash)
	fmt.Printf("Tx count:     %d\n", len(txs))
	fmt.Printf("Days on Base: %d\n", days)
	fmt.Println("Badges:")
	for _, a := range achievements {
		state := " "
		if a.Unlocked {
			state = "x"
		}
		fmt.Printf("  [%s] %s\n", state, a.ID)
	}
}
