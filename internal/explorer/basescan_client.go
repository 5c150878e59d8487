// Package explorer provides the block-explorer client that fetches a wallet's
// transaction history from a Basescan-compatible API.
package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/base-genesis/internal/config"
	"github.com/base-genesis/internal/logging"
	"github.com/base-genesis/internal/retry"
	"github.com/base-genesis/internal/types"
)

// Client fetches transaction history from a Basescan-compatible explorer API.
// Pages are requested sequentially in ascending block order so the first record
// of page 1 is the wallet's chronologically earliest transaction.
type Client struct {
	apiKey      string
	baseURL     string
	pageSize    int
	maxPages    int
	pageTimeout time.Duration
	retryCfg    *retry.Config
	client      *http.Client
	rateLimiter *rateLimiter // free tier allows 5 req/sec
}

// rateLimiter implements a simple token bucket rate limiter
type rateLimiter struct {
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	mu         sync.Mutex
}

func newRateLimiter(requestsPerSecond float64) *rateLimiter {
	return &rateLimiter{
		tokens:     requestsPerSecond, // start full
		maxTokens:  requestsPerSecond,
		refillRate: requestsPerSecond,
		lastRefill: time.Now(),
	}
}

func (r *rateLimiter) wait() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(r.lastRefill).Seconds()
	r.tokens += elapsed * r.refillRate
	if r.tokens > r.maxTokens {
		r.tokens = r.maxTokens
	}
	r.lastRefill = now

	if r.tokens < 1 {
		waitTime := time.Duration((1 - r.tokens) / r.refillRate * float64(time.Second))
		r.mu.Unlock()
		time.Sleep(waitTime)
		r.mu.Lock()
		r.tokens = 0
		r.lastRefill = time.Now()
	} else {
		r.tokens--
	}
}

// rawTransaction is a transaction record as Basescan returns it: all numeric
// fields arrive as decimal strings.
type rawTransaction struct {
	Hash        string `json:"hash"`
	BlockNumber string `json:"blockNumber"`
	TimeStamp   string `json:"timeStamp"`
	From        string `json:"from"`
	To          string `json:"to"`
}

// rawResponse is the explorer API envelope. Result is kept raw because the API
// returns a string instead of an array on some empty/error responses.
type rawResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// NewClient creates a new explorer client from configuration.
func NewClient(cfg *config.ExplorerConfig) *Client {
	const requestsPerSecond = 5.0

	return &Client{
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		pageSize:    cfg.PageSize,
		maxPages:    cfg.MaxPages,
		pageTimeout: cfg.PageTimeout,
		retryCfg: &retry.Config{
			MaxAttempts:  cfg.MaxRetries + 1,
			InitialDelay: 1 * time.Second,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
		},
		client:      &http.Client{Timeout: cfg.PageTimeout},
		rateLimiter: newRateLimiter(requestsPerSecond),
	}
}

// FetchTransactionHistory fetches the wallet's transaction history in ascending
// order, up to maxPages*pageSize records.
//
// Pages are fetched strictly one at a time. A page that keeps failing after its
// retry budget truncates the history at the records fetched so far rather than
// failing the whole scan; if page 1 itself fails or is empty, the result is an
// empty list, which the caller must treat as "no history found".
func (c *Client) FetchTransactionHistory(ctx context.Context, address string) ([]*types.GenesisTransaction, error) {
	logger := logging.FromContext(ctx)

	var all []*types.GenesisTransaction

	for page := 1; page <= c.maxPages; page++ {
		var pageTxs []*types.GenesisTransaction

		err := retry.Do(ctx, c.retryCfg, func(ctx context.Context, attempt int) error {
			txs, err := c.fetchPage(ctx, address, page)
			if err != nil {
				return err
			}
			pageTxs = txs
			return nil
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("fetch cancelled: %w", ctx.Err())
			}
			if page == 1 {
				// No data at all; the caller reports this as "no history".
				logger.WithFields(map[string]interface{}{
					"address": address,
					"error":   err.Error(),
				}).Warn("First page fetch failed, treating as no history")
				return []*types.GenesisTransaction{}, nil
			}
			// Graceful truncation: partial results beat total failure.
			logger.WithFields(map[string]interface{}{
				"address": address,
				"page":    page,
				"fetched": len(all),
				"error":   err.Error(),
			}).Warn("Page fetch failed after retries, truncating history")
			break
		}

		all = append(all, pageTxs...)

		// A short page means end of history.
		if len(pageTxs) < c.pageSize {
			break
		}
	}

	logger.WithFields(map[string]interface{}{
		"address": address,
		"txCount": len(all),
	}).Debug("Fetched transaction history")

	return all, nil
}

// fetchPage fetches a single page of normal transactions, ascending.
func (c *Client) fetchPage(ctx context.Context, address string, page int) ([]*types.GenesisTransaction, error) {
	// Per-page timeout so a stalled upstream can't hold the whole scan.
	ctx, cancel := context.WithTimeout(ctx, c.pageTimeout)
	defer cancel()

	c.rateLimiter.wait()

	url := fmt.Sprintf("%s?module=account&action=txlist&address=%s&page=%d&offset=%d&sort=asc&apikey=%s",
		c.baseURL, address, page, c.pageSize, c.apiKey)

	body, err := c.doRequest(ctx, url)
	if err != nil {
		return nil, err
	}

	var resp rawResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		// Malformed responses are handled like transient failures: the retry
		// budget for this page covers them, since the upstream does not
		// disambiguate a truncated proxy response from a real outage.
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status != "1" {
		if resp.Message == "No transactions found" || resp.Message == "No records found" {
			return []*types.GenesisTransaction{}, nil
		}
		if resp.Message == "NOTOK" && strings.Contains(string(resp.Result), "No record") {
			return []*types.GenesisTransaction{}, nil
		}
		return nil, fmt.Errorf("explorer API error: %s", resp.Message)
	}

	// Some empty responses come back with a string result instead of an array.
	if len(resp.Result) > 0 && resp.Result[0] == '"' {
		return []*types.GenesisTransaction{}, nil
	}

	var txList []rawTransaction
	if err := json.Unmarshal(resp.Result, &txList); err != nil {
		return nil, fmt.Errorf("failed to parse transactions: %w", err)
	}

	transactions := make([]*types.GenesisTransaction, 0, len(txList))
	for _, tx := range txList {
		transactions = append(transactions, convertTransaction(tx))
	}

	return transactions, nil
}

// doRequest performs a single HTTP request and returns the response body.
// Retries live above this in the per-page retry wrapper.
func (c *Client) doRequest(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("rate limited (429)")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d - %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// convertTransaction converts a raw explorer record to a GenesisTransaction
func convertTransaction(tx rawTransaction) *types.GenesisTransaction {
	blockNum, _ := strconv.ParseUint(tx.BlockNumber, 10, 64)
	timestamp, _ := strconv.ParseInt(tx.TimeStamp, 10, 64)

	return &types.GenesisTransaction{
		Hash:        tx.Hash,
		BlockNumber: blockNum,
		Timestamp:   timestamp,
		From:        strings.ToLower(tx.From),
		To:          strings.ToLower(tx.To),
	}
}
