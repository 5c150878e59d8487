package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/base-genesis/internal/config"
)

func testConfig(baseURL string, pageSize, maxPages, maxRetries int) *config.ExplorerConfig {
	return &config.ExplorerConfig{
		BaseURL:     baseURL,
		APIKey:      "test-key",
		PageSize:    pageSize,
		MaxPages:    maxPages,
		PageTimeout: 5 * time.Second,
		MaxRetries:  maxRetries,
	}
}

func txRecord(i int) map[string]string {
	return map[string]string{
		"hash":        fmt.Sprintf("0xhash%d", i),
		"blockNumber": strconv.Itoa(1000 + i),
		"timeStamp":   strconv.Itoa(1691539200 + i*60),
		"from":        "0xFrom",
		"to":          "0xTo",
	}
}

func writeResult(w http.ResponseWriter, records []map[string]string) {
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "1",
		"message": "OK",
		"result":  records,
	})
}

func TestFetchTransactionHistorySinglePage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("sort"); got != "asc" {
			t.Errorf("sort = %q, want asc", got)
		}
		writeResult(w, []map[string]string{txRecord(1), txRecord(2)})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, 5, 10, 0))

	txs, err := client.FetchTransactionHistory(context.Background(), "0xabc")
	if err != nil {
		t.Fatalf("FetchTransactionHistory() error = %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("len(txs) = %d, want 2", len(txs))
	}
	if txs[0].Hash != "0xhash1" || txs[0].BlockNumber != 1001 {
		t.Errorf("first tx = %+v, want hash 0xhash1 block 1001", txs[0])
	}
	if txs[0].From != "0xfrom" {
		t.Errorf("from = %q, want lowercased 0xfrom", txs[0].From)
	}
}

func TestFetchTransactionHistoryPaginates(t *testing.T) {
	const pageSize = 3
	requests := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))

		switch page {
		case 1:
			writeResult(w, []map[string]string{txRecord(1), txRecord(2), txRecord(3)})
		case 2:
			// Short page ends the history.
			writeResult(w, []map[string]string{txRecord(4)})
		default:
			t.Errorf("unexpected page request: %d", page)
			writeResult(w, nil)
		}
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, pageSize, 10, 0))

	txs, err := client.FetchTransactionHistory(context.Background(), "0xabc")
	if err != nil {
		t.Fatalf("FetchTransactionHistory() error = %v", err)
	}
	if len(txs) != 4 {
		t.Fatalf("len(txs) = %d, want 4", len(txs))
	}
	if requests != 2 {
		t.Errorf("requests = %d, want 2 (stop on short page)", requests)
	}
	// Page order preserves ascending chronology.
	for i := 1; i < len(txs); i++ {
		if txs[i].Timestamp < txs[i-1].Timestamp {
			t.Errorf("transactions out of order at index %d", i)
		}
	}
}

func TestFetchTransactionHistoryStopsAtMaxPages(t *testing.T) {
	const pageSize = 2
	requests := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		// Always a full page: only the page cap stops the fetch.
		writeResult(w, []map[string]string{txRecord(requests * 2), txRecord(requests*2 + 1)})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, pageSize, 3, 0))

	txs, err := client.FetchTransactionHistory(context.Background(), "0xabc")
	if err != nil {
		t.Fatalf("FetchTransactionHistory() error = %v", err)
	}
	if requests != 3 {
		t.Errorf("requests = %d, want 3 (max pages)", requests)
	}
	if len(txs) != 6 {
		t.Errorf("len(txs) = %d, want 6 (capped at maxPages*pageSize)", len(txs))
	}
}

func TestFetchTransactionHistoryNoTransactions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "0",
			"message": "No transactions found",
			"result":  []interface{}{},
		})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, 1000, 10, 0))

	txs, err := client.FetchTransactionHistory(context.Background(), "0xabc")
	if err != nil {
		t.Fatalf("FetchTransactionHistory() error = %v, want nil for empty history", err)
	}
	if len(txs) != 0 {
		t.Errorf("len(txs) = %d, want 0", len(txs))
	}
}

func TestFetchTransactionHistoryStringResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "1",
			"message": "OK",
			"result":  "no records",
		})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, 1000, 10, 0))

	txs, err := client.FetchTransactionHistory(context.Background(), "0xabc")
	if err != nil {
		t.Fatalf("FetchTransactionHistory() error = %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("len(txs) = %d, want 0 for string result", len(txs))
	}
}

func TestFetchTransactionHistoryFirstPageFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, 1000, 10, 0))

	// A dead upstream on page 1 degrades to "no history", not an error.
	txs, err := client.FetchTransactionHistory(context.Background(), "0xabc")
	if err != nil {
		t.Fatalf("FetchTransactionHistory() error = %v, want graceful empty result", err)
	}
	if len(txs) != 0 {
		t.Errorf("len(txs) = %d, want 0", len(txs))
	}
}

func TestFetchTransactionHistoryTruncatesOnLaterPageFailure(t *testing.T) {
	const pageSize = 2

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page == 1 {
			writeResult(w, []map[string]string{txRecord(1), txRecord(2)})
			return
		}
		http.Error(w, "upstream down", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, pageSize, 10, 0))

	txs, err := client.FetchTransactionHistory(context.Background(), "0xabc")
	if err != nil {
		t.Fatalf("FetchTransactionHistory() error = %v, want truncated result", err)
	}
	if len(txs) != 2 {
		t.Errorf("len(txs) = %d, want 2 (page 1 kept, page 2 truncated)", len(txs))
	}
}

func TestFetchTransactionHistoryRetriesMalformedResponse(t *testing.T) {
	requests := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			fmt.Fprint(w, "<html>not json</html>")
			return
		}
		writeResult(w, []map[string]string{txRecord(1)})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, 1000, 10, 1))

	txs, err := client.FetchTransactionHistory(context.Background(), "0xabc")
	if err != nil {
		t.Fatalf("FetchTransactionHistory() error = %v", err)
	}
	if requests != 2 {
		t.Errorf("requests = %d, want 2 (one retry after malformed body)", requests)
	}
	if len(txs) != 1 {
		t.Errorf("len(txs) = %d, want 1", len(txs))
	}
}
