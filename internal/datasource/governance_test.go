package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func testHTTPClient() *RateLimitedHTTPClient {
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	return NewRateLimitedHTTPClient(cfg, quietLogger())
}

func referendumJSON(id int64) map[string]interface{} {
	return map[string]interface{}{
		"referendumId":  id,
		"track":         "treasury",
		"title":         fmt.Sprintf("Referendum %d", id),
		"status":        "executed",
		"decidedAt":     "2025-05-01T00:00:00Z",
		"ayesAmount":    "600000000000",
		"totalVoted":    "1000000000000",
		"participants":  "400000000000",
		"eligibleStake": "1000000000000",
	}
}

func TestFetchReferendaPagination(t *testing.T) {
	const total = 5
	var requests []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.RawQuery)
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

		items := []map[string]interface{}{}
		start := (page - 1) * pageSize
		for i := start; i < start+pageSize && i < total; i++ {
			items = append(items, referendumJSON(int64(i+1)))
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"items":    items,
			"page":     page,
			"pageSize": pageSize,
			"total":    total,
		})
	}))
	defer server.Close()

	client := NewGovernanceAPIClient(testHTTPClient(), server.URL, "", 2, true, quietLogger())

	referenda, err := client.FetchReferenda(context.Background(), time.Time{}, time.Now())
	require.NoError(t, err)
	require.Len(t, referenda, total)
	assert.Len(t, requests, 3)
	assert.Equal(t, int64(1), referenda[0].ReferendumID)
	assert.Equal(t, int64(5), referenda[4].ReferendumID)
	assert.Equal(t, "treasury", referenda[0].DAO)
}

func TestFetchReferendaDisabled(t *testing.T) {
	client := NewGovernanceAPIClient(testHTTPClient(), "http://unused", "", 10, false, quietLogger())

	_, err := client.FetchReferenda(context.Background(), time.Time{}, time.Now())
	var dsErr DataSourceError
	require.ErrorAs(t, err, &dsErr)
	assert.Equal(t, ErrCodeNetworkError, dsErr.Code)
}

func TestFetchReferendumDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/referenda/42", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(referendumJSON(42))
	}))
	defer server.Close()

	client := NewGovernanceAPIClient(testHTTPClient(), server.URL, "test-key", 10, true, quietLogger())

	data, err := client.FetchReferendumDetails(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), data.ReferendumID)
	assert.Equal(t, "executed", data.Status)
	require.NotNil(t, data.DecidedAt)
	assert.Equal(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), data.DecidedAt.UTC())
}

func TestGovernanceClientStatusCodes(t *testing.T) {
	tests := []struct {
		status   int
		wantCode string
	}{
		{status: http.StatusUnauthorized, wantCode: ErrCodeAuthenticationFailed},
		{status: http.StatusTooManyRequests, wantCode: ErrCodeRateLimitExceeded},
		{status: http.StatusNotFound, wantCode: ErrCodeNotFound},
		{status: http.StatusConflict, wantCode: ErrCodeServerError},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewGovernanceAPIClient(testHTTPClient(), server.URL, "", 10, true, quietLogger())
			_, err := client.FetchReferendumDetails(context.Background(), 1)

			var dsErr DataSourceError
			require.ErrorAs(t, err, &dsErr)
			assert.Equal(t, tt.wantCode, dsErr.Code)
		})
	}
}

func TestGovernanceClientMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer server.Close()

	client := NewGovernanceAPIClient(testHTTPClient(), server.URL, "", 10, true, quietLogger())
	_, err := client.FetchReferendumDetails(context.Background(), 1)

	var dsErr DataSourceError
	require.ErrorAs(t, err, &dsErr)
	assert.Equal(t, ErrCodeInvalidData, dsErr.Code)
}

func TestToRecord(t *testing.T) {
	decided := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	data := ReferendumData{
		ReferendumID:  7,
		DAO:           "treasury",
		Title:         "Spend proposal",
		Status:        "executed",
		DecidedAt:     &decided,
		AyesAmount:    "600",
		TotalVoted:    "1000",
		Participants:  "400",
		EligibleStake: "1000",
		Sentiment:     0.3,
	}

	rec := data.ToRecord()
	assert.Equal(t, int64(7), rec.ReferendumID)
	assert.Equal(t, decided, rec.DecidedAt)
	assert.True(t, rec.AyesAmount.Equal(decimal.NewFromInt(600)))
	assert.InDelta(t, 0.6, rec.ApprovalRate(), 1e-12)
	assert.Equal(t, 0.3, rec.Sentiment)
}

func TestToRecordUnparseableAmountsBecomeZero(t *testing.T) {
	data := ReferendumData{
		ReferendumID: 8,
		Status:       "rejected",
		AyesAmount:   "not-a-number",
		TotalVoted:   "",
		FetchedAt:    time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC),
	}

	rec := data.ToRecord()
	assert.True(t, rec.AyesAmount.IsZero())
	assert.True(t, rec.TotalVoted.IsZero())
	// No decision time recorded: fall back to the fetch time.
	assert.Equal(t, data.FetchedAt, rec.DecidedAt)
}

func TestCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	cfg.CircuitBreakerMax = 2
	client := NewRateLimitedHTTPClient(cfg, quietLogger())

	// The target port is closed, so every request fails at the dial.
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := dead.URL
	dead.Close()

	ctx := context.Background()
	_, err := client.Get(ctx, deadURL)
	require.Error(t, err)
	_, err = client.Get(ctx, deadURL)
	require.Error(t, err)

	_, err = client.Get(ctx, deadURL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker open")
}

// One client is shared between the scheduler and the stream collector, so the
// breaker state must hold up under concurrent callers. Run with -race.
func TestCircuitBreakerConcurrentCallers(t *testing.T) {
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 10000
	cfg.CircuitBreakerMax = 3
	client := NewRateLimitedHTTPClient(cfg, quietLogger())

	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := dead.URL
	dead.Close()

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 4; j++ {
				_, err := client.Get(ctx, deadURL)
				assert.Error(t, err)
			}
		}()
	}
	wg.Wait()

	_, err := client.Get(ctx, deadURL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker open")
}
