// Package helpers provides shared fixtures for integration and e2e tests.
package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gov-forecast/internal/config"
	"github.com/yourusername/gov-forecast/internal/database"
	"github.com/yourusername/gov-forecast/internal/models"
)

// SetupTestDB connects to the test database and applies the schema.
// Set TEST_DB_HOST etc. to point somewhere other than localhost.
func SetupTestDB(t *testing.T) *database.DB {
	t.Helper()

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Host:               envOr("TEST_DB_HOST", "localhost"),
			Port:               5432,
			Name:               envOr("TEST_DB_NAME", "gov_forecast_test"),
			User:               envOr("TEST_DB_USER", "test"),
			Password:           envOr("TEST_DB_PASSWORD", "test"),
			SSLMode:            "disable",
			MaxConnections:     5,
			MaxIdleConnections: 2,
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db, err := database.Initialize(ctx, cfg)
	require.NoError(t, err, "failed to connect to test database")

	t.Cleanup(func() {
		CleanTables(t, db)
		db.Close(context.Background())
	})

	return db
}

// CleanTables truncates the forecast tables between tests.
func CleanTables(t *testing.T, db *database.DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := db.GetPool().Exec(ctx, "TRUNCATE referenda, predictions")
	require.NoError(t, err, "failed to clean tables")
}

// MakeRecords builds n decided referenda for one track, alternating outcomes
// at the given approval share. Records are ordered oldest first.
func MakeRecords(dao string, n int, executedShare float64) []models.HistoricalRecord {
	records := make([]models.HistoricalRecord, n)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < n; i++ {
		executed := float64(i%10) < executedShare*10
		status := "rejected"
		ayes := decimal.NewFromInt(int64(300 + i))
		if executed {
			status = "executed"
			ayes = decimal.NewFromInt(int64(700 + i))
		}

		records[i] = models.HistoricalRecord{
			ReferendumID:  int64(i + 1),
			DAO:           dao,
			Title:         fmt.Sprintf("Treasury proposal %d", i+1),
			Status:        status,
			DecidedAt:     base.Add(time.Duration(i) * 24 * time.Hour),
			AyesAmount:    ayes,
			TotalVoted:    decimal.NewFromInt(1000),
			Participants:  decimal.NewFromInt(int64(400 + i%50)),
			EligibleStake: decimal.NewFromInt(1000),
			Sentiment:     0.1 * float64(i%5-2),
			Trending:      0.05 * float64(i%3),
		}
	}

	return records
}

// MakeProposalContext builds a populated proposal context map.
func MakeProposalContext() models.Context {
	return models.Context{
		"sentiment_score": 0.4,
		"trend_score":     0.2,
		"source_sentiments": map[string]interface{}{
			"forum": 0.3,
			"news":  0.5,
			"chat":  0.2,
		},
		"engagement_weight": 0.7,
		"proposal_text":     "Increase validator set size and fund tooling grants for the next quarter",
		"sentiment": map[string]interface{}{
			"source":          "forum",
			"message_size_kb": 8.0,
		},
		"trending_topics": []interface{}{"validators", "treasury"},
	}
}

// GovernanceServer serves a fixed set of referenda the way the governance
// API does, with single-page pagination.
func GovernanceServer(t *testing.T, records []models.HistoricalRecord) *httptest.Server {
	t.Helper()

	type apiReferendum struct {
		ReferendumID  int64    `json:"referendumId"`
		Track         string   `json:"track"`
		Title         string   `json:"title"`
		Status        string   `json:"status"`
		DecidedAt     *string  `json:"decidedAt"`
		AyesAmount    string   `json:"ayesAmount"`
		TotalVoted    string   `json:"totalVoted"`
		Participants  string   `json:"participants"`
		EligibleStake string   `json:"eligibleStake"`
		Sentiment     *float64 `json:"sentimentScore"`
	}

	items := make([]apiReferendum, len(records))
	for i, rec := range records {
		decidedAt := rec.DecidedAt.Format(time.RFC3339)
		sentiment := rec.Sentiment
		items[i] = apiReferendum{
			ReferendumID:  rec.ReferendumID,
			Track:         rec.DAO,
			Title:         rec.Title,
			Status:        rec.Status,
			DecidedAt:     &decidedAt,
			AyesAmount:    rec.AyesAmount.String(),
			TotalVoted:    rec.TotalVoted.String(),
			Participants:  rec.Participants.String(),
			EligibleStake: rec.EligibleStake.String(),
			Sentiment:     &sentiment,
		}
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"items":    items,
			"page":     1,
			"pageSize": len(items),
			"total":    len(items),
		})
	}))
}

// TempModelPath returns a model file path inside a per-test temp dir.
func TempModelPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "model.json")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
