package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/gov-forecast/internal/models"
)

// GovernanceAPIClient implements GovernanceSource for an OpenGov-style
// governance API that serves decided referenda in pages.
type GovernanceAPIClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	pageSize   int
	enabled    bool
	logger     *log.Logger
}

// governanceReferendum represents a referendum from the governance API.
// Stake tallies arrive as decimal strings so planck values survive intact.
type governanceReferendum struct {
	ReferendumID  int64   `json:"referendumId"`
	Track         string  `json:"track"`
	Title         string  `json:"title"`
	Status        string  `json:"status"`
	DecidedAt     *string `json:"decidedAt"`
	AyesAmount    string  `json:"ayesAmount"`
	TotalVoted    string  `json:"totalVoted"`
	Participants  string  `json:"participants"`
	EligibleStake string  `json:"eligibleStake"`

	Sentiment           *float64 `json:"sentimentScore"`
	Trending            *float64 `json:"trendScore"`
	SourceSentimentAvg  *float64 `json:"sourceSentimentAvg"`
	CommentTurnoutTrend *float64 `json:"commentTurnoutTrend"`
}

// governancePage is one page of the referenda listing endpoint
type governancePage struct {
	Items    []governanceReferendum `json:"items"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"pageSize"`
	Total    int                    `json:"total"`
}

// NewGovernanceAPIClient creates a new governance API client
func NewGovernanceAPIClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, pageSize int, enabled bool, logger *log.Logger) *GovernanceAPIClient {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &GovernanceAPIClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		pageSize:   pageSize,
		enabled:    enabled,
		logger:     logger,
	}
}

// Name returns the name of the data source
func (c *GovernanceAPIClient) Name() string {
	return "governance_api"
}

// IsEnabled returns whether this data source is currently enabled
func (c *GovernanceAPIClient) IsEnabled() bool {
	return c.enabled
}

// FetchReferenda retrieves decided referenda within the specified time range,
// following pagination until the API reports no further items.
func (c *GovernanceAPIClient) FetchReferenda(ctx context.Context, start, end time.Time) ([]ReferendumData, error) {
	if !c.enabled {
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, "data source is disabled", nil)
	}

	var all []ReferendumData
	page := 1
	for {
		url := fmt.Sprintf("%s/referenda?from=%s&to=%s&page=%d&pageSize=%d",
			c.baseURL, start.Format(time.RFC3339), end.Format(time.RFC3339), page, c.pageSize)

		batch, total, err := c.fetchPage(ctx, url)
		if err != nil {
			return nil, err
		}

		all = append(all, batch...)
		if len(batch) == 0 || len(all) >= total {
			break
		}
		page++
	}

	return all, nil
}

// FetchReferendumDetails retrieves detailed information for a specific referendum
func (c *GovernanceAPIClient) FetchReferendumDetails(ctx context.Context, referendumID int64) (*ReferendumData, error) {
	if !c.enabled {
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, "data source is disabled", nil)
	}

	url := fmt.Sprintf("%s/referenda/%d", c.baseURL, referendumID)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var ref governanceReferendum
	if err := json.Unmarshal(body, &ref); err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeInvalidData, "failed to parse response", err)
	}

	data := c.convert(ref)
	return &data, nil
}

func (c *GovernanceAPIClient) fetchPage(ctx context.Context, url string) ([]ReferendumData, int, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, 0, err
	}

	var page governancePage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, 0, NewDataSourceError(c.Name(), ErrCodeInvalidData, "failed to parse response", err)
	}

	items := make([]ReferendumData, len(page.Items))
	for i, ref := range page.Items {
		items[i] = c.convert(ref)
	}

	return items, page.Total, nil
}

func (c *GovernanceAPIClient) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, "failed to create request", err)
	}

	if c.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, NewDataSourceError(c.Name(), ErrCodeAuthenticationFailed, "invalid API key", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, NewDataSourceError(c.Name(), ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case resp.StatusCode == http.StatusNotFound:
		return nil, NewDataSourceError(c.Name(), ErrCodeNotFound, "not found", nil)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return nil, NewDataSourceError(c.Name(), ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewDataSourceError(c.Name(), ErrCodeNetworkError, "failed to read response", err)
	}

	return body, nil
}

func (c *GovernanceAPIClient) convert(ref governanceReferendum) ReferendumData {
	data := ReferendumData{
		ReferendumID:  ref.ReferendumID,
		DAO:           ref.Track,
		Title:         ref.Title,
		Status:        ref.Status,
		AyesAmount:    ref.AyesAmount,
		TotalVoted:    ref.TotalVoted,
		Participants:  ref.Participants,
		EligibleStake: ref.EligibleStake,
		FetchedAt:     time.Now().UTC(),
	}

	if ref.DecidedAt != nil {
		if t, err := time.Parse(time.RFC3339, *ref.DecidedAt); err == nil {
			data.DecidedAt = &t
		} else {
			c.logger.Printf("unparseable decidedAt %q for referendum %d", *ref.DecidedAt, ref.ReferendumID)
		}
	}

	if ref.Sentiment != nil {
		data.Sentiment = *ref.Sentiment
	}
	if ref.Trending != nil {
		data.Trending = *ref.Trending
	}
	if ref.SourceSentimentAvg != nil {
		data.SourceSentimentAvg = *ref.SourceSentimentAvg
	}
	if ref.CommentTurnoutTrend != nil {
		data.CommentTurnoutTrend = *ref.CommentTurnoutTrend
	}

	return data
}

// ToRecord converts normalized referendum data into a stored historical
// record. Unparseable token amounts become zero rather than failing the
// batch; a referendum without a decision time uses the fetch time.
func (d ReferendumData) ToRecord() models.HistoricalRecord {
	rec := models.HistoricalRecord{
		ReferendumID:        d.ReferendumID,
		DAO:                 d.DAO,
		Title:               d.Title,
		Status:              d.Status,
		AyesAmount:          parseAmount(d.AyesAmount),
		TotalVoted:          parseAmount(d.TotalVoted),
		Participants:        parseAmount(d.Participants),
		EligibleStake:       parseAmount(d.EligibleStake),
		Sentiment:           d.Sentiment,
		Trending:            d.Trending,
		SourceSentimentAvg:  d.SourceSentimentAvg,
		CommentTurnoutTrend: d.CommentTurnoutTrend,
	}

	if d.DecidedAt != nil {
		rec.DecidedAt = *d.DecidedAt
	} else {
		rec.DecidedAt = d.FetchedAt
	}

	return rec
}

func parseAmount(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return amount
}
