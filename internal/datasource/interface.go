package datasource

import (
	"context"
	"errors"
	"time"
)

// GovernanceSource defines the interface for fetching referendum data from
// external governance providers
type GovernanceSource interface {
	// FetchReferenda retrieves decided referenda within the specified time range
	FetchReferenda(ctx context.Context, start, end time.Time) ([]ReferendumData, error)

	// FetchReferendumDetails retrieves detailed information for a specific referendum
	FetchReferendumDetails(ctx context.Context, referendumID int64) (*ReferendumData, error)

	// Name returns the name of the data source
	Name() string

	// IsEnabled returns whether this data source is currently enabled
	IsEnabled() bool
}

// ReferendumData represents normalized referendum data from any provider.
// Token amounts are decimal strings in the chain's smallest unit.
type ReferendumData struct {
	ReferendumID  int64      `json:"referendum_id"`
	DAO           string     `json:"dao"`
	Title         string     `json:"title"`
	Status        string     `json:"status"`
	DecidedAt     *time.Time `json:"decided_at"`
	AyesAmount    string     `json:"ayes_amount"`
	TotalVoted    string     `json:"total_voted"`
	Participants  string     `json:"participants"`
	EligibleStake string     `json:"eligible_stake"`

	Sentiment           float64 `json:"sentiment"`
	Trending            float64 `json:"trending"`
	SourceSentimentAvg  float64 `json:"source_sentiment_avg"`
	CommentTurnoutTrend float64 `json:"comment_turnout_trend"`

	FetchedAt time.Time `json:"fetched_at"`
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
