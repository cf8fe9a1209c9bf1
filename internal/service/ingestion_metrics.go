package service

import (
	"fmt"
	"sync"
	"time"
)

// IngestionMetrics tracks statistics about referendum ingestion runs
type IngestionMetrics struct {
	mu               sync.RWMutex
	StartTime        time.Time
	Duration         time.Duration
	TotalFetched     int
	SuccessfulStores int
	Skipped          int
	ValidationErrors int
	Errors           int
}

// NewIngestionMetrics creates a new metrics tracker
func NewIngestionMetrics() *IngestionMetrics {
	return &IngestionMetrics{
		StartTime: time.Now(),
	}
}

// Reset resets all metrics
func (m *IngestionMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StartTime = time.Now()
	m.Duration = 0
	m.TotalFetched = 0
	m.SuccessfulStores = 0
	m.Skipped = 0
	m.ValidationErrors = 0
	m.Errors = 0
}

// RecordStored increments the stored record count
func (m *IngestionMetrics) RecordStored(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SuccessfulStores += n
}

// RecordSkipped increments the skipped record count
func (m *IngestionMetrics) RecordSkipped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Skipped++
}

// RecordValidationError increments the validation error count
func (m *IngestionMetrics) RecordValidationError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ValidationErrors++
}

// RecordError increments the error count
func (m *IngestionMetrics) RecordError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors++
}

// String returns a formatted string representation of metrics
func (m *IngestionMetrics) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	successRate := float64(0)
	if m.TotalFetched > 0 {
		successRate = float64(m.SuccessfulStores) / float64(m.TotalFetched) * 100
	}

	return fmt.Sprintf(
		"IngestionMetrics{Fetched=%d, Stored=%d (%.1f%%), Skipped=%d, ValidationErrors=%d, Errors=%d, Duration=%v}",
		m.TotalFetched,
		m.SuccessfulStores,
		successRate,
		m.Skipped,
		m.ValidationErrors,
		m.Errors,
		m.Duration,
	)
}
