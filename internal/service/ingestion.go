package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/gov-forecast/internal/datasource"
	"github.com/yourusername/gov-forecast/internal/metrics"
	"github.com/yourusername/gov-forecast/internal/models"
	"github.com/yourusername/gov-forecast/internal/repository"
)

// IngestionService pulls decided referenda from governance sources into the
// historical store that training and backtesting read from.
type IngestionService struct {
	sources        []datasource.GovernanceSource
	referendumRepo repository.ReferendumRepository
	metrics        *IngestionMetrics
	logger         *log.Logger
	batchSize      int
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(
	sources []datasource.GovernanceSource,
	referendumRepo repository.ReferendumRepository,
	logger *log.Logger,
	batchSize int,
) *IngestionService {
	if batchSize <= 0 {
		batchSize = 100
	}

	return &IngestionService{
		sources:        sources,
		referendumRepo: referendumRepo,
		metrics:        NewIngestionMetrics(),
		logger:         logger,
		batchSize:      batchSize,
	}
}

// IngestHistoricalData fetches and stores decided referenda from a specific
// source for the given time range.
func (s *IngestionService) IngestHistoricalData(ctx context.Context, sourceName string, start, end time.Time) (*IngestionMetrics, error) {
	s.metrics.Reset()
	startTime := time.Now()

	s.logger.Printf("Starting referendum ingestion from %s (%s to %s)",
		sourceName, start.Format("2006-01-02"), end.Format("2006-01-02"))

	var source datasource.GovernanceSource
	for _, src := range s.sources {
		if src.Name() == sourceName {
			source = src
			break
		}
	}

	if source == nil {
		return nil, fmt.Errorf("data source not found: %s", sourceName)
	}

	referenda, err := source.FetchReferenda(ctx, start, end)
	if err != nil {
		s.metrics.RecordError()
		s.logger.Printf("Failed to fetch referenda from %s: %v", sourceName, err)
		return s.metrics, fmt.Errorf("failed to fetch referenda: %w", err)
	}

	s.logger.Printf("Fetched %d referenda from %s", len(referenda), sourceName)
	s.metrics.TotalFetched = len(referenda)

	for i := 0; i < len(referenda); i += s.batchSize {
		batchEnd := i + s.batchSize
		if batchEnd > len(referenda) {
			batchEnd = len(referenda)
		}

		if err := s.storeBatch(ctx, referenda[i:batchEnd]); err != nil {
			s.logger.Printf("Error storing batch: %v", err)
			s.metrics.RecordError()
			// Continue with remaining batches
		}
	}

	s.metrics.Duration = time.Since(startTime)
	s.logger.Printf("Ingestion complete: %s", s.metrics)

	return s.metrics, nil
}

// RefreshReferendum fetches and stores the latest state of one referendum,
// typically in response to a stream event.
func (s *IngestionService) RefreshReferendum(ctx context.Context, sourceName string, referendumID int64) error {
	var source datasource.GovernanceSource
	for _, src := range s.sources {
		if src.Name() == sourceName {
			source = src
			break
		}
	}

	if source == nil {
		return fmt.Errorf("data source not found: %s", sourceName)
	}

	data, err := source.FetchReferendumDetails(ctx, referendumID)
	if err != nil {
		return fmt.Errorf("failed to fetch referendum %d: %w", referendumID, err)
	}

	record := data.ToRecord()
	if !validRecord(record) {
		return fmt.Errorf("referendum %d failed validation", referendumID)
	}

	if err := s.referendumRepo.Upsert(ctx, &record); err != nil {
		return fmt.Errorf("failed to store referendum %d: %w", referendumID, err)
	}

	metrics.RecordIngestedReferenda(1)
	return nil
}

func (s *IngestionService) storeBatch(ctx context.Context, batch []datasource.ReferendumData) error {
	records := make([]models.HistoricalRecord, 0, len(batch))
	for _, data := range batch {
		record := data.ToRecord()
		if !validRecord(record) {
			s.metrics.RecordValidationError()
			continue
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil
	}

	stored, err := s.referendumRepo.UpsertBatch(ctx, records)
	if err != nil {
		return err
	}

	s.metrics.RecordStored(int(stored))
	metrics.RecordIngestedReferenda(int(stored))
	return nil
}

// validRecord rejects records that cannot contribute to training or
// evaluation: no id, or a status the outcome join cannot interpret.
func validRecord(rec models.HistoricalRecord) bool {
	if rec.ReferendumID <= 0 {
		return false
	}
	if rec.Status == "" {
		return false
	}
	return true
}
