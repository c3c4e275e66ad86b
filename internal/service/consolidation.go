package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/hippo-mem/hippo/internal/domain"
	"go.uber.org/zap"
)

var (
	ErrLLMNotConfigured   = errors.New("LLM client not configured")
	ErrEmptyConsolidation = errors.New("consolidation returned an empty document")
)

const (
	defaultConsolidationInterval = 6 * time.Hour
	defaultConsolidationMinAge   = 72 * time.Hour
	defaultConsolidationBatch    = 5

	consolidationRunTimeout = 10 * time.Minute
)

// FactWriter is the slice of MemoryService the consolidator needs: reading
// the current document and writing the rewritten one (which also mirrors it
// into the recall layer).
type FactWriter interface {
	ReadFacts(ctx context.Context) (string, error)
	WriteFacts(ctx context.Context, content string) error
}

// ConsolidationResult contains the results of a consolidation run.
type ConsolidationResult struct {
	EventsProcessed int       `json:"events_processed"`
	FactsUpdated    bool      `json:"facts_updated"`
	Checkpoint      time.Time `json:"checkpoint,omitempty"`
}

// ConsolidationService periodically folds aged event-log entries into the
// fact document through an LLM rewrite. The log itself is never touched; a
// checkpoint records how far consolidation has progressed.
type ConsolidationService struct {
	factWriter FactWriter
	log        domain.EventLog
	checkpoint domain.CheckpointStore
	llmClient  domain.LLMClient
	logger     *zap.Logger

	minAge    time.Duration
	minEvents int

	// Background worker fields
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup

	timeNow func() time.Time
}

func NewConsolidationService(
	factWriter FactWriter,
	log domain.EventLog,
	checkpoint domain.CheckpointStore,
	llmClient domain.LLMClient,
	logger *zap.Logger,
) *ConsolidationService {
	return &ConsolidationService{
		factWriter: factWriter,
		log:        log,
		checkpoint: checkpoint,
		llmClient:  llmClient,
		logger:     logger,
		minAge:     defaultConsolidationMinAge,
		minEvents:  defaultConsolidationBatch,
		interval:   defaultConsolidationInterval,
		stopCh:     make(chan struct{}),
		timeNow:    time.Now,
	}
}

// SetInterval sets the consolidation interval.
func (s *ConsolidationService) SetInterval(d time.Duration) {
	s.interval = d
}

// SetMinAge sets how old an event must be before it is consolidated.
func (s *ConsolidationService) SetMinAge(d time.Duration) {
	s.minAge = d
}

// SetMinEvents sets the minimum batch size for a run.
func (s *ConsolidationService) SetMinEvents(n int) {
	s.minEvents = n
}

// Start begins the background consolidation worker.
func (s *ConsolidationService) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("consolidation worker started", zap.Duration("interval", s.interval))

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), consolidationRunTimeout)
				if _, err := s.Consolidate(ctx); err != nil && !errors.Is(err, ErrLLMNotConfigured) {
					s.logger.Error("consolidation failed", zap.Error(err))
				}
				cancel()
			case <-s.stopCh:
				s.logger.Info("consolidation worker stopped")
				return
			}
		}
	}()
}

// Stop halts the background consolidation worker.
func (s *ConsolidationService) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

// Consolidate runs one consolidation pass: collect events newer than the
// checkpoint but older than the minimum age, rewrite the fact document with
// them folded in, then advance the checkpoint to the newest folded event.
func (s *ConsolidationService) Consolidate(ctx context.Context) (*ConsolidationResult, error) {
	if s.llmClient == nil {
		return nil, ErrLLMNotConfigured
	}

	result := &ConsolidationResult{}

	events, err := s.log.List(ctx, 0)
	if err != nil {
		return nil, err
	}

	mark, err := s.checkpoint.Load(ctx)
	if err != nil {
		return nil, err
	}
	result.Checkpoint = mark

	cutoff := s.timeNow().Add(-s.minAge)

	var batch []domain.Event
	for _, e := range events {
		// Hand-written records without a parseable timestamp stay in
		// the log untouched.
		if e.Timestamp.IsZero() {
			continue
		}
		if !e.Timestamp.After(mark) {
			continue
		}
		if e.Timestamp.After(cutoff) {
			continue
		}
		batch = append(batch, e)
	}

	if len(batch) < s.minEvents {
		s.logger.Debug("consolidation skipped, batch below minimum",
			zap.Int("eligible", len(batch)),
			zap.Int("min_events", s.minEvents))
		return result, nil
	}

	facts, err := s.factWriter.ReadFacts(ctx)
	if err != nil {
		return nil, err
	}

	rewritten, err := s.llmClient.Consolidate(ctx, facts, batch)
	if err != nil {
		return nil, err
	}
	// Guard: a rewrite can shrink the document but must never wipe it.
	if strings.TrimSpace(rewritten) == "" {
		return nil, ErrEmptyConsolidation
	}

	if err := s.factWriter.WriteFacts(ctx, rewritten); err != nil {
		return nil, err
	}

	newest := batch[0].Timestamp
	for _, e := range batch[1:] {
		if e.Timestamp.After(newest) {
			newest = e.Timestamp
		}
	}
	if err := s.checkpoint.Save(ctx, newest); err != nil {
		return nil, err
	}

	result.EventsProcessed = len(batch)
	result.FactsUpdated = true
	result.Checkpoint = newest

	s.logger.Info("consolidation complete",
		zap.Int("events_processed", result.EventsProcessed),
		zap.Time("checkpoint", newest))

	return result, nil
}
