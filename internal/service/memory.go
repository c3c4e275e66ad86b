package service

import (
	"context"
	"errors"
	"strings"

	"github.com/hippo-mem/hippo/internal/domain"
	"go.uber.org/zap"
)

var (
	ErrEventContentEmpty = errors.New("content is required")
	ErrSearchQueryEmpty  = errors.New("query is required")
)

const (
	// DefaultSearchLimit caps search and recall results when the caller
	// doesn't ask for a specific count.
	DefaultSearchLimit = 5

	// ContextHeader prefixes the fact document in the system-prompt block.
	ContextHeader = "## Long-term Memory"
)

// SearchSource reports which layer answered a recall query.
type SearchSource string

const (
	SourceRecall  SearchSource = "recall"
	SourceHistory SearchSource = "history"
)

// MemoryService owns the two-layer workspace memory: the fact document that
// is always loaded into agent context, and the append-only event log that is
// reached only through search or recall. Every local write is mirrored into
// the recall provider fire-and-forget.
type MemoryService struct {
	facts  domain.FactStore
	log    domain.EventLog
	recall domain.RecallProvider
	logger *zap.Logger
}

func NewMemoryService(facts domain.FactStore, log domain.EventLog, recall domain.RecallProvider, logger *zap.Logger) *MemoryService {
	return &MemoryService{
		facts:  facts,
		log:    log,
		recall: recall,
		logger: logger,
	}
}

// ReadFacts returns the full fact document, "" when no memory exists yet.
func (s *MemoryService) ReadFacts(ctx context.Context) (string, error) {
	return s.facts.Read(ctx)
}

// WriteFacts overwrites the fact document and mirrors it into the recall
// layer. Recall failures never fail the local write.
func (s *MemoryService) WriteFacts(ctx context.Context, content string) error {
	if err := s.facts.Write(ctx, content); err != nil {
		return err
	}
	s.syncToRecall(ctx, content, domain.SyncLongTerm)
	return nil
}

// Context builds the memory section for the agent's system prompt.
func (s *MemoryService) Context(ctx context.Context) (string, error) {
	facts, err := s.facts.Read(ctx)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(facts) == "" {
		return "", nil
	}
	return ContextHeader + "\n" + facts, nil
}

// AppendEvent adds one record to the event log and mirrors it into the
// recall layer.
func (s *MemoryService) AppendEvent(ctx context.Context, content string) (*domain.Event, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEventContentEmpty
	}

	event, err := s.log.Append(ctx, content)
	if err != nil {
		return nil, err
	}
	s.syncToRecall(ctx, event.Record(), domain.SyncHistory)
	return event, nil
}

// ListHistory returns events in append order, newest limit when limit > 0.
func (s *MemoryService) ListHistory(ctx context.Context, limit int) ([]domain.Event, error) {
	return s.log.List(ctx, limit)
}

// SearchHistory is the manual keyword path: a case-insensitive substring
// scan over the log.
func (s *MemoryService) SearchHistory(ctx context.Context, query string, limit int) ([]domain.Event, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrSearchQueryEmpty
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return s.log.Search(ctx, query, limit)
}

// Recall answers a query from the semantic layer when one is enabled and
// falls back to the local keyword scan when it is disabled or failing. The
// returned source says which path served.
func (s *MemoryService) Recall(ctx context.Context, query string, limit int) ([]domain.RecallResult, SearchSource, error) {
	if strings.TrimSpace(query) == "" {
		return nil, "", ErrSearchQueryEmpty
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	if s.recall.Enabled() {
		results, err := s.recall.Search(ctx, query, limit)
		if err == nil {
			return results, SourceRecall, nil
		}
		s.logger.Warn("recall search failed, falling back to history scan", zap.Error(err))
	}

	events, err := s.log.Search(ctx, query, limit)
	if err != nil {
		return nil, "", err
	}
	results := make([]domain.RecallResult, 0, len(events))
	for _, e := range events {
		results = append(results, domain.RecallResult{Content: e.Record()})
	}
	return results, SourceHistory, nil
}

// ResyncFacts re-mirrors the current fact document into the recall layer.
// Used when the file was edited outside the API and only the recall side
// needs updating.
func (s *MemoryService) ResyncFacts(ctx context.Context) error {
	facts, err := s.facts.Read(ctx)
	if err != nil {
		return err
	}
	if strings.TrimSpace(facts) == "" {
		return nil
	}
	s.syncToRecall(ctx, facts, domain.SyncLongTerm)
	return nil
}

// syncToRecall mirrors content into the recall provider fire-and-forget.
func (s *MemoryService) syncToRecall(ctx context.Context, content string, kind domain.SyncKind) {
	if !s.recall.Enabled() {
		return
	}
	if err := s.recall.Sync(ctx, content, kind); err != nil {
		s.logger.Debug("recall sync failed",
			zap.String("kind", string(kind)),
			zap.Error(err))
	}
}
