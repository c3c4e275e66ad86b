package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hippo-mem/hippo/internal/domain"
)

const historyFileName = "HISTORY.md"

// EventLog is the append-only, grep-searchable history file. Records are
// written as "[RFC3339 timestamp] content" separated by blank lines and are
// never mutated after Append.
type EventLog struct {
	path string
	mu   sync.Mutex

	// timeNow is swapped in tests.
	timeNow func() time.Time
}

func NewEventLog(memoryDir string) *EventLog {
	return &EventLog{
		path:    filepath.Join(memoryDir, historyFileName),
		timeNow: time.Now,
	}
}

// Append writes one record to the end of the log and returns the stored
// event. Blank lines inside content are collapsed: the blank-line separator
// is what delimits records, so one appended event must stay one record.
func (l *EventLog) Append(ctx context.Context, content string) (*domain.Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	existing, err := l.readAll()
	if err != nil {
		return nil, err
	}

	event := domain.Event{
		Seq:       len(existing) + 1,
		Timestamp: l.timeNow().UTC().Truncate(time.Second),
		Content:   normalizeContent(content),
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString(event.Record() + "\n\n"); err != nil {
		return nil, fmt.Errorf("append event: %w", err)
	}
	return &event, nil
}

// List returns events in append order. When limit > 0 only the newest
// limit events are returned, still oldest-first.
func (l *EventLog) List(ctx context.Context, limit int) ([]domain.Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	events, err := l.readAll()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	return events, nil
}

// Search returns exactly the events whose record text contains the query,
// case-insensitively, in append order.
func (l *EventLog) Search(ctx context.Context, query string, limit int) ([]domain.Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	events, err := l.readAll()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	var matched []domain.Event
	for _, e := range events {
		if strings.Contains(strings.ToLower(e.Record()), needle) {
			matched = append(matched, e)
			if limit > 0 && len(matched) >= limit {
				break
			}
		}
	}
	return matched, nil
}

func (l *EventLog) Path() string {
	return l.path
}

// readAll parses the full log. A missing file is an empty log.
func (l *EventLog) readAll() ([]domain.Event, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read event log: %w", err)
	}

	var events []domain.Event
	for _, record := range strings.Split(string(data), "\n\n") {
		record = strings.TrimSpace(record)
		if record == "" {
			continue
		}
		events = append(events, parseRecord(len(events)+1, record))
	}
	return events, nil
}

// normalizeContent trims the content and drops blank interior lines, which
// would otherwise read back as record separators.
func normalizeContent(content string) string {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// parseRecord extracts the bracketed timestamp when present. Records added
// by hand without one are kept with a zero timestamp rather than rejected;
// the file is human-editable by design.
func parseRecord(seq int, record string) domain.Event {
	event := domain.Event{Seq: seq, Content: record}

	if !strings.HasPrefix(record, "[") {
		return event
	}
	end := strings.Index(record, "]")
	if end < 0 {
		return event
	}
	ts, err := time.Parse(time.RFC3339, record[1:end])
	if err != nil {
		return event
	}
	event.Timestamp = ts
	event.Content = strings.TrimSpace(record[end+1:])
	return event
}
