package domain

import (
	"testing"
	"time"
)

func TestEventRecord(t *testing.T) {
	e := Event{
		Seq:       1,
		Timestamp: time.Date(2026, 2, 15, 10, 30, 0, 0, time.UTC),
		Content:   "user asked about the weather",
	}

	want := "[2026-02-15T10:30:00Z] user asked about the weather"
	if got := e.Record(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestEventRecordNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	e := Event{
		Timestamp: time.Date(2026, 2, 15, 11, 30, 0, 0, loc),
		Content:   "note",
	}

	if got := e.Record(); got != "[2026-02-15T10:30:00Z] note" {
		t.Errorf("timestamp not normalized to UTC: %q", got)
	}
}

func TestEventRecordWithoutTimestamp(t *testing.T) {
	e := Event{Content: "a hand-written note"}

	if got := e.Record(); got != "a hand-written note" {
		t.Errorf("expected bare content for zero timestamp, got %q", got)
	}
}
