package domain

// SyncKind tags content mirrored into the recall layer.
type SyncKind string

const (
	SyncLongTerm SyncKind = "long_term_memory"
	SyncHistory  SyncKind = "history"
)

// RecallResult is one piece of recalled content with its relevance score.
// Score is 0 when the backing provider does not report one.
type RecallResult struct {
	Content string  `json:"content"`
	Score   float32 `json:"score,omitempty"`
}
