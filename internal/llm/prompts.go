package llm

import (
	"strings"

	"github.com/hippo-mem/hippo/internal/domain"
)

const consolidationSystemPrompt = `You maintain an AI agent's long-term memory document.
You are given the current memory document and a batch of history log entries.
Rewrite the memory document so that durable knowledge from the log entries
(preferences, project facts, relationships, decisions) is folded in.

Rules:
- Keep the document in Markdown, concise and deduplicated.
- When a log entry restates an existing fact, update the fact in place.
- Never invent facts that are not supported by the document or the entries.
- Drop transient chatter; keep only knowledge worth remembering long-term.
- Return ONLY the full rewritten document, no commentary.`

// buildConsolidationPrompt renders the user message for a consolidation run.
func buildConsolidationPrompt(facts string, events []domain.Event) string {
	var b strings.Builder

	b.WriteString("Current memory document:\n")
	if strings.TrimSpace(facts) == "" {
		b.WriteString("(empty)\n")
	} else {
		b.WriteString(facts)
		if !strings.HasSuffix(facts, "\n") {
			b.WriteString("\n")
		}
	}

	b.WriteString("\nHistory entries to fold in:\n")
	for _, e := range events {
		b.WriteString(e.Record())
		b.WriteString("\n")
	}

	return b.String()
}
