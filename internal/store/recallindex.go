package store

import (
	"context"
	"fmt"

	"github.com/hippo-mem/hippo/internal/domain"
	"github.com/hippo-mem/hippo/internal/embedding"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
)

// RecallIndex stores embedded memory content in Postgres for the local
// vector recall provider.
type RecallIndex struct {
	db *pgxpool.Pool
}

func NewRecallIndex(db *pgxpool.Pool) *RecallIndex {
	return &RecallIndex{db: db}
}

// EnsureSchema creates the recall table and pgvector extension if missing.
func (s *RecallIndex) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("create vector extension: %w", err)
	}
	_, err := s.db.Exec(ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS recall_index (
			id BIGSERIAL PRIMARY KEY,
			kind TEXT NOT NULL,
			content TEXT NOT NULL,
			embedding vector(%d),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, embedding.IndexDimension))
	if err != nil {
		return fmt.Errorf("create recall_index table: %w", err)
	}
	return nil
}

func (s *RecallIndex) Add(ctx context.Context, content string, kind domain.SyncKind, embedding []float32) error {
	var vec *pgvector.Vector
	if len(embedding) > 0 {
		v := pgvector.NewVector(embedding)
		vec = &v
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO recall_index (kind, content, embedding) VALUES ($1, $2, $3)`,
		string(kind), content, vec,
	)
	if err != nil {
		return fmt.Errorf("insert recall document: %w", err)
	}
	return nil
}

func (s *RecallIndex) Search(ctx context.Context, embedding []float32, limit int) ([]domain.RecallResult, error) {
	if limit <= 0 {
		limit = 5
	}

	vec := pgvector.NewVector(embedding)
	rows, err := s.db.Query(ctx,
		`SELECT content, 1 - (embedding <=> $1) AS score
		 FROM recall_index
		 WHERE embedding IS NOT NULL
		 ORDER BY embedding <=> $1
		 LIMIT $2`,
		vec, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search recall index: %w", err)
	}
	defer rows.Close()

	var results []domain.RecallResult
	for rows.Next() {
		var r domain.RecallResult
		if err := rows.Scan(&r.Content, &r.Score); err != nil {
			return nil, fmt.Errorf("scan recall result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
