package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/ZurcLeo/melzao-sub000/internal/domain"
)

// QuestionSource loads host-authored questions (JSONB per row) from Postgres.
type QuestionSource struct {
	pool *pgxpool.Pool
}

func NewQuestionSource(pool *pgxpool.Pool) *QuestionSource {
	return &QuestionSource{pool: pool}
}

func (s *QuestionSource) QuestionsFor(ctx context.Context, hostID string, level int) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM custom_questions WHERE host_id=$1 AND level=$2`, hostID, level)
	if err != nil {
		return nil, fmt.Errorf("query custom questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan custom question: %w", err)
		}
		var q domain.Question
		if err := json.Unmarshal(raw, &q); err != nil {
			return nil, fmt.Errorf("unmarshal custom question: %w", err)
		}
		q.Source = domain.SourceCustom
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
