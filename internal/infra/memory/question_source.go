package memory

import (
	"context"

	"github.com/ZurcLeo/melzao-sub000/internal/domain"
)

// StaticQuestionSource serves host-authored questions from an in-memory map
// (useful for tests and demos without Postgres).
type StaticQuestionSource struct {
	byHost map[string][]domain.Question
}

func NewStaticQuestionSource(byHost map[string][]domain.Question) *StaticQuestionSource {
	return &StaticQuestionSource{byHost: byHost}
}

func (s *StaticQuestionSource) QuestionsFor(_ context.Context, hostID string, level int) ([]domain.Question, error) {
	var out []domain.Question
	for _, q := range s.byHost[hostID] {
		if q.Level == level {
			q.Source = domain.SourceCustom
			out = append(out, q)
		}
	}
	return out, nil
}
