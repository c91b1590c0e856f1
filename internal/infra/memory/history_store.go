package memory

import (
	"context"
	"sync"

	"github.com/ZurcLeo/melzao-sub000/internal/domain"
	"github.com/ZurcLeo/melzao-sub000/internal/game"
)

// HistoryStore keeps gameplay records in memory. It is the fallback when no
// Postgres URL is configured, and doubles as a probe in engine tests.
type HistoryStore struct {
	mu           sync.Mutex
	sessions     map[string]domain.SessionSummary
	finished     map[string]game.FinishStats
	participants map[string][]domain.Participant
	updates      []ParticipantUpdate
	answers      map[string][]domain.AnswerRecord
}

// ParticipantUpdate is one recorded status transition.
type ParticipantUpdate struct {
	ParticipantID string
	Status        domain.ParticipantStatus
	Level         int
	Earned        int
}

func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		sessions:     make(map[string]domain.SessionSummary),
		finished:     make(map[string]game.FinishStats),
		participants: make(map[string][]domain.Participant),
		answers:      make(map[string][]domain.AnswerRecord),
	}
}

func (s *HistoryStore) CreateSession(_ context.Context, summary domain.SessionSummary, _ domain.SessionConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[summary.SessionID] = summary
	return nil
}

func (s *HistoryStore) FinishSession(_ context.Context, sessionID string, stats game.FinishStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finished[sessionID] = stats
	return nil
}

func (s *HistoryStore) SaveParticipant(_ context.Context, sessionID string, p domain.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.participants[sessionID] = append(s.participants[sessionID], p)
	return nil
}

func (s *HistoryStore) UpdateParticipant(_ context.Context, participantID string, status domain.ParticipantStatus, level, earned int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, ParticipantUpdate{ParticipantID: participantID, Status: status, Level: level, Earned: earned})
	return nil
}

func (s *HistoryStore) SaveAnswer(_ context.Context, sessionID, _ string, rec domain.AnswerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers[sessionID] = append(s.answers[sessionID], rec)
	return nil
}

// Answers returns the recorded answers for a session.
func (s *HistoryStore) Answers(sessionID string) []domain.AnswerRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AnswerRecord(nil), s.answers[sessionID]...)
}

// Finished reports whether a finish record exists for the session.
func (s *HistoryStore) Finished(sessionID string) (game.FinishStats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats, ok := s.finished[sessionID]
	return stats, ok
}

// Updates returns every recorded participant transition.
func (s *HistoryStore) Updates() []ParticipantUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ParticipantUpdate(nil), s.updates...)
}
