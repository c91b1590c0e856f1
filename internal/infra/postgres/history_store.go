package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/ZurcLeo/melzao-sub000/internal/domain"
	"github.com/ZurcLeo/melzao-sub000/internal/game"
)

// HistoryStore writes gameplay history through bun. Callers treat every
// write as fire-and-forget; errors surface only in logs.
type HistoryStore struct {
	db *bun.DB
}

func NewHistoryStore(db *bun.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

type sessionRow struct {
	bun.BaseModel `bun:"table:game_sessions"`

	ID          string     `bun:"id,pk"`
	HostID      string     `bun:"host_id,notnull"`
	Status      string     `bun:"status,notnull"`
	Config      []byte     `bun:"config,type:jsonb"`
	CreatedAt   time.Time  `bun:"created_at,notnull"`
	EndedAt     *time.Time `bun:"ended_at"`
	FinishStats []byte     `bun:"finish_stats,type:jsonb"`
}

type participantRow struct {
	bun.BaseModel `bun:"table:game_participants"`

	ID        string    `bun:"id,pk"`
	SessionID string    `bun:"session_id,notnull"`
	Name      string    `bun:"name,notnull"`
	Status    string    `bun:"status,notnull"`
	Level     int       `bun:"level,notnull"`
	Earned    int       `bun:"earned,notnull"`
	JoinedAt  time.Time `bun:"joined_at,notnull"`
}

type answerRow struct {
	bun.BaseModel `bun:"table:game_answers"`

	ID            int64     `bun:"id,pk,autoincrement"`
	SessionID     string    `bun:"session_id,notnull"`
	ParticipantID string    `bun:"participant_id,notnull"`
	Data          []byte    `bun:"data,type:jsonb"`
	CreatedAt     time.Time `bun:"created_at,notnull"`
}

func (s *HistoryStore) CreateSession(ctx context.Context, summary domain.SessionSummary, cfg domain.SessionConfig) error {
	config, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal session config: %w", err)
	}
	row := &sessionRow{
		ID:        summary.SessionID,
		HostID:    summary.HostID,
		Status:    string(summary.Status),
		Config:    config,
		CreatedAt: summary.CreatedAt,
	}
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *HistoryStore) FinishSession(ctx context.Context, sessionID string, stats game.FinishStats) error {
	encoded, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal finish stats: %w", err)
	}
	_, err = s.db.NewUpdate().
		Model((*sessionRow)(nil)).
		Set("status = ?", "finished").
		Set("ended_at = ?", stats.EndedAt).
		Set("finish_stats = ?", encoded).
		Where("id = ?", sessionID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	return nil
}

func (s *HistoryStore) SaveParticipant(ctx context.Context, sessionID string, p domain.Participant) error {
	row := &participantRow{
		ID:        p.ID,
		SessionID: sessionID,
		Name:      p.Name,
		Status:    string(p.Status),
		Level:     p.CurrentLevel,
		Earned:    p.TotalEarned,
		JoinedAt:  p.JoinedAt,
	}
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("insert participant: %w", err)
	}
	return nil
}

func (s *HistoryStore) UpdateParticipant(ctx context.Context, participantID string, status domain.ParticipantStatus, level, earned int) error {
	_, err := s.db.NewUpdate().
		Model((*participantRow)(nil)).
		Set("status = ?", string(status)).
		Set("level = ?", level).
		Set("earned = ?", earned).
		Where("id = ?", participantID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update participant: %w", err)
	}
	return nil
}

func (s *HistoryStore) SaveAnswer(ctx context.Context, sessionID, participantID string, rec domain.AnswerRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal answer: %w", err)
	}
	row := &answerRow{
		SessionID:     sessionID,
		ParticipantID: participantID,
		Data:          data,
		CreatedAt:     rec.AnsweredAt,
	}
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("insert answer: %w", err)
	}
	return nil
}
