package game

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ZurcLeo/melzao-sub000/internal/domain"
)

// Catalog draws one question for a level from the merged builtin + host pool,
// honoring the exclusion set and the session config (multiplier, custom-only).
type Catalog interface {
	Draw(ctx context.Context, hostID string, level int, exclude map[string]struct{}, cfg domain.SessionConfig) (domain.Question, error)
}

// HistoryStore persists gameplay facts. Every call is fire-and-forget from
// the session's perspective: failures are logged and never block a round.
type HistoryStore interface {
	CreateSession(ctx context.Context, summary domain.SessionSummary, cfg domain.SessionConfig) error
	FinishSession(ctx context.Context, sessionID string, stats FinishStats) error
	SaveParticipant(ctx context.Context, sessionID string, p domain.Participant) error
	UpdateParticipant(ctx context.Context, participantID string, status domain.ParticipantStatus, level, earned int) error
	SaveAnswer(ctx context.Context, sessionID, participantID string, rec domain.AnswerRecord) error
}

// FinishStats summarizes a session at teardown time.
type FinishStats struct {
	Reason       string    `json:"reason"`
	Participants int       `json:"participants"`
	TotalHoney   int       `json:"totalHoney"`
	EndedAt      time.Time `json:"endedAt"`
}

// Event is what session subscribers receive. Every mutation publishes a
// game-state event; a timer expiry publishes time-up (with the reveal)
// immediately before the resulting game-state.
type Event struct {
	Type          string          `json:"type"`
	Snapshot      domain.Snapshot `json:"snapshot"`
	CorrectAnswer string          `json:"correctAnswer,omitempty"`
}

const (
	// EventState carries a fresh session snapshot.
	EventState = "game-state"
	// EventTimeUp signals that the countdown resolved the round.
	EventTimeUp = "time-up"
)

// Reasons recorded when a round or session ends without a final answer.
const (
	ReasonQuit    = "quit"
	ReasonTimeout = "timeout"
	ReasonHostEnd = "host-ended"
)

// AnswerOutcome is the transport-facing result of submitAnswer.
type AnswerOutcome struct {
	Correct       bool             `json:"correct"`
	HoneyEarned   int              `json:"honeyEarned"`
	Completed     bool             `json:"completed"`
	Eliminated    bool             `json:"eliminated"`
	CorrectAnswer string           `json:"correctAnswer"`
	NextQuestion  *domain.Question `json:"nextQuestion,omitempty"`
}

// Session owns one host's in-progress game. All state behind mu mutates
// synchronously within a single operation; store writes happen afterwards in
// goroutines so durability never blocks gameplay.
type Session struct {
	id        string
	hostID    string
	config    domain.SessionConfig
	createdAt time.Time
	now       func() time.Time
	newID     func() string
	timeUnit  time.Duration
	catalog   Catalog
	store     HistoryStore
	logger    *slog.Logger

	mu              sync.Mutex
	status          domain.SessionStatus
	participants    []*domain.Participant
	currentID       string
	currentQuestion *domain.Question
	usedQuestionIDs map[string]struct{}
	activeTimer     *timerHandle
	subscribers     map[chan Event]struct{}
	closed          bool
}

func newSession(id, hostID string, cfg domain.SessionConfig, deps sessionDeps) *Session {
	return &Session{
		id:              id,
		hostID:          hostID,
		config:          cfg,
		createdAt:       deps.now(),
		now:             deps.now,
		newID:           deps.newID,
		timeUnit:        deps.timeUnit,
		catalog:         deps.catalog,
		store:           deps.store,
		logger:          deps.logger,
		status:          domain.SessionWaiting,
		usedQuestionIDs: make(map[string]struct{}),
		subscribers:     make(map[chan Event]struct{}),
	}
}

type sessionDeps struct {
	now      func() time.Time
	newID    func() string
	timeUnit time.Duration
	catalog  Catalog
	store    HistoryStore
	logger   *slog.Logger
}

// ID returns the immutable session token.
func (s *Session) ID() string { return s.id }

// HostID returns the owning host.
func (s *Session) HostID() string { return s.hostID }

// Config returns the immutable session configuration.
func (s *Session) Config() domain.SessionConfig { return s.config }

// AddParticipant registers a new contestant. The roster is frozen during an
// active round unless the caller carries the host-admin override.
func (s *Session) AddParticipant(ctx context.Context, name string, override bool) (domain.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == domain.SessionActive && !override {
		return domain.Participant{}, domain.ErrGameInProgress
	}
	if len(s.participants) >= s.config.MaxParticipants {
		return domain.Participant{}, domain.ErrParticipantLimitReached
	}
	for _, p := range s.participants {
		if strings.EqualFold(p.Name, name) {
			return domain.Participant{}, domain.ErrDuplicateName
		}
	}

	p := &domain.Participant{
		ID:       s.newID(),
		Name:     name,
		Status:   domain.ParticipantWaiting,
		JoinedAt: s.now(),
	}
	s.participants = append(s.participants, p)
	s.persist("save participant", func(ctx context.Context) error {
		return s.store.SaveParticipant(ctx, s.id, *p)
	})
	s.publishLocked(Event{Type: EventState, Snapshot: s.snapshotLocked()})
	return *p, nil
}

// Start opens a round for a waiting participant: resets their progress,
// draws the level-one question and arms the countdown.
func (s *Session) Start(ctx context.Context, participantID string) (domain.Participant, domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == domain.SessionActive {
		return domain.Participant{}, domain.Question{}, domain.ErrSessionBusy
	}
	p := s.findLocked(participantID)
	if p == nil || p.Status != domain.ParticipantWaiting {
		return domain.Participant{}, domain.Question{}, domain.ErrParticipantNotFound
	}

	q, err := s.drawLocked(ctx, 1)
	if err != nil {
		return domain.Participant{}, domain.Question{}, err
	}

	p.CurrentLevel = 0
	p.TotalEarned = 0
	p.Answers = nil
	p.Status = domain.ParticipantPlaying
	s.status = domain.SessionActive
	s.currentID = p.ID
	s.currentQuestion = &q
	s.armTimerLocked()

	s.persist("update participant", func(ctx context.Context) error {
		return s.store.UpdateParticipant(ctx, p.ID, p.Status, p.CurrentLevel, p.TotalEarned)
	})
	s.publishLocked(Event{Type: EventState, Snapshot: s.snapshotLocked()})
	return *p, q, nil
}

// SubmitAnswer resolves the in-flight question for the current player. The
// countdown is cancelled before any scoring runs, which closes the race
// against timer expiry: whichever of the two acquires the lock first wins,
// and the loser observes the cleared timer or round and backs off.
func (s *Session) SubmitAnswer(ctx context.Context, participantID, answer string) (AnswerOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != domain.SessionActive || s.currentQuestion == nil {
		return AnswerOutcome{}, domain.ErrSessionNotActive
	}
	if s.currentID != participantID {
		return AnswerOutcome{}, domain.ErrNotYourTurn
	}
	s.cancelTimerLocked()

	p := s.findLocked(participantID)
	q := *s.currentQuestion
	outcome := scoreAnswer(q, p.CurrentLevel, answer, s.now())
	p.Answers = append(p.Answers, outcome.Record)
	p.CurrentLevel = outcome.NextLevel
	p.TotalEarned = outcome.TotalEarned

	result := AnswerOutcome{
		Correct:       outcome.Correct,
		HoneyEarned:   outcome.TotalEarned,
		CorrectAnswer: q.CorrectAnswer,
	}

	switch {
	case outcome.Won:
		p.Status = domain.ParticipantWinner
		result.Completed = true
		s.clearRoundLocked()
	case !outcome.Correct:
		p.Status = domain.ParticipantEliminated
		result.Eliminated = true
		s.clearRoundLocked()
	default:
		next, err := s.drawLocked(ctx, p.CurrentLevel+1)
		if err != nil {
			// Pool exhausted mid-game is a catalog configuration problem;
			// let the participant walk away with their earnings.
			s.logger.Error("question draw failed mid-round, retiring participant",
				"host", s.hostID, "participant", p.ID, "level", p.CurrentLevel+1, "error", err)
			p.Status = domain.ParticipantQuit
			s.clearRoundLocked()
		} else {
			s.currentQuestion = &next
			result.NextQuestion = &next
			s.armTimerLocked()
		}
	}

	s.persist("save answer", func(ctx context.Context) error {
		return s.store.SaveAnswer(ctx, s.id, p.ID, outcome.Record)
	})
	s.persist("update participant", func(ctx context.Context) error {
		return s.store.UpdateParticipant(ctx, p.ID, p.Status, p.CurrentLevel, p.TotalEarned)
	})
	s.publishLocked(Event{Type: EventState, Snapshot: s.snapshotLocked()})
	return result, nil
}

// Quit retires the current player, keeping whatever they earned so far.
func (s *Session) Quit(ctx context.Context, participantID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != domain.SessionActive {
		return 0, domain.ErrSessionNotActive
	}
	if s.currentID != participantID {
		return 0, domain.ErrNotYourTurn
	}
	s.cancelTimerLocked()
	earned := s.retireCurrentLocked(ReasonQuit)
	s.publishLocked(Event{Type: EventState, Snapshot: s.snapshotLocked()})
	return earned, nil
}

// expire is the countdown callback. It re-checks handle identity under the
// session lock; a cancelled or superseded handle returns without effect.
func (s *Session) expire(h *timerHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.activeTimer != h || s.status != domain.SessionActive {
		return
	}
	s.activeTimer = nil
	reveal := s.currentQuestion.CorrectAnswer
	s.retireCurrentLocked(ReasonTimeout)
	s.publishLocked(Event{Type: EventTimeUp, CorrectAnswer: reveal, Snapshot: s.snapshotLocked()})
	s.publishLocked(Event{Type: EventState, Snapshot: s.snapshotLocked()})
}

// retireCurrentLocked marks the current player as quit, reverts the session
// to waiting and schedules the persistence update. Returns final earnings.
func (s *Session) retireCurrentLocked(reason string) int {
	p := s.findLocked(s.currentID)
	p.Status = domain.ParticipantQuit
	earned := p.TotalEarned
	s.clearRoundLocked()
	s.logger.Info("participant retired", "host", s.hostID, "participant", p.ID, "reason", reason, "earned", earned)
	s.persist("update participant", func(ctx context.Context) error {
		return s.store.UpdateParticipant(ctx, p.ID, p.Status, p.CurrentLevel, p.TotalEarned)
	})
	return earned
}

func (s *Session) clearRoundLocked() {
	s.currentID = ""
	s.currentQuestion = nil
	s.status = domain.SessionWaiting
}

// drawLocked pulls the next question and records it in the anti-repetition set.
func (s *Session) drawLocked(ctx context.Context, level int) (domain.Question, error) {
	q, err := s.catalog.Draw(ctx, s.hostID, level, s.usedQuestionIDs, s.config)
	if err != nil {
		return domain.Question{}, err
	}
	s.usedQuestionIDs[q.ID] = struct{}{}
	return q, nil
}

func (s *Session) findLocked(participantID string) *domain.Participant {
	for _, p := range s.participants {
		if p.ID == participantID {
			return p
		}
	}
	return nil
}

// Snapshot returns the denormalized session view used by both transports.
func (s *Session) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() domain.Snapshot {
	participants := make([]domain.Participant, len(s.participants))
	order := make(map[string]int, len(s.participants))
	for i, p := range s.participants {
		participants[i] = *p
		participants[i].Answers = append([]domain.AnswerRecord(nil), p.Answers...)
		order[p.Name] = i
	}

	ranked := make([]domain.RankEntry, len(participants))
	for i, p := range participants {
		ranked[i] = domain.RankEntry{Name: p.Name, TotalEarned: p.TotalEarned, Status: p.Status}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].TotalEarned != ranked[j].TotalEarned {
			return ranked[i].TotalEarned > ranked[j].TotalEarned
		}
		return order[ranked[i].Name] < order[ranked[j].Name]
	})
	for i := range ranked {
		ranked[i].Position = i + 1
	}

	snap := domain.Snapshot{
		SessionID:            s.id,
		HostID:               s.hostID,
		Status:               s.status,
		Config:               s.config,
		Participants:         participants,
		Rankings:             ranked,
		CurrentParticipantID: s.currentID,
		UpdatedAt:            s.now(),
	}
	if s.currentQuestion != nil {
		q := *s.currentQuestion
		snap.CurrentQuestion = &q
	}
	return snap
}

// Summary returns the admin listing view.
func (s *Session) Summary() domain.SessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaryLocked()
}

func (s *Session) summaryLocked() domain.SessionSummary {
	return domain.SessionSummary{
		SessionID:        s.id,
		HostID:           s.hostID,
		Status:           s.status,
		ParticipantCount: len(s.participants),
		CreatedAt:        s.createdAt,
	}
}

// Subscribe registers a snapshot listener. The returned cancel must be
// called to release the channel; the channel also closes on session end.
func (s *Session) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subscribers[ch] = struct{}{}
	initial := Event{Type: EventState, Snapshot: s.snapshotLocked()}
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) publishLocked(ev Event) {
	for ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
			// Drop the oldest buffered event so a slow client never blocks
			// the round for everyone else.
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}

// close tears the session down: the countdown is dropped, subscriber
// channels are closed and the finish record is written best-effort.
func (s *Session) close(reason string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.cancelTimerLocked()
	s.clearRoundLocked()
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
	stats := FinishStats{
		Reason:       reason,
		Participants: len(s.participants),
		EndedAt:      s.now(),
	}
	for _, p := range s.participants {
		stats.TotalHoney += p.TotalEarned
	}
	s.mu.Unlock()

	s.persist("finish session", func(ctx context.Context) error {
		return s.store.FinishSession(ctx, s.id, stats)
	})
}

// persist runs a store write in the background. Durability is best-effort:
// the write never blocks the caller and a failure is only logged.
func (s *Session) persist(op string, fn func(ctx context.Context) error) {
	if s.store == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := fn(ctx); err != nil {
			s.logger.Error("history write failed", "op", op, "session", s.id, "error", err)
		}
	}()
}
