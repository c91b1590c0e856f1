package domain

import "time"

// ParticipantStatus tracks where a participant is in their game lifecycle.
type ParticipantStatus string

const (
	// ParticipantWaiting means the participant joined but has not played yet.
	ParticipantWaiting ParticipantStatus = "waiting"
	// ParticipantPlaying means the participant is in the current round.
	ParticipantPlaying ParticipantStatus = "playing"
	// ParticipantEliminated means the participant answered wrong.
	ParticipantEliminated ParticipantStatus = "eliminated"
	// ParticipantQuit means the participant left (or timed out) keeping earnings.
	ParticipantQuit ParticipantStatus = "quit"
	// ParticipantWinner means the participant cleared all ten levels.
	ParticipantWinner ParticipantStatus = "winner"
)

// Terminal reports whether the status can never change again.
func (s ParticipantStatus) Terminal() bool {
	return s == ParticipantEliminated || s == ParticipantQuit || s == ParticipantWinner
}

// SessionStatus is the round-level state of a session, not its lifetime.
type SessionStatus string

const (
	// SessionWaiting means no round is in flight.
	SessionWaiting SessionStatus = "waiting"
	// SessionActive means exactly one participant is answering a question.
	SessionActive SessionStatus = "active"
)

// MaxLevel is the level a participant must clear to win.
const MaxLevel = 10

// QuestionSource distinguishes built-in questions from host-authored ones.
type QuestionSource string

const (
	SourceBuiltin QuestionSource = "builtin"
	SourceCustom  QuestionSource = "custom"
)

// SessionConfig is loaded once at session creation and immutable thereafter.
type SessionConfig struct {
	HoneyMultiplier     float64 `json:"honeyMultiplier"`
	TimeLimitSeconds    int     `json:"timeLimitSeconds"`
	MaxParticipants     int     `json:"maxParticipants"`
	CustomQuestionsOnly bool    `json:"customQuestionsOnly"`
}

// Participant is one contestant in a host's session.
type Participant struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	CurrentLevel int               `json:"currentLevel"`
	TotalEarned  int               `json:"totalEarned"`
	Status       ParticipantStatus `json:"status"`
	Answers      []AnswerRecord    `json:"answers"`
	JoinedAt     time.Time         `json:"joinedAt"`
}

// Question is the engine-facing projection of a catalog entry. HoneyValue
// already includes the session's multiplier once drawn.
type Question struct {
	ID            string         `json:"id"`
	Level         int            `json:"level"`
	Text          string         `json:"text"`
	Options       []string       `json:"options"`
	CorrectAnswer string         `json:"correctAnswer"`
	HoneyValue    int            `json:"honeyValue"`
	Source        QuestionSource `json:"source"`
}

// AnswerRecord is an immutable fact appended to a participant's history.
type AnswerRecord struct {
	QuestionID     string    `json:"questionId"`
	SelectedAnswer string    `json:"selectedAnswer"`
	CorrectAnswer  string    `json:"correctAnswer"`
	IsCorrect      bool      `json:"isCorrect"`
	HoneyEarned    int       `json:"honeyEarned"`
	Level          int       `json:"level"`
	AnsweredAt     time.Time `json:"answeredAt"`
}

// Snapshot is the fully denormalized session view broadcast to every
// subscriber of a host. Both transports emit exactly this shape.
type Snapshot struct {
	SessionID            string        `json:"sessionId"`
	HostID               string        `json:"hostId"`
	Status               SessionStatus `json:"status"`
	Config               SessionConfig `json:"config"`
	Participants         []Participant `json:"participants"`
	Rankings             []RankEntry   `json:"rankings"`
	CurrentParticipantID string        `json:"currentParticipantId,omitempty"`
	CurrentQuestion      *Question     `json:"currentQuestion,omitempty"`
	UpdatedAt            time.Time     `json:"updatedAt"`
}

// RankEntry orders participants by earnings for the scoreboard.
type RankEntry struct {
	Position    int               `json:"position"`
	Name        string            `json:"name"`
	TotalEarned int               `json:"totalEarned"`
	Status      ParticipantStatus `json:"status"`
}

// SessionSummary is the admin-facing view of one live session.
type SessionSummary struct {
	SessionID        string        `json:"sessionId"`
	HostID           string        `json:"hostId"`
	Status           SessionStatus `json:"status"`
	ParticipantCount int           `json:"participantCount"`
	CreatedAt        time.Time     `json:"createdAt"`
}

// Identity is the authenticated caller handed to the engine by the auth layer.
type Identity struct {
	HostID string
	Role   string
}

// RoleAdmin grants the roster override and the admin listing endpoint.
const RoleAdmin = "admin"
