package game

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ZurcLeo/melzao-sub000/internal/domain"
)

// Liveness marks live sessions in a shared store (Redis) so operators can
// see which hosts are running. Best-effort, like every other side channel.
type Liveness interface {
	MarkLive(ctx context.Context, hostID, sessionID string)
	ClearLive(ctx context.Context, hostID string)
}

// RegistryConfig wires the registry's collaborators and session defaults.
type RegistryConfig struct {
	Catalog  Catalog
	Store    HistoryStore
	Liveness Liveness // optional
	Logger   *slog.Logger
	Defaults domain.SessionConfig

	// Test seams; production wiring leaves these nil.
	Now      func() time.Time
	NewID    func() string
	TimeUnit time.Duration
}

// Registry maps each host to at most one live session and arbitrates
// creation, lookup and teardown. Sessions never outlive their map entry.
type Registry struct {
	catalog  Catalog
	store    HistoryStore
	liveness Liveness
	logger   *slog.Logger
	defaults domain.SessionConfig
	now      func() time.Time
	newID    func() string
	timeUnit time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry builds a registry from its config, filling in default seams.
func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	if cfg.TimeUnit == 0 {
		cfg.TimeUnit = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Registry{
		catalog:  cfg.Catalog,
		store:    cfg.Store,
		liveness: cfg.Liveness,
		logger:   cfg.Logger,
		defaults: cfg.Defaults,
		now:      cfg.Now,
		newID:    cfg.NewID,
		timeUnit: cfg.TimeUnit,
		sessions: make(map[string]*Session),
	}
}

// Defaults returns the default session configuration.
func (r *Registry) Defaults() domain.SessionConfig { return r.defaults }

// Create opens a new session for the host. At most one live session may
// exist per host; a second create fails with ErrSessionAlreadyExists.
func (r *Registry) Create(ctx context.Context, hostID string, cfg *domain.SessionConfig) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[hostID]; ok {
		return nil, domain.ErrSessionAlreadyExists
	}

	conf := r.defaults
	if cfg != nil {
		conf = *cfg
	}
	session := newSession(r.newID(), hostID, conf, sessionDeps{
		now:      r.now,
		newID:    r.newID,
		timeUnit: r.timeUnit,
		catalog:  r.catalog,
		store:    r.store,
		logger:   r.logger,
	})
	r.sessions[hostID] = session

	session.persist("create session", func(ctx context.Context) error {
		return r.store.CreateSession(ctx, session.Summary(), conf)
	})
	if r.liveness != nil {
		r.liveness.MarkLive(ctx, hostID, session.ID())
	}
	r.logger.Info("session created", "host", hostID, "session", session.ID())
	return session, nil
}

// Get looks up the host's live session without side effects.
func (r *Registry) Get(hostID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[hostID]
	return session, ok
}

// GetOrCreate returns the host's session, lazily creating one with the
// default configuration. Used by implicit entry points like first socket
// contact.
func (r *Registry) GetOrCreate(ctx context.Context, hostID string) *Session {
	if session, ok := r.Get(hostID); ok {
		return session
	}
	session, err := r.Create(ctx, hostID, nil)
	if err != nil {
		// Lost the create race; the winner's session is the live one.
		session, _ = r.Get(hostID)
	}
	return session
}

// End tears down the host's session. Returns false when none existed.
func (r *Registry) End(ctx context.Context, hostID, reason string) bool {
	r.mu.Lock()
	session, ok := r.sessions[hostID]
	if ok {
		delete(r.sessions, hostID)
	}
	r.mu.Unlock()
	if !ok {
		return false
	}

	session.close(reason)
	if r.liveness != nil {
		r.liveness.ClearLive(ctx, hostID)
	}
	r.logger.Info("session ended", "host", hostID, "session", session.ID(), "reason", reason)
	return true
}

// ListActive is a diagnostic read of every live session.
func (r *Registry) ListActive() []domain.SessionSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	summaries := make([]domain.SessionSummary, 0, len(r.sessions))
	for _, session := range r.sessions {
		summaries = append(summaries, session.Summary())
	}
	return summaries
}
