package catalog

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/ZurcLeo/melzao-sub000/internal/domain"
)

// Source lists host-authored questions for one level. Implementations live
// under internal/infra (static map, Postgres, Redis-cached Postgres).
type Source interface {
	QuestionsFor(ctx context.Context, hostID string, level int) ([]domain.Question, error)
}

// Catalog merges the builtin pool with a host's authored questions and draws
// from the union without repeating inside a session. The catalog itself is
// read-only; authoring happens through a separate collaborator.
type Catalog struct {
	custom  Source
	builtin map[int][]domain.Question

	mu  sync.Mutex
	rng *rand.Rand
}

// New builds a catalog over the builtin pool plus an optional custom source.
func New(custom Source) *Catalog {
	return NewWithRand(custom, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand pins the random source, for deterministic tests.
func NewWithRand(custom Source, rng *rand.Rand) *Catalog {
	return &Catalog{custom: custom, builtin: builtinByLevel(), rng: rng}
}

// Available returns the drawable pool for a level: builtin questions (unless
// customOnly) plus the host's authored ones, minus the exclusion set. When
// the exclusion empties the pool the exclusion is dropped for this call;
// repeating a question beats failing the round. An empty pool before
// exclusion is a configuration error.
func (c *Catalog) Available(ctx context.Context, hostID string, level int, exclude map[string]struct{}, customOnly bool) ([]domain.Question, error) {
	var pool []domain.Question
	if !customOnly {
		pool = append(pool, c.builtin[level]...)
	}
	if c.custom != nil {
		custom, err := c.custom.QuestionsFor(ctx, hostID, level)
		if err != nil {
			if customOnly || len(pool) == 0 {
				return nil, fmt.Errorf("load custom questions: %w", err)
			}
		} else {
			pool = append(pool, custom...)
		}
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("level %d: %w", level, domain.ErrNoQuestionsAvailable)
	}

	fresh := pool[:0:0]
	for _, q := range pool {
		if _, used := exclude[q.ID]; !used {
			fresh = append(fresh, q)
		}
	}
	if len(fresh) == 0 {
		return pool, nil
	}
	return fresh, nil
}

// Draw picks uniformly at random from Available and applies the session's
// honey multiplier (floor of the product) to the base value.
func (c *Catalog) Draw(ctx context.Context, hostID string, level int, exclude map[string]struct{}, cfg domain.SessionConfig) (domain.Question, error) {
	pool, err := c.Available(ctx, hostID, level, exclude, cfg.CustomQuestionsOnly)
	if err != nil {
		return domain.Question{}, err
	}

	c.mu.Lock()
	q := pool[c.rng.Intn(len(pool))]
	c.mu.Unlock()

	if cfg.HoneyMultiplier > 0 {
		q.HoneyValue = int(math.Floor(float64(q.HoneyValue) * cfg.HoneyMultiplier))
	}
	q.Options = append([]string(nil), q.Options...)
	return q, nil
}
