package catalog_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZurcLeo/melzao-sub000/internal/catalog"
	"github.com/ZurcLeo/melzao-sub000/internal/domain"
	"github.com/ZurcLeo/melzao-sub000/internal/infra/memory"
)

func newCatalog(custom catalog.Source) *catalog.Catalog {
	return catalog.NewWithRand(custom, rand.New(rand.NewSource(42)))
}

func customSource() *memory.StaticQuestionSource {
	return memory.NewStaticQuestionSource(map[string][]domain.Question{
		"host-1": {
			{ID: "c-1-1", Level: 1, Text: "custom one", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "a", HoneyValue: 15},
			{ID: "c-1-2", Level: 1, Text: "custom two", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "b", HoneyValue: 15},
		},
	})
}

func TestAvailableMergesBuiltinAndCustom(t *testing.T) {
	c := newCatalog(customSource())

	pool, err := c.Available(context.Background(), "host-1", 1, nil, false)
	require.NoError(t, err)
	// 3 builtin + 2 custom
	assert.Len(t, pool, 5)

	sources := map[domain.QuestionSource]int{}
	for _, q := range pool {
		sources[q.Source]++
	}
	assert.Equal(t, 3, sources[domain.SourceBuiltin])
	assert.Equal(t, 2, sources[domain.SourceCustom])
}

func TestAvailableCustomOnlyPolicy(t *testing.T) {
	c := newCatalog(customSource())

	pool, err := c.Available(context.Background(), "host-1", 1, nil, true)
	require.NoError(t, err)
	assert.Len(t, pool, 2)

	// a host without authored questions has nothing to draw under custom-only
	_, err = c.Available(context.Background(), "host-2", 1, nil, true)
	assert.ErrorIs(t, err, domain.ErrNoQuestionsAvailable)
}

func TestAvailableDropsExclusionWhenExhausted(t *testing.T) {
	c := newCatalog(nil)

	full, err := c.Available(context.Background(), "host-1", 2, nil, false)
	require.NoError(t, err)

	exclude := make(map[string]struct{})
	for _, q := range full {
		exclude[q.ID] = struct{}{}
	}
	pool, err := c.Available(context.Background(), "host-1", 2, exclude, false)
	require.NoError(t, err)
	assert.Len(t, pool, len(full), "exclusion must be dropped, not fail the call")
}

// Over P draws with a pool of size P, no id repeats until every question has
// been served once.
func TestDrawAntiRepetition(t *testing.T) {
	c := newCatalog(customSource())
	cfg := domain.SessionConfig{HoneyMultiplier: 1}

	used := make(map[string]struct{})
	for i := 0; i < 5; i++ {
		q, err := c.Draw(context.Background(), "host-1", 1, used, cfg)
		require.NoError(t, err)
		_, seen := used[q.ID]
		require.False(t, seen, "question %s repeated before pool exhaustion", q.ID)
		used[q.ID] = struct{}{}
	}

	// pool exhausted: the next draw reuses rather than failing
	q, err := c.Draw(context.Background(), "host-1", 1, used, cfg)
	require.NoError(t, err)
	_, seen := used[q.ID]
	assert.True(t, seen)
}

func TestDrawAppliesMultiplierFloor(t *testing.T) {
	c := newCatalog(nil)
	cfg := domain.SessionConfig{HoneyMultiplier: 1.5}

	// level 1 builtin base value is 10
	q, err := c.Draw(context.Background(), "host-1", 1, nil, cfg)
	require.NoError(t, err)
	assert.Equal(t, 15, q.HoneyValue)

	// floor(10 * 1.25) = 12
	cfg.HoneyMultiplier = 1.25
	q, err = c.Draw(context.Background(), "host-1", 1, nil, cfg)
	require.NoError(t, err)
	assert.Equal(t, 12, q.HoneyValue)
}

func TestDrawEmptyLevelFails(t *testing.T) {
	c := newCatalog(nil)
	_, err := c.Draw(context.Background(), "host-1", 11, nil, domain.SessionConfig{})
	assert.ErrorIs(t, err, domain.ErrNoQuestionsAvailable)
}

type failingSource struct{}

func (failingSource) QuestionsFor(context.Context, string, int) ([]domain.Question, error) {
	return nil, errors.New("store down")
}

func TestCustomSourceFailureFallsBackToBuiltin(t *testing.T) {
	c := newCatalog(failingSource{})

	pool, err := c.Available(context.Background(), "host-1", 1, nil, false)
	require.NoError(t, err)
	assert.Len(t, pool, 3)

	_, err = c.Available(context.Background(), "host-1", 1, nil, true)
	assert.Error(t, err)
}
