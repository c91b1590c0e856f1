package game_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZurcLeo/melzao-sub000/internal/domain"
	"github.com/ZurcLeo/melzao-sub000/internal/game"
)

func TestCreateRejectsSecondSession(t *testing.T) {
	ctx := context.Background()
	registry, _ := newTestRegistry(&stubCatalog{})

	_, err := registry.Create(ctx, "host-1", nil)
	require.NoError(t, err)

	_, err = registry.Create(ctx, "host-1", nil)
	assert.ErrorIs(t, err, domain.ErrSessionAlreadyExists)
}

func TestGetOrCreateIsLazy(t *testing.T) {
	ctx := context.Background()
	registry, _ := newTestRegistry(&stubCatalog{})

	_, ok := registry.Get("host-1")
	assert.False(t, ok)

	session := registry.GetOrCreate(ctx, "host-1")
	require.NotNil(t, session)
	assert.Equal(t, testConfig(), session.Config())

	again := registry.GetOrCreate(ctx, "host-1")
	assert.Same(t, session, again)
}

// Two hosts can both register a participant named Sam; names are unique per
// session, not globally, and neither host's state leaks into the other's.
func TestHostIsolation(t *testing.T) {
	ctx := context.Background()
	registry, _ := newTestRegistry(&stubCatalog{})

	s1, err := registry.Create(ctx, "host-1", nil)
	require.NoError(t, err)
	s2, err := registry.Create(ctx, "host-2", nil)
	require.NoError(t, err)

	sam1, err := s1.AddParticipant(ctx, "Sam", false)
	require.NoError(t, err)
	sam2, err := s2.AddParticipant(ctx, "Sam", false)
	require.NoError(t, err)
	assert.NotEqual(t, sam1.ID, sam2.ID)

	before := s2.Snapshot()

	_, _, err = s1.Start(ctx, sam1.ID)
	require.NoError(t, err)
	_, err = s1.SubmitAnswer(ctx, sam1.ID, "right")
	require.NoError(t, err)

	after := s2.Snapshot()
	assert.Equal(t, before.Status, after.Status)
	assert.Equal(t, before.Participants, after.Participants)
	assert.Nil(t, after.CurrentQuestion)
}

func TestEndRemovesSession(t *testing.T) {
	ctx := context.Background()
	registry, _ := newTestRegistry(&stubCatalog{})

	assert.False(t, registry.End(ctx, "host-1", game.ReasonHostEnd))

	session, err := registry.Create(ctx, "host-1", nil)
	require.NoError(t, err)
	events, cancel := session.Subscribe()
	defer cancel()
	<-events // initial snapshot

	assert.True(t, registry.End(ctx, "host-1", game.ReasonHostEnd))
	_, ok := registry.Get("host-1")
	assert.False(t, ok)

	// subscriber channels close on teardown
	_, open := <-events
	assert.False(t, open)
}

func TestListActive(t *testing.T) {
	ctx := context.Background()
	registry, _ := newTestRegistry(&stubCatalog{})

	assert.Empty(t, registry.ListActive())

	_, err := registry.Create(ctx, "host-1", nil)
	require.NoError(t, err)
	_, err = registry.Create(ctx, "host-2", nil)
	require.NoError(t, err)

	summaries := registry.ListActive()
	require.Len(t, summaries, 2)
	hosts := map[string]bool{}
	for _, summary := range summaries {
		hosts[summary.HostID] = true
		assert.Equal(t, domain.SessionWaiting, summary.Status)
	}
	assert.True(t, hosts["host-1"] && hosts["host-2"])
}
