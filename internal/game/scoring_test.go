package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ZurcLeo/melzao-sub000/internal/domain"
)

func TestScoreAnswerCorrectAdvancesLevel(t *testing.T) {
	q := domain.Question{ID: "q1", Level: 3, CorrectAnswer: "B", HoneyValue: 120}
	out := scoreAnswer(q, 2, "B", time.Unix(100, 0))

	assert.True(t, out.Correct)
	assert.False(t, out.Won)
	assert.Equal(t, 3, out.NextLevel)
	assert.Equal(t, 120, out.TotalEarned)
	assert.True(t, out.Record.IsCorrect)
	assert.Equal(t, "q1", out.Record.QuestionID)
}

func TestScoreAnswerWrongHalvesHoney(t *testing.T) {
	q := domain.Question{ID: "q1", Level: 5, CorrectAnswer: "A", HoneyValue: 125}
	out := scoreAnswer(q, 4, "C", time.Unix(100, 0))

	assert.False(t, out.Correct)
	assert.Equal(t, 4, out.NextLevel)
	// floor(125/2)
	assert.Equal(t, 62, out.TotalEarned)
	assert.False(t, out.Record.IsCorrect)
	assert.Equal(t, "A", out.Record.CorrectAnswer)
}

func TestScoreAnswerLevelTenWins(t *testing.T) {
	q := domain.Question{ID: "q1", Level: 10, CorrectAnswer: "D", HoneyValue: 5000}
	out := scoreAnswer(q, 9, "D", time.Unix(100, 0))

	assert.True(t, out.Correct)
	assert.True(t, out.Won)
	assert.Equal(t, 10, out.NextLevel)
	assert.Equal(t, 5000, out.TotalEarned)
}
