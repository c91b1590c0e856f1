package game

import (
	"time"

	"github.com/ZurcLeo/melzao-sub000/internal/domain"
)

// Outcome is the scoring result for one submitted answer.
type Outcome struct {
	Correct     bool
	Won         bool
	NextLevel   int
	TotalEarned int
	Record      domain.AnswerRecord
}

// scoreAnswer applies the honey rules to a submitted answer. A correct answer
// advances the participant one level and sets earnings to the question's
// honey value; a wrong answer keeps the level and halves the missed
// question's value. Winning means clearing level ten.
func scoreAnswer(q domain.Question, level int, answer string, at time.Time) Outcome {
	out := Outcome{Correct: answer == q.CorrectAnswer, NextLevel: level}
	if out.Correct {
		out.NextLevel = level + 1
		out.TotalEarned = q.HoneyValue
		out.Won = out.NextLevel >= domain.MaxLevel
	} else {
		out.TotalEarned = q.HoneyValue / 2
	}
	out.Record = domain.AnswerRecord{
		QuestionID:     q.ID,
		SelectedAnswer: answer,
		CorrectAnswer:  q.CorrectAnswer,
		IsCorrect:      out.Correct,
		HoneyEarned:    out.TotalEarned,
		Level:          q.Level,
		AnsweredAt:     at,
	}
	return out
}
