package domain

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validQuestion() *Question {
	return &Question{
		Text:          "What is the powerhouse of the cell?",
		Options:       []string{"Mitochondria", "Nucleus", "Ribosome", "Golgi body"},
		CorrectAnswer: 0,
		Explanation: Explanation{
			Correct:  "Mitochondria generate most of the cell's ATP.",
			KeyPoint: "ATP production happens in the mitochondria.",
		},
		Difficulty:   1,
		Topic:        "Biology",
		Subtopic:     "Cell Structure",
		QuestionType: QuestionTypeMultipleChoice,
		AgeGroup:     "16-18",
	}
}

func TestQuestionValidate(t *testing.T) {
	t.Run("valid question passes", func(t *testing.T) {
		assert.NoError(t, validQuestion().Validate())
		assert.True(t, validQuestion().IsValidFormat())
	})

	t.Run("short text fails", func(t *testing.T) {
		q := validQuestion()
		q.Text = "Short?"
		assert.Error(t, q.Validate())
		assert.False(t, q.IsValidFormat())
	})

	t.Run("whitespace text fails", func(t *testing.T) {
		q := validQuestion()
		q.Text = "             "
		assert.False(t, q.IsValidFormat())
	})

	t.Run("wrong option count fails", func(t *testing.T) {
		q := validQuestion()
		q.Options = q.Options[:3]
		assert.False(t, q.IsValidFormat())

		q = validQuestion()
		q.Options = append(q.Options, "Lysosome")
		assert.False(t, q.IsValidFormat())

		q = validQuestion()
		q.Options = nil
		assert.False(t, q.IsValidFormat())
	})

	t.Run("empty option fails", func(t *testing.T) {
		q := validQuestion()
		q.Options[2] = "   "
		assert.False(t, q.IsValidFormat())
	})

	t.Run("duplicate options fail", func(t *testing.T) {
		q := validQuestion()
		q.Options[3] = q.Options[0]
		assert.False(t, q.IsValidFormat())
	})

	t.Run("options duplicated up to whitespace fail", func(t *testing.T) {
		q := validQuestion()
		q.Options[3] = "  " + q.Options[0] + " "
		assert.False(t, q.IsValidFormat())
	})

	t.Run("out of range correct answer fails", func(t *testing.T) {
		q := validQuestion()
		q.CorrectAnswer = 4
		assert.False(t, q.IsValidFormat())

		q = validQuestion()
		q.CorrectAnswer = -1
		assert.False(t, q.IsValidFormat())
	})

	t.Run("short explanation fails", func(t *testing.T) {
		q := validQuestion()
		q.Explanation.Correct = "ok"
		assert.False(t, q.IsValidFormat())

		q = validQuestion()
		q.Explanation.KeyPoint = "    "
		assert.False(t, q.IsValidFormat())
	})

	t.Run("nil question is false not panic", func(t *testing.T) {
		var q *Question
		assert.NotPanics(t, func() {
			assert.False(t, q.IsValidFormat())
		})
	})
}

func TestShuffleOptions(t *testing.T) {
	t.Run("preserves option multiset and correct answer text", func(t *testing.T) {
		rng := rand.New(rand.NewSource(42))
		for i := 0; i < 200; i++ {
			q := validQuestion()
			q.CorrectAnswer = i % 4
			correctText := q.Options[q.CorrectAnswer]

			shuffled := q.ShuffleOptions(rng)

			assert.Equal(t, correctText, shuffled.Options[shuffled.CorrectAnswer])

			original := append([]string(nil), q.Options...)
			permuted := append([]string(nil), shuffled.Options...)
			sort.Strings(original)
			sort.Strings(permuted)
			assert.Equal(t, original, permuted)
		}
	})

	t.Run("does not mutate the original", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))
		q := validQuestion()
		before := append([]string(nil), q.Options...)

		_ = q.ShuffleOptions(rng)

		assert.Equal(t, before, q.Options)
		assert.Equal(t, 0, q.CorrectAnswer)
	})

	t.Run("repeated shuffles never lose the correct option", func(t *testing.T) {
		rng := rand.New(rand.NewSource(99))
		q := validQuestion()
		correctText := q.Options[q.CorrectAnswer]

		for i := 0; i < 50; i++ {
			q = q.ShuffleOptions(rng)
			assert.Equal(t, correctText, q.Options[q.CorrectAnswer])
		}
	})

	t.Run("deterministic for a fixed seed", func(t *testing.T) {
		a := validQuestion().ShuffleOptions(rand.New(rand.NewSource(1)))
		b := validQuestion().ShuffleOptions(rand.New(rand.NewSource(1)))
		assert.Equal(t, a.Options, b.Options)
		assert.Equal(t, a.CorrectAnswer, b.CorrectAnswer)
	})
}

func TestExamTypeIsValid(t *testing.T) {
	assert.True(t, ExamTypeJEE.IsValid())
	assert.True(t, ExamTypeNEET.IsValid())
	assert.False(t, ExamType("SAT").IsValid())
	assert.False(t, ExamType("").IsValid())
}

func TestUserContextAgeGroup(t *testing.T) {
	assert.Equal(t, "17", UserContext{"age": float64(17)}.AgeGroup())
	assert.Equal(t, "16-18", UserContext{"age": "16-18"}.AgeGroup())
	assert.Equal(t, "", UserContext{}.AgeGroup())
	assert.Equal(t, "", UserContext(nil).AgeGroup())
}
