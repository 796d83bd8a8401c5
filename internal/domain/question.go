package domain

import (
	"math/rand"
	"strings"
)

const (
	// OptionCount is the number of answer options every question carries.
	OptionCount = 4

	// MinExamQuestions is the minimum number of valid questions an exam batch must yield.
	MinExamQuestions = 5

	// MaxExamQuestions caps the number of questions returned from an exam batch.
	MaxExamQuestions = 15

	// QuestionTypeMultipleChoice is the fixed question type tag.
	QuestionTypeMultipleChoice = "multiple_choice"

	minQuestionTextLen = 10
	minExplanationLen  = 5
)

// ExamType enumerates the supported exam tracks.
type ExamType string

const (
	ExamTypeJEE  ExamType = "JEE"
	ExamTypeNEET ExamType = "NEET"
)

// IsValid reports whether the exam type is one of the supported tracks.
func (e ExamType) IsValid() bool {
	return e == ExamTypeJEE || e == ExamTypeNEET
}

// Explanation holds the two-part explanation attached to a question.
type Explanation struct {
	Correct  string `json:"correct"`
	KeyPoint string `json:"key_point"`
}

// Question represents a validated multiple-choice question.
type Question struct {
	Text          string
	Options       []string
	CorrectAnswer int
	Explanation   Explanation
	Difficulty    int
	Topic         string
	Subtopic      string
	ExamType      ExamType
	QuestionType  string
	AgeGroup      string
}

// Validate checks the question format and returns the first violation found.
func (q *Question) Validate() error {
	if len(strings.TrimSpace(q.Text)) < minQuestionTextLen {
		return NewValidationFailedError("question text must be at least 10 characters")
	}
	if len(q.Options) != OptionCount {
		return NewValidationFailedError("question must have exactly 4 options")
	}
	seen := make(map[string]struct{}, OptionCount)
	for _, opt := range q.Options {
		trimmed := strings.TrimSpace(opt)
		if trimmed == "" {
			return NewValidationFailedError("options must be non-empty")
		}
		if _, dup := seen[trimmed]; dup {
			return NewValidationFailedError("options must be distinct")
		}
		seen[trimmed] = struct{}{}
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= OptionCount {
		return NewValidationFailedError("correct answer index is out of range")
	}
	if len(strings.TrimSpace(q.Explanation.Correct)) < minExplanationLen {
		return NewValidationFailedError("explanation must be at least 5 characters")
	}
	if len(strings.TrimSpace(q.Explanation.KeyPoint)) < minExplanationLen {
		return NewValidationFailedError("key point must be at least 5 characters")
	}
	return nil
}

// IsValidFormat is a total predicate over the question format. It never
// panics; any failure during evaluation reports false.
func (q *Question) IsValidFormat() (valid bool) {
	defer func() {
		if r := recover(); r != nil {
			valid = false
		}
	}()
	if q == nil {
		return false
	}
	return q.Validate() == nil
}

// ShuffleOptions returns a copy of the question with its options permuted by
// a Fisher-Yates shuffle driven by r, and the correct-answer index repaired
// to follow the originally correct option into its new position.
func (q *Question) ShuffleOptions(r *rand.Rand) *Question {
	shuffled := *q
	shuffled.Options = make([]string, len(q.Options))
	copy(shuffled.Options, q.Options)

	correct := shuffled.CorrectAnswer
	for i := len(shuffled.Options) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		shuffled.Options[i], shuffled.Options[j] = shuffled.Options[j], shuffled.Options[i]
		if correct == i {
			correct = j
		} else if correct == j {
			correct = i
		}
	}
	shuffled.CorrectAnswer = correct

	return &shuffled
}
