// Package interview implements the session policy and scoring core: which
// question to ask next, how difficult it should be, and how to turn the
// model's free-form grading reply into a score.
package interview

import (
	"context"
	"errors"
	"strings"

	"github.com/avolkov/interviewd/internal/model"
)

// ErrExhausted signals that no more questions are available for a session.
// It is a normal terminal state, not a failure.
var ErrExhausted = errors.New("no more questions")

// Policy decides the next question for a session. The caller must hold the
// session lock across the call.
type Policy interface {
	NextQuestion(ctx context.Context, sess *model.Session) (string, error)
}

// PerformanceAverage returns the arithmetic mean of the recorded scores,
// defaulting to 3.0 when none exist yet.
func PerformanceAverage(scores []float64) float64 {
	if len(scores) == 0 {
		return 3.0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

// MaxQuestionsFor derives the adaptive interview length: strong candidates
// get more questions.
func MaxQuestionsFor(avg float64) int {
	switch {
	case avg >= 4.0:
		return 5
	case avg >= 3.0:
		return 4
	default:
		return 3
	}
}

// DifficultyFor derives the difficulty band for the next question.
func DifficultyFor(avg float64) model.Difficulty {
	switch {
	case avg >= 4.0:
		return model.DifficultyChallenging
	case avg >= 3.0:
		return model.DifficultyModerate
	default:
		return model.DifficultyBasic
	}
}

// topicStoplist holds filler words that would otherwise win the
// first-long-word heuristic.
var topicStoplist = map[string]bool{
	"about":   true,
	"would":   true,
	"could":   true,
	"should":  true,
	"explain": true,
}

// ExtractTopic picks a topic keyword from a generated question: the first
// word longer than four characters, lower-cased, that is not a stoplisted
// filler. The keyword is a heuristic hint for the generation prompt, not
// guaranteed to be unique or meaningful.
func ExtractTopic(question string) (string, bool) {
	for _, word := range strings.Fields(strings.ToLower(question)) {
		word = strings.Trim(word, ".,;:!?\"'()")
		if len(word) > 4 && !topicStoplist[word] {
			return word, true
		}
	}
	return "", false
}
