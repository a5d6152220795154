package interview

import (
	"context"
	"strings"

	"github.com/avolkov/interviewd/internal/llm"
	"github.com/avolkov/interviewd/internal/llm/prompts"
	"github.com/avolkov/interviewd/internal/model"
)

// AdaptivePolicy generates each question with the completion service, tuning
// difficulty and interview length to the candidate's rolling average. This is
// the default policy.
type AdaptivePolicy struct {
	llm llm.Completer
}

// NewAdaptivePolicy creates an adaptive policy backed by the given completer.
func NewAdaptivePolicy(c llm.Completer) *AdaptivePolicy {
	return &AdaptivePolicy{llm: c}
}

// NextQuestion asks the model for one question at the difficulty implied by
// the session's rolling average. Generated text is not checked against the
// asked set; the covered-topics list in the prompt is the only
// anti-repetition signal.
func (p *AdaptivePolicy) NextQuestion(ctx context.Context, sess *model.Session) (string, error) {
	avg := PerformanceAverage(sess.Scores)
	if sess.QuestionCount >= MaxQuestionsFor(avg) {
		return "", ErrExhausted
	}
	sess.Difficulty = DifficultyFor(avg)

	prompt := prompts.BuildQuestionPrompt(sess.Role, sess.Domain, sess.Mode, sess.Topics, avg, sess.Difficulty)
	reply, err := p.llm.Complete(ctx, prompts.System, prompt)
	if err != nil {
		return "", err
	}

	question := strings.TrimSpace(reply)
	sess.QuestionCount++
	sess.MarkAsked(question)
	if topic, ok := ExtractTopic(question); ok {
		sess.Topics = append(sess.Topics, topic)
	}
	return question, nil
}
