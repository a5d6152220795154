package interview

import (
	"context"
	"fmt"

	"github.com/avolkov/interviewd/internal/bank"
	"github.com/avolkov/interviewd/internal/model"
)

// BankPolicy serves questions from the static question bank in insertion
// order, skipping any the session has already seen. Unlike the adaptive
// policy it filters by the explicit asked set and never adjusts difficulty;
// it is kept as the legacy question source, selectable via configuration.
type BankPolicy struct {
	bank *bank.Store
}

// NewBankPolicy creates a bank-backed policy.
func NewBankPolicy(b *bank.Store) *BankPolicy {
	return &BankPolicy{bank: b}
}

// NextQuestion returns the first bank question for the session's mode and
// domain that has not been asked yet.
func (p *BankPolicy) NextQuestion(_ context.Context, sess *model.Session) (string, error) {
	questions, err := p.bank.QuestionsFor(sess.Mode, sess.Domain)
	if err != nil {
		return "", fmt.Errorf("load bank questions: %w", err)
	}

	for _, q := range questions {
		if q.Text == "" || sess.WasAsked(q.Text) {
			continue
		}
		sess.QuestionCount++
		sess.MarkAsked(q.Text)
		return q.Text, nil
	}
	return "", ErrExhausted
}
