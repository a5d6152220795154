package interview

import (
	"context"

	"github.com/avolkov/interviewd/internal/llm"
	"github.com/avolkov/interviewd/internal/llm/prompts"
	"github.com/avolkov/interviewd/internal/model"
	"github.com/avolkov/interviewd/internal/session"
)

// Classification defaults used when an answer arrives for an unknown session.
// The answer is still evaluated; only the score recording is skipped.
const (
	defaultRole   = "Software Engineer"
	defaultDomain = "general"
	defaultMode   = model.ModeTechnical
)

// Service orchestrates the session store, question policy, and completion
// client behind the HTTP handlers.
type Service struct {
	store  *session.Store
	policy Policy
	llm    llm.Completer
}

// NewService creates a Service.
func NewService(store *session.Store, policy Policy, completer llm.Completer) *Service {
	return &Service{store: store, policy: policy, llm: completer}
}

// NextQuestion fetches or creates the session, merges the client-reported
// asked set into the server-side one, and delegates question selection to the
// configured policy. Returns ErrExhausted when the session has no questions
// left.
func (s *Service) NextQuestion(ctx context.Context, id, role, domain, mode string, clientAsked []string) (string, error) {
	sess := s.store.GetOrCreate(id, role, domain, mode)

	sess.Lock()
	defer sess.Unlock()

	for _, q := range clientAsked {
		sess.MarkAsked(q)
	}
	return s.policy.NextQuestion(ctx, sess)
}

// SubmitAnswer evaluates an answer and returns the feedback text. The parsed
// score is appended to the session's rolling scores when the session id is
// known; an unknown id silently skips recording and evaluates with default
// classification instead.
func (s *Service) SubmitAnswer(ctx context.Context, id, question, answer string) (string, error) {
	role, domain, mode := defaultRole, defaultDomain, defaultMode
	sess, known := s.store.Get(id)
	if known {
		sess.Lock()
		role, domain, mode = sess.Role, sess.Domain, sess.Mode
		sess.Unlock()
	}

	reply, err := s.llm.Complete(ctx, prompts.System, prompts.BuildEvalPrompt(role, domain, mode, question, answer))
	if err != nil {
		return "", err
	}

	score, feedback := ParseScoreReply(reply)
	if known {
		sess.Lock()
		sess.Scores = append(sess.Scores, score)
		sess.Unlock()
	}
	return feedback, nil
}

// Summary builds the final evaluation prompt from the full transcript and
// returns the model's reply verbatim. No validation of the model's adherence
// to the requested format is performed.
func (s *Service) Summary(ctx context.Context, id, role, domain, mode, candidateName string, transcript []model.QA) (string, error) {
	if candidateName == "" {
		candidateName = "the candidate"
	}

	var scores []float64
	if sess, ok := s.store.Get(id); ok {
		sess.Lock()
		scores = append(scores, sess.Scores...)
		sess.Unlock()
	}

	prompt := prompts.BuildSummaryPrompt(role, domain, mode, candidateName, transcript, scores)
	return s.llm.Complete(ctx, prompts.System, prompt)
}
