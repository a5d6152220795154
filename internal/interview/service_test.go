package interview

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/avolkov/interviewd/internal/model"
	"github.com/avolkov/interviewd/internal/session"
)

func newTestService(fake *fakeCompleter) (*Service, *session.Store) {
	store := session.NewStore(0)
	svc := NewService(store, NewAdaptivePolicy(fake), fake)
	return svc, store
}

func TestSubmitAnswerRecordsScore(t *testing.T) {
	fake := &fakeCompleter{replies: []string{"Score: 4\n\nFeedback: Solid explanation."}}
	svc, store := newTestService(fake)
	sess := store.GetOrCreate("s1-backend-technical-1", "Backend Engineer", "backend", "technical")

	feedback, err := svc.SubmitAnswer(context.Background(), sess.ID, "What is indexing?", "It speeds up lookups.")
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if feedback != "Solid explanation." {
		t.Errorf("feedback = %q", feedback)
	}
	if len(sess.Scores) != 1 || sess.Scores[0] != 4.0 {
		t.Errorf("scores = %v, want [4]", sess.Scores)
	}
	if !strings.Contains(fake.prompts[0], "Backend Engineer") {
		t.Error("eval prompt should carry the session role")
	}
}

func TestSubmitAnswerUnknownSession(t *testing.T) {
	fake := &fakeCompleter{replies: []string{"Score: 5\n\nFeedback: Great."}}
	svc, store := newTestService(fake)

	feedback, err := svc.SubmitAnswer(context.Background(), "nope", "Q?", "A.")
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if feedback != "Great." {
		t.Errorf("feedback = %q", feedback)
	}
	// The answer is evaluated with default classification but no session is
	// created and no score recorded.
	if store.Len() != 0 {
		t.Errorf("store should stay empty, has %d sessions", store.Len())
	}
	if !strings.Contains(fake.prompts[0], "Software Engineer") {
		t.Error("eval prompt should fall back to the default role")
	}
}

func TestSubmitAnswerMalformedReplyFallsBack(t *testing.T) {
	raw := "I think this deserves a high grade."
	fake := &fakeCompleter{replies: []string{raw}}
	svc, store := newTestService(fake)
	sess := store.GetOrCreate("s1-backend-technical-1", "Backend Engineer", "backend", "technical")

	feedback, err := svc.SubmitAnswer(context.Background(), sess.ID, "Q?", "A.")
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if feedback != raw {
		t.Errorf("feedback = %q, want full raw reply", feedback)
	}
	if len(sess.Scores) != 1 || sess.Scores[0] != 3.0 {
		t.Errorf("scores = %v, want fallback [3]", sess.Scores)
	}
}

func TestSubmitAnswerUpstreamError(t *testing.T) {
	upstreamErr := errors.New("boom")
	fake := &fakeCompleter{err: upstreamErr}
	svc, store := newTestService(fake)
	sess := store.GetOrCreate("s1-backend-technical-1", "Backend Engineer", "backend", "technical")

	_, err := svc.SubmitAnswer(context.Background(), sess.ID, "Q?", "A.")
	if !errors.Is(err, upstreamErr) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if len(sess.Scores) != 0 {
		t.Errorf("no score should be recorded on failure, got %v", sess.Scores)
	}
}

func TestNextQuestionMergesClientAsked(t *testing.T) {
	fake := &fakeCompleter{replies: []string{"Fresh question?"}}
	svc, store := newTestService(fake)

	_, err := svc.NextQuestion(context.Background(), "s1-backend-technical-1",
		"Backend Engineer", "backend", "technical",
		[]string{"Old question one?", "Old question two?"})
	if err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}

	sess, ok := store.Get("s1-backend-technical-1")
	if !ok {
		t.Fatal("session not created")
	}
	for _, q := range []string{"Old question one?", "Old question two?", "Fresh question?"} {
		if !sess.WasAsked(q) {
			t.Errorf("asked set missing %q", q)
		}
	}
}

func TestSummaryIncludesTranscriptAndAverage(t *testing.T) {
	fake := &fakeCompleter{replies: []string{"1. Overall Performance: fine.\n\nBest regards,"}}
	svc, store := newTestService(fake)
	sess := store.GetOrCreate("s1-backend-technical-1", "Backend Engineer", "backend", "technical")
	sess.Scores = []float64{4, 5}

	transcript := []model.QA{
		{Question: "Q1?", Answer: "A1.", Feedback: "F1."},
		{Question: "Q2?", Answer: "A2.", Feedback: "F2."},
	}
	summary, err := svc.Summary(context.Background(), sess.ID, "Backend Engineer", "backend", "technical", "", transcript)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary != "1. Overall Performance: fine.\n\nBest regards," {
		t.Errorf("summary should be the raw reply, got %q", summary)
	}

	prompt := fake.prompts[0]
	for _, want := range []string{
		"the candidate",
		"Question: Q1?\nAnswer: A1.\nFeedback: F1.",
		"Question: Q2?\nAnswer: A2.\nFeedback: F2.",
		"Average performance score across the interview: 4.5 out of 5.",
		"1. Overall Performance:",
		"2. Strengths:",
		"3. Areas for Improvement:",
		"4. Actionable Next Steps:",
		"Best regards,",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("summary prompt missing %q", want)
		}
	}
}

func TestSummaryWithoutScoresOmitsAverage(t *testing.T) {
	fake := &fakeCompleter{replies: []string{"summary text"}}
	svc, _ := newTestService(fake)

	_, err := svc.Summary(context.Background(), "unknown", "QA Engineer", "general", "behavioral", "Dana", nil)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	prompt := fake.prompts[0]
	if strings.Contains(prompt, "Average performance score") {
		t.Error("average line should be omitted without scores")
	}
	if !strings.Contains(prompt, "Dana") {
		t.Error("candidate name should be embedded")
	}
}
