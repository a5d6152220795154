package bank

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/avolkov/interviewd/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "bank.db"))
	if err != nil {
		t.Fatalf("newTestStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSeedIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	if err := s.Seed(); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	count, err := s.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 20 {
		t.Fatalf("expected 20 seeded questions, got %d", count)
	}

	if err := s.Seed(); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	count, _ = s.Count()
	if count != 20 {
		t.Errorf("second seed changed the bank: %d questions", count)
	}
}

func TestQuestionsFor(t *testing.T) {
	s := newTestStore(t)
	if err := s.Seed(); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	backend, err := s.QuestionsFor(model.ModeTechnical, "backend")
	if err != nil {
		t.Fatalf("QuestionsFor: %v", err)
	}
	if len(backend) != 4 {
		t.Fatalf("expected 4 backend questions, got %d", len(backend))
	}
	if backend[0].Text != "Explain the concept of REST vs. GraphQL." {
		t.Errorf("unexpected first backend question: %q", backend[0].Text)
	}

	// Behavioral questions are shared across domains.
	behavioral, err := s.QuestionsFor(model.ModeBehavioral, "backend")
	if err != nil {
		t.Fatalf("QuestionsFor behavioral: %v", err)
	}
	if len(behavioral) != 5 {
		t.Errorf("expected 5 behavioral questions, got %d", len(behavioral))
	}

	none, err := s.QuestionsFor(model.ModeTechnical, "embedded")
	if err != nil {
		t.Fatalf("QuestionsFor unknown domain: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no questions for unknown domain, got %d", len(none))
	}
}

func TestImportFile(t *testing.T) {
	s := newTestStore(t)

	path := filepath.Join(t.TempDir(), "extra.json")
	content := `[
		{"mode": "technical", "domain": "devops", "text": "What is a blue-green deployment?"},
		{"mode": "technical", "domain": "devops", "text": "Explain infrastructure as code."}
	]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	n, err := s.ImportFile(path)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 imported, got %d", n)
	}

	// Unchanged file: skipped.
	n, err = s.ImportFile(path)
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if n != 0 {
		t.Errorf("expected unchanged file to be skipped, imported %d", n)
	}

	// Changed file: skipped to protect the live bank.
	if err := os.WriteFile(path, []byte(`[{"mode": "technical", "domain": "devops", "text": "New question?"}]`), 0o644); err != nil {
		t.Fatalf("rewrite file: %v", err)
	}
	n, err = s.ImportFile(path)
	if err != nil {
		t.Fatalf("import changed file: %v", err)
	}
	if n != 0 {
		t.Errorf("expected changed file to be skipped, imported %d", n)
	}

	count, _ := s.Count()
	if count != 2 {
		t.Errorf("expected 2 questions total, got %d", count)
	}
}

func TestImportFileMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.ImportFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
