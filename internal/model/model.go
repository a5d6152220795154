package model

import (
	"sync"
	"time"
)

const (
	ModeTechnical  = "technical"
	ModeBehavioral = "behavioral"
)

// Difficulty represents question difficulty, derived from the candidate's
// rolling performance average.
type Difficulty string

const (
	DifficultyBasic       Difficulty = "basic"
	DifficultyModerate    Difficulty = "moderate"
	DifficultyChallenging Difficulty = "challenging"
)

// Session holds per-candidate interview state, keyed by an opaque id chosen
// by the client. It is owned by the session store; callers must hold the
// embedded mutex for the duration of any read-modify-write so that concurrent
// requests for the same id do not lose updates.
type Session struct {
	sync.Mutex

	ID     string
	Role   string
	Domain string
	Mode   string

	// Asked is the union of every question the server has emitted for this
	// session and any questions reported by the client, so tracking survives
	// client-side state loss.
	Asked map[string]struct{}

	// Topics collects keywords extracted from generated questions. They are
	// fed back into the generation prompt to bias away from repetition.
	Topics []string

	QuestionCount int
	Scores        []float64
	Difficulty    Difficulty
	CreatedAt     time.Time
}

// MarkAsked records a question as already issued. Empty strings are ignored.
func (s *Session) MarkAsked(question string) {
	if question == "" {
		return
	}
	if s.Asked == nil {
		s.Asked = make(map[string]struct{})
	}
	s.Asked[question] = struct{}{}
}

// WasAsked reports whether a question was already issued in this session.
func (s *Session) WasAsked(question string) bool {
	_, ok := s.Asked[question]
	return ok
}

// QA is one completed question/answer/feedback triple from the transcript.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Feedback string `json:"feedback"`
}

// BankQuestion is a static question from the legacy question bank.
type BankQuestion struct {
	ID     int64  `json:"id"`
	Mode   string `json:"mode"`
	Domain string `json:"domain"`
	Text   string `json:"text"`
}

// BankImport is used for loading bank questions from JSON. Behavioral
// questions carry an empty domain.
type BankImport struct {
	Mode   string `json:"mode"`
	Domain string `json:"domain,omitempty"`
	Text   string `json:"text"`
}

// ServerConfig holds runtime parameters set via CLI flags.
type ServerConfig struct {
	QuestionSource string // "adaptive" or "bank"
	SessionTTL     time.Duration
	AllowedOrigins []string
}
