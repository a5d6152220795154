// Package bank stores the static question bank used by the legacy question
// policy. Questions live in SQLite; JSON files can be imported on top of the
// embedded defaults, with sha256 change detection so a re-run never mutates a
// bank that live sessions may reference.
package bank

import (
	"crypto/sha256"
	"database/sql"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/avolkov/interviewd/internal/model"

	_ "modernc.org/sqlite"
)

//go:embed default_bank.json
var defaultBank []byte

// Store is the SQLite-backed question bank.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the bank database and runs migrations.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS questions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		mode TEXT NOT NULL,
		domain TEXT NOT NULL DEFAULT '',
		text TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS bank_metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// InsertQuestion stores one bank question.
func (s *Store) InsertQuestion(q model.BankQuestion) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO questions (mode, domain, text) VALUES (?, ?, ?)`,
		q.Mode, q.Domain, q.Text,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// QuestionsFor returns the bank questions for a mode and domain in insertion
// order. Behavioral questions are not keyed by domain, so the domain filter
// only applies to technical mode.
func (s *Store) QuestionsFor(mode, domain string) ([]model.BankQuestion, error) {
	query := `SELECT id, mode, domain, text FROM questions WHERE mode = ? ORDER BY id`
	args := []any{mode}
	if mode == model.ModeTechnical {
		query = `SELECT id, mode, domain, text FROM questions WHERE mode = ? AND domain = ? ORDER BY id`
		args = append(args, domain)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.BankQuestion
	for rows.Next() {
		var q model.BankQuestion
		if err := rows.Scan(&q.ID, &q.Mode, &q.Domain, &q.Text); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// ListAll returns every question in the bank.
func (s *Store) ListAll() ([]model.BankQuestion, error) {
	rows, err := s.db.Query(`SELECT id, mode, domain, text FROM questions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.BankQuestion
	for rows.Next() {
		var q model.BankQuestion
		if err := rows.Scan(&q.ID, &q.Mode, &q.Domain, &q.Text); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// Count returns the number of questions in the bank.
func (s *Store) Count() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM questions`).Scan(&count)
	return count, err
}

// Seed loads the embedded default bank into an empty store. A non-empty
// store is left untouched.
func (s *Store) Seed() error {
	count, err := s.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var imports []model.BankImport
	if err := json.Unmarshal(defaultBank, &imports); err != nil {
		return fmt.Errorf("parse embedded bank: %w", err)
	}
	n, err := s.insertImports(imports)
	if err != nil {
		return err
	}
	slog.Info("seeded default question bank", "count", n)
	return nil
}

// ImportFile loads questions from a JSON file, skipping files whose content
// hash matches a previous import. A changed file is skipped with a warning
// rather than re-imported. Returns the number of questions inserted.
func (s *Store) ImportFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	storedHash, err := s.importedHash(path)
	if err != nil {
		return 0, fmt.Errorf("check import status for %s: %w", path, err)
	}
	if storedHash == hash {
		slog.Info("questions file unchanged, skipping", "path", path)
		return 0, nil
	}
	if storedHash != "" {
		slog.Warn("questions file changed since last import, skipping to avoid mutating the live bank", "path", path)
		return 0, nil
	}

	var imports []model.BankImport
	if err := json.Unmarshal(data, &imports); err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}

	n, err := s.insertImports(imports)
	if err != nil {
		return 0, fmt.Errorf("insert questions from %s: %w", path, err)
	}
	if err := s.setImportedHash(path, hash); err != nil {
		return 0, fmt.Errorf("record import for %s: %w", path, err)
	}
	slog.Info("imported questions", "path", path, "count", n)
	return n, nil
}

func (s *Store) insertImports(imports []model.BankImport) (int, error) {
	inserted := 0
	for _, qi := range imports {
		if qi.Text == "" {
			continue
		}
		_, err := s.InsertQuestion(model.BankQuestion{
			Mode:   qi.Mode,
			Domain: qi.Domain,
			Text:   qi.Text,
		})
		if err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

func (s *Store) importedHash(path string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM bank_metadata WHERE key = ?`, "import:"+path).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (s *Store) setImportedHash(path, hash string) error {
	_, err := s.db.Exec(
		`INSERT INTO bank_metadata (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = ?`,
		"import:"+path, hash, hash,
	)
	return err
}
