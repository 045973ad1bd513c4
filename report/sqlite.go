package report

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/multierr"

	"github.com/powellquiring/badgames/letters"
	"github.com/powellquiring/badgames/search"
)

const (
	schema = `CREATE TABLE IF NOT EXISTS chains (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	answer  TEXT NOT NULL,
	guesses TEXT NOT NULL,
	budget  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS chains_answer ON chains(answer);`

	insertChain = `INSERT INTO chains (answer, guesses, budget) VALUES (?, ?, ?)`

	guessSeparator = ", "

	// rows held by a sink before they are written
	batchSize = 512
)

// SQLite stores each chain as a row of the chains table
type SQLite struct {
	db       *sql.DB
	renderer Renderer
	budget   int
}

func NewSQLite(path string, r Renderer, budget int) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// sqlite has one writer, the sinks take turns
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema in %s: %w", path, err)
	}
	return &SQLite{db: db, renderer: r, budget: budget}, nil
}

func (s *SQLite) Open(answer letters.Mask) (Sink, error) {
	return &sqliteSink{store: s, rows: make([]Line, 0, batchSize)}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// Lines returns the stored chains for answer, in insertion order
func (s *SQLite) Lines(answer string) ([]Line, error) {
	rows, err := s.db.Query(`SELECT answer, guesses FROM chains WHERE answer = ? ORDER BY id`, answer)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := []Line{}
	for rows.Next() {
		var line Line
		var guesses string
		if err := rows.Scan(&line.Answer, &guesses); err != nil {
			return nil, err
		}
		line.Guesses = strings.Split(guesses, guessSeparator)
		ret = append(ret, line)
	}
	return ret, rows.Err()
}

func (s *SQLite) insert(lines []Line) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(insertChain)
	if err != nil {
		return multierr.Append(err, tx.Rollback())
	}
	defer stmt.Close()
	for _, line := range lines {
		if _, err := stmt.Exec(line.Answer, strings.Join(line.Guesses, guessSeparator), s.budget); err != nil {
			return multierr.Append(err, tx.Rollback())
		}
	}
	return tx.Commit()
}

type sqliteSink struct {
	store *SQLite
	rows  []Line
}

func (ss *sqliteSink) Emit(chain search.Chain) error {
	ss.rows = append(ss.rows, ss.store.renderer.Render(chain))
	if len(ss.rows) >= batchSize {
		return ss.flush()
	}
	return nil
}

func (ss *sqliteSink) flush() error {
	if len(ss.rows) == 0 {
		return nil
	}
	err := ss.store.insert(ss.rows)
	ss.rows = ss.rows[:0]
	return err
}

func (ss *sqliteSink) Close() error {
	return ss.flush()
}
