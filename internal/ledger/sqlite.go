package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/spigell/matchboard/internal/application"
)

// Fixed-width fraction: RFC3339Nano trims trailing zeros, which breaks the
// lexicographic ORDER BY on whole-second timestamps.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// The partial unique index carries the uniqueness invariant: at most one
// non-withdrawn record per (job, candidate) pair, enforced by the database
// even across processes. Withdrawn records stay behind for audit.
const schema = `
CREATE TABLE IF NOT EXISTS applications (
	id           TEXT PRIMARY KEY,
	job_id       TEXT NOT NULL,
	candidate_id TEXT NOT NULL,
	resume_ref   TEXT NOT NULL DEFAULT '',
	cover_letter TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL,
	notes        TEXT NOT NULL DEFAULT '',
	submitted_at TEXT NOT NULL,
	updated_at   TEXT NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS applications_live_pair
	ON applications (job_id, candidate_id) WHERE status != 'WITHDRAWN';

CREATE INDEX IF NOT EXISTS applications_candidate ON applications (candidate_id);
CREATE INDEX IF NOT EXISTS applications_job ON applications (job_id);

CREATE TABLE IF NOT EXISTS application_history (
	application_id TEXT NOT NULL REFERENCES applications (id),
	seq            INTEGER NOT NULL,
	status         TEXT NOT NULL,
	at             TEXT NOT NULL,
	actor_id       TEXT NOT NULL,
	PRIMARY KEY (application_id, seq)
);
`

// SQLite is the durable Ledger implementation.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (and migrates) the ledger database at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger database %q: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating ledger schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Find(ctx context.Context, jobID, candidateID string) (*application.Application, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, job_id, candidate_id, resume_ref, cover_letter, status, notes, submitted_at, updated_at
		FROM applications
		WHERE job_id = ? AND candidate_id = ?
		ORDER BY (status != 'WITHDRAWN') DESC, submitted_at DESC, id DESC
		LIMIT 1`,
		jobID, candidateID,
	)
	return s.scanOne(ctx, row, "find")
}

func (s *SQLite) FindByID(ctx context.Context, id string) (*application.Application, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, job_id, candidate_id, resume_ref, cover_letter, status, notes, submitted_at, updated_at
		FROM applications
		WHERE id = ?`,
		id,
	)
	return s.scanOne(ctx, row, "find")
}

func (s *SQLite) Save(ctx context.Context, app *application.Application) (*application.Application, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &StorageUnavailableError{Op: "save", Err: err}
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO applications (id, job_id, candidate_id, resume_ref, cover_letter, status, notes, submitted_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			status = excluded.status,
			notes = excluded.notes,
			updated_at = excluded.updated_at`,
		app.ID,
		app.JobID,
		app.CandidateID,
		app.ResumeRef,
		app.CoverLetter,
		string(app.Status),
		app.Notes,
		app.SubmittedAt.UTC().Format(timeFormat),
		app.UpdatedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, s.duplicatePair(ctx, app)
		}
		return nil, &StorageUnavailableError{Op: "save", Err: err}
	}

	// History is append-only: existing rows never change.
	for seq, entry := range app.History {
		_, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO application_history (application_id, seq, status, at, actor_id)
			VALUES (?, ?, ?, ?, ?)`,
			app.ID,
			seq,
			string(entry.Status),
			entry.At.UTC().Format(timeFormat),
			entry.ActorID,
		)
		if err != nil {
			return nil, &StorageUnavailableError{Op: "save", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return nil, s.duplicatePair(ctx, app)
		}
		return nil, &StorageUnavailableError{Op: "save", Err: err}
	}
	committed = true

	return app.Clone(), nil
}

func (s *SQLite) ListByCandidate(ctx context.Context, candidateID string, page Page) ([]*application.Application, string, error) {
	return s.list(ctx, "candidate_id", candidateID, page)
}

func (s *SQLite) ListByJob(ctx context.Context, jobID string, page Page) ([]*application.Application, string, error) {
	return s.list(ctx, "job_id", jobID, page)
}

func (s *SQLite) list(ctx context.Context, column, value string, page Page) ([]*application.Application, string, error) {
	offset := 0
	if page.Cursor != "" {
		parsed, err := strconv.Atoi(page.Cursor)
		if err != nil || parsed < 0 {
			return nil, "", fmt.Errorf("invalid cursor %q", page.Cursor)
		}
		offset = parsed
	}
	limit := page.limit()

	// Fetch one extra row to know whether another page exists.
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, job_id, candidate_id, resume_ref, cover_letter, status, notes, submitted_at, updated_at
		FROM applications
		WHERE %s = ?
		ORDER BY submitted_at, id
		LIMIT ? OFFSET ?`, column),
		value, limit+1, offset,
	)
	if err != nil {
		return nil, "", &StorageUnavailableError{Op: "list", Err: err}
	}
	defer rows.Close()

	var apps []*application.Application
	for rows.Next() {
		app, err := scanApplication(rows.Scan)
		if err != nil {
			return nil, "", &StorageUnavailableError{Op: "list", Err: err}
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, "", &StorageUnavailableError{Op: "list", Err: err}
	}

	next := ""
	if len(apps) > limit {
		apps = apps[:limit]
		next = strconv.Itoa(offset + limit)
	}

	for _, app := range apps {
		if err := s.loadHistory(ctx, app); err != nil {
			return nil, "", err
		}
	}
	return apps, next, nil
}

func (s *SQLite) scanOne(ctx context.Context, row *sql.Row, op string) (*application.Application, error) {
	app, err := scanApplication(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &StorageUnavailableError{Op: op, Err: err}
	}
	if err := s.loadHistory(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *SQLite) loadHistory(ctx context.Context, app *application.Application) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT status, at, actor_id
		FROM application_history
		WHERE application_id = ?
		ORDER BY seq`,
		app.ID,
	)
	if err != nil {
		return &StorageUnavailableError{Op: "find", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status  string
			at      string
			actorID string
		)
		if err := rows.Scan(&status, &at, &actorID); err != nil {
			return &StorageUnavailableError{Op: "find", Err: err}
		}
		ts, err := time.Parse(timeFormat, at)
		if err != nil {
			return fmt.Errorf("parsing history timestamp for %s: %w", app.ID, err)
		}
		app.History = append(app.History, application.HistoryEntry{
			Status:  application.Status(status),
			At:      ts,
			ActorID: actorID,
		})
	}
	return rows.Err()
}

func scanApplication(scan func(...any) error) (*application.Application, error) {
	var (
		app         application.Application
		status      string
		submittedAt string
		updatedAt   string
	)
	err := scan(
		&app.ID,
		&app.JobID,
		&app.CandidateID,
		&app.ResumeRef,
		&app.CoverLetter,
		&status,
		&app.Notes,
		&submittedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	app.Status = application.Status(status)
	if app.SubmittedAt, err = time.Parse(timeFormat, submittedAt); err != nil {
		return nil, fmt.Errorf("parsing submitted_at for %s: %w", app.ID, err)
	}
	if app.UpdatedAt, err = time.Parse(timeFormat, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at for %s: %w", app.ID, err)
	}
	return &app, nil
}

// duplicatePair builds the duplicate error raised by the unique index,
// looking up the live record so the error carries its current status rather
// than a guess. SUBMITTED is the fallback when the record is gone by the time
// we look.
func (s *SQLite) duplicatePair(ctx context.Context, app *application.Application) error {
	existing := application.StatusSubmitted
	var status string
	err := s.db.QueryRowContext(ctx, `
		SELECT status FROM applications
		WHERE job_id = ? AND candidate_id = ? AND status != 'WITHDRAWN'`,
		app.JobID, app.CandidateID,
	).Scan(&status)
	if err == nil {
		existing = application.Status(status)
	}
	return &application.DuplicateApplicationError{
		JobID:       app.JobID,
		CandidateID: app.CandidateID,
		Existing:    existing,
	}
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
