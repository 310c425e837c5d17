package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/codeview/codeview-server/internal/store"
)

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLite store and bootstraps the schema.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Set connection pool limits
	db.SetMaxOpenConns(1) // SQLite works best with single connection
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// NewWithSetup creates a new SQLite store and runs a setup function after the
// schema is applied. Useful for tests to seed fixture rows.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	s, err := New(dbPath)
	if err != nil {
		return nil, err
	}

	if setup != nil {
		if err := setup(s.db); err != nil {
			s.db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	return s, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	name          TEXT NOT NULL,
	role          TEXT NOT NULL,
	avatar        TEXT NOT NULL DEFAULT '',
	created_at    DATETIME NOT NULL,
	updated_at    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS interviews (
	id               TEXT PRIMARY KEY,
	title            TEXT NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	interviewer_id   TEXT NOT NULL REFERENCES users(id),
	interviewer_name TEXT NOT NULL,
	candidate_id     TEXT,
	candidate_name   TEXT,
	status           TEXT NOT NULL DEFAULT 'scheduled',
	scheduled_at     DATETIME,
	started_at       DATETIME,
	ended_at         DATETIME,
	duration         INTEGER,
	language         TEXT NOT NULL,
	template_id      TEXT,
	code             TEXT NOT NULL DEFAULT '',
	rating           REAL,
	notes            TEXT,
	share_link       TEXT NOT NULL UNIQUE,
	created_at       DATETIME NOT NULL,
	updated_at       DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS chat_messages (
	id           TEXT PRIMARY KEY,
	interview_id TEXT NOT NULL REFERENCES interviews(id),
	user_id      TEXT NOT NULL,
	user_name    TEXT NOT NULL,
	message      TEXT NOT NULL,
	timestamp    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS code_templates (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	description  TEXT NOT NULL,
	problem      TEXT NOT NULL,
	examples     TEXT NOT NULL,
	constraints  TEXT NOT NULL,
	difficulty   TEXT NOT NULL,
	tags         TEXT NOT NULL DEFAULT '[]',
	starter_code TEXT NOT NULL DEFAULT '{}',
	solution     TEXT,
	created_by   TEXT NOT NULL,
	created_at   DATETIME NOT NULL,
	updated_at   DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS invitations (
	id               TEXT PRIMARY KEY,
	interview_id     TEXT NOT NULL REFERENCES interviews(id),
	interview_title  TEXT NOT NULL,
	interviewer_name TEXT NOT NULL,
	candidate_id     TEXT NOT NULL,
	candidate_email  TEXT NOT NULL,
	status           TEXT NOT NULL DEFAULT 'pending',
	scheduled_at     DATETIME,
	created_at       DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chat_messages_interview ON chat_messages(interview_id, timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_interviews_interviewer ON interviews(interviewer_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_invitations_candidate ON invitations(candidate_id, created_at DESC);
`

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ==== UserStore implementation ====

// CreateUser inserts a new account.
func (s *SQLiteStore) CreateUser(ctx context.Context, u *store.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, name, role, avatar, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query, u.ID, u.Email, u.PasswordHash, u.Name, string(u.Role), u.Avatar, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUserByID retrieves an account by id.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*store.User, error) {
	return s.getUser(ctx, "id", id)
}

// GetUserByEmail retrieves an account by email.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*store.User, error) {
	return s.getUser(ctx, "email", email)
}

func (s *SQLiteStore) getUser(ctx context.Context, column, value string) (*store.User, error) {
	query := `
		SELECT id, email, password_hash, name, role, avatar, created_at, updated_at
		FROM users
		WHERE ` + column + ` = ?
	`
	var u store.User
	var role string
	err := s.db.QueryRowContext(ctx, query, value).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &role, &u.Avatar, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	u.Role = store.UserRole(role)
	return &u, nil
}

// UpdateUser updates mutable profile fields.
func (s *SQLiteStore) UpdateUser(ctx context.Context, u *store.User) error {
	query := `
		UPDATE users SET name = ?, avatar = ?, updated_at = ?
		WHERE id = ?
	`
	res, err := s.db.ExecContext(ctx, query, u.Name, u.Avatar, time.Now().UTC(), u.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return requireRow(res)
}

// ==== InterviewStore implementation ====

const interviewColumns = `
	id, title, description, interviewer_id, interviewer_name, candidate_id, candidate_name,
	status, scheduled_at, started_at, ended_at, duration, language, template_id, code,
	rating, notes, share_link, created_at, updated_at
`

// CreateInterview inserts a new interview record.
func (s *SQLiteStore) CreateInterview(ctx context.Context, i *store.Interview) error {
	query := `
		INSERT INTO interviews (` + interviewColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		i.ID, i.Title, i.Description, i.InterviewerID, i.InterviewerName, i.CandidateID, i.CandidateName,
		string(i.Status), nullTime(i.ScheduledAt), nullTime(i.StartedAt), nullTime(i.EndedAt), i.Duration,
		i.Language, i.TemplateID, i.Code, i.Rating, i.Notes, i.ShareLink, i.CreatedAt, i.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert interview: %w", err)
	}
	return nil
}

// GetInterview retrieves an interview by id.
func (s *SQLiteStore) GetInterview(ctx context.Context, id string) (*store.Interview, error) {
	query := `SELECT ` + interviewColumns + ` FROM interviews WHERE id = ?`
	i, err := scanInterview(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select interview: %w", err)
	}
	return i, nil
}

// InterviewExists reports whether the interview id denotes a known record.
func (s *SQLiteStore) InterviewExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM interviews WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("select interview: %w", err)
	}
	return true, nil
}

// ListInterviews lists interviews the user takes part in.
func (s *SQLiteStore) ListInterviews(ctx context.Context, userID, role, status string) ([]*store.Interview, error) {
	query := `SELECT ` + interviewColumns + ` FROM interviews WHERE `
	args := []any{}

	switch role {
	case "interviewer":
		query += `interviewer_id = ?`
		args = append(args, userID)
	case "candidate":
		query += `candidate_id = ?`
		args = append(args, userID)
	default:
		query += `(interviewer_id = ? OR candidate_id = ?)`
		args = append(args, userID, userID)
	}

	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	return s.queryInterviews(ctx, query, args...)
}

// ListInterviewsByInterviewer lists every interview run by the user.
func (s *SQLiteStore) ListInterviewsByInterviewer(ctx context.Context, interviewerID string) ([]*store.Interview, error) {
	query := `SELECT ` + interviewColumns + ` FROM interviews WHERE interviewer_id = ? ORDER BY created_at DESC`
	return s.queryInterviews(ctx, query, interviewerID)
}

func (s *SQLiteStore) queryInterviews(ctx context.Context, query string, args ...any) ([]*store.Interview, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select interviews: %w", err)
	}
	defer rows.Close()

	var out []*store.Interview
	for rows.Next() {
		i, err := scanInterview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan interview: %w", err)
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

// UpdateInterview persists the interview's mutable fields.
func (s *SQLiteStore) UpdateInterview(ctx context.Context, i *store.Interview) error {
	query := `
		UPDATE interviews SET
			title = ?, description = ?, candidate_id = ?, candidate_name = ?, status = ?,
			scheduled_at = ?, started_at = ?, ended_at = ?, duration = ?, language = ?,
			template_id = ?, code = ?, rating = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`
	res, err := s.db.ExecContext(ctx, query,
		i.Title, i.Description, i.CandidateID, i.CandidateName, string(i.Status),
		nullTime(i.ScheduledAt), nullTime(i.StartedAt), nullTime(i.EndedAt), i.Duration, i.Language,
		i.TemplateID, i.Code, i.Rating, i.Notes, time.Now().UTC(), i.ID,
	)
	if err != nil {
		return fmt.Errorf("update interview: %w", err)
	}
	return requireRow(res)
}

// DeleteInterview removes the interview and its chat history.
func (s *SQLiteStore) DeleteInterview(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chat_messages WHERE interview_id = ?`, id); err != nil {
		return fmt.Errorf("delete chat messages: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM interviews WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete interview: %w", err)
	}
	if err := requireRow(res); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateInterviewCode stores the latest editor contents.
func (s *SQLiteStore) UpdateInterviewCode(ctx context.Context, id, code string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE interviews SET code = ?, updated_at = ? WHERE id = ?`,
		code, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update interview code: %w", err)
	}
	return requireRow(res)
}

// UpdateInterviewLanguage stores the active programming language.
func (s *SQLiteStore) UpdateInterviewLanguage(ctx context.Context, id, language string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE interviews SET language = ?, updated_at = ? WHERE id = ?`,
		language, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update interview language: %w", err)
	}
	return requireRow(res)
}

// UpdateInterviewStatus applies a status transition observed at the given
// time. The read-modify-write keeps the start/end/duration bookkeeping
// idempotent across repeated transitions.
func (s *SQLiteStore) UpdateInterviewStatus(ctx context.Context, id, status string, at time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var i store.Interview
	var started, ended sql.NullTime
	err = tx.QueryRowContext(ctx,
		`SELECT started_at, ended_at, duration FROM interviews WHERE id = ?`, id,
	).Scan(&started, &ended, &i.Duration)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("select interview times: %w", err)
	}
	i.StartedAt = timePtr(started)
	i.EndedAt = timePtr(ended)

	i.ApplyStatus(status, at)

	_, err = tx.ExecContext(ctx,
		`UPDATE interviews SET status = ?, started_at = ?, ended_at = ?, duration = ?, updated_at = ? WHERE id = ?`,
		string(i.Status), nullTime(i.StartedAt), nullTime(i.EndedAt), i.Duration, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update interview status: %w", err)
	}
	return tx.Commit()
}

// ==== ChatStore implementation ====

// SaveChatMessage appends a chat message.
func (s *SQLiteStore) SaveChatMessage(ctx context.Context, m *store.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (id, interview_id, user_id, user_name, message, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query, m.ID, m.InterviewID, m.UserID, m.UserName, m.Message, m.Timestamp)
	if err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}
	return nil
}

// ListChatMessages retrieves messages for an interview, newest first.
func (s *SQLiteStore) ListChatMessages(ctx context.Context, interviewID string, limit, offset int) ([]*store.ChatMessage, error) {
	query := `
		SELECT id, interview_id, user_id, user_name, message, timestamp
		FROM chat_messages
		WHERE interview_id = ?
		ORDER BY timestamp DESC
		LIMIT ? OFFSET ?
	`
	rows, err := s.db.QueryContext(ctx, query, interviewID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("select chat messages: %w", err)
	}
	defer rows.Close()

	var out []*store.ChatMessage
	for rows.Next() {
		var m store.ChatMessage
		if err := rows.Scan(&m.ID, &m.InterviewID, &m.UserID, &m.UserName, &m.Message, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// ==== TemplateStore implementation ====

// CreateTemplate inserts a new template.
func (s *SQLiteStore) CreateTemplate(ctx context.Context, t *store.Template) error {
	tags, starter, solution, err := encodeTemplateJSON(t)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO code_templates (id, title, description, problem, examples, constraints,
			difficulty, tags, starter_code, solution, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		t.ID, t.Title, t.Description, t.Problem, t.Examples, t.Constraints,
		string(t.Difficulty), tags, starter, solution, t.CreatedBy, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}

// GetTemplate retrieves a template by id.
func (s *SQLiteStore) GetTemplate(ctx context.Context, id string) (*store.Template, error) {
	query := `
		SELECT id, title, description, problem, examples, constraints, difficulty,
			tags, starter_code, solution, created_by, created_at, updated_at
		FROM code_templates
		WHERE id = ?
	`
	t, err := scanTemplate(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select template: %w", err)
	}
	return t, nil
}

// ListTemplates lists templates with optional difficulty and search filters.
func (s *SQLiteStore) ListTemplates(ctx context.Context, difficulty, search string) ([]*store.Template, error) {
	query := `
		SELECT id, title, description, problem, examples, constraints, difficulty,
			tags, starter_code, solution, created_by, created_at, updated_at
		FROM code_templates
		WHERE 1 = 1
	`
	args := []any{}
	if difficulty != "" {
		query += ` AND difficulty = ?`
		args = append(args, difficulty)
	}
	if search != "" {
		query += ` AND (title LIKE ? OR description LIKE ?)`
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select templates: %w", err)
	}
	defer rows.Close()

	var out []*store.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpdateTemplate persists the template's mutable fields.
func (s *SQLiteStore) UpdateTemplate(ctx context.Context, t *store.Template) error {
	tags, starter, solution, err := encodeTemplateJSON(t)
	if err != nil {
		return err
	}

	query := `
		UPDATE code_templates SET
			title = ?, description = ?, problem = ?, examples = ?, constraints = ?,
			difficulty = ?, tags = ?, starter_code = ?, solution = ?, updated_at = ?
		WHERE id = ?
	`
	res, err := s.db.ExecContext(ctx, query,
		t.Title, t.Description, t.Problem, t.Examples, t.Constraints,
		string(t.Difficulty), tags, starter, solution, time.Now().UTC(), t.ID,
	)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	return requireRow(res)
}

// DeleteTemplate removes the template.
func (s *SQLiteStore) DeleteTemplate(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM code_templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return requireRow(res)
}

// ==== InvitationStore implementation ====

// CreateInvitation inserts a new invitation.
func (s *SQLiteStore) CreateInvitation(ctx context.Context, inv *store.Invitation) error {
	query := `
		INSERT INTO invitations (id, interview_id, interview_title, interviewer_name,
			candidate_id, candidate_email, status, scheduled_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		inv.ID, inv.InterviewID, inv.InterviewTitle, inv.InterviewerName,
		inv.CandidateID, inv.CandidateEmail, string(inv.Status), nullTime(inv.ScheduledAt), inv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert invitation: %w", err)
	}
	return nil
}

// GetInvitation retrieves an invitation by id.
func (s *SQLiteStore) GetInvitation(ctx context.Context, id string) (*store.Invitation, error) {
	query := `
		SELECT id, interview_id, interview_title, interviewer_name, candidate_id,
			candidate_email, status, scheduled_at, created_at
		FROM invitations
		WHERE id = ?
	`
	inv, err := scanInvitation(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select invitation: %w", err)
	}
	return inv, nil
}

// ListInvitations lists a candidate's invitations, newest first.
func (s *SQLiteStore) ListInvitations(ctx context.Context, candidateID, status string) ([]*store.Invitation, error) {
	query := `
		SELECT id, interview_id, interview_title, interviewer_name, candidate_id,
			candidate_email, status, scheduled_at, created_at
		FROM invitations
		WHERE candidate_id = ?
	`
	args := []any{candidateID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select invitations: %w", err)
	}
	defer rows.Close()

	var out []*store.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// UpdateInvitationStatus sets the invitation status.
func (s *SQLiteStore) UpdateInvitationStatus(ctx context.Context, id string, status store.InvitationStatus) error {
	res, err := s.db.ExecContext(ctx, `UPDATE invitations SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("update invitation: %w", err)
	}
	return requireRow(res)
}

// ==== helpers ====

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInterview(row rowScanner) (*store.Interview, error) {
	var i store.Interview
	var status string
	var scheduled, started, ended sql.NullTime
	err := row.Scan(
		&i.ID, &i.Title, &i.Description, &i.InterviewerID, &i.InterviewerName, &i.CandidateID, &i.CandidateName,
		&status, &scheduled, &started, &ended, &i.Duration, &i.Language, &i.TemplateID, &i.Code,
		&i.Rating, &i.Notes, &i.ShareLink, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	i.Status = store.InterviewStatus(status)
	i.ScheduledAt = timePtr(scheduled)
	i.StartedAt = timePtr(started)
	i.EndedAt = timePtr(ended)
	return &i, nil
}

func scanTemplate(row rowScanner) (*store.Template, error) {
	var t store.Template
	var difficulty, tags, starter string
	var solution sql.NullString
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Problem, &t.Examples, &t.Constraints,
		&difficulty, &tags, &starter, &solution, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Difficulty = store.Difficulty(difficulty)
	if err := json.Unmarshal([]byte(tags), &t.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if err := json.Unmarshal([]byte(starter), &t.StarterCode); err != nil {
		return nil, fmt.Errorf("decode starter code: %w", err)
	}
	if solution.Valid && solution.String != "" {
		if err := json.Unmarshal([]byte(solution.String), &t.Solution); err != nil {
			return nil, fmt.Errorf("decode solution: %w", err)
		}
	}
	return &t, nil
}

func scanInvitation(row rowScanner) (*store.Invitation, error) {
	var inv store.Invitation
	var status string
	var scheduled sql.NullTime
	err := row.Scan(
		&inv.ID, &inv.InterviewID, &inv.InterviewTitle, &inv.InterviewerName, &inv.CandidateID,
		&inv.CandidateEmail, &status, &scheduled, &inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.Status = store.InvitationStatus(status)
	inv.ScheduledAt = timePtr(scheduled)
	return &inv, nil
}

func encodeTemplateJSON(t *store.Template) (tags, starter string, solution any, err error) {
	tagsBytes, err := json.Marshal(t.Tags)
	if err != nil {
		return "", "", nil, fmt.Errorf("encode tags: %w", err)
	}
	starterBytes, err := json.Marshal(t.StarterCode)
	if err != nil {
		return "", "", nil, fmt.Errorf("encode starter code: %w", err)
	}
	if t.Solution == nil {
		return string(tagsBytes), string(starterBytes), nil, nil
	}
	solutionBytes, err := json.Marshal(t.Solution)
	if err != nil {
		return "", "", nil, fmt.Errorf("encode solution: %w", err)
	}
	return string(tagsBytes), string(starterBytes), string(solutionBytes), nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
