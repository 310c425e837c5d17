package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// UserRole defines the account role.
type UserRole string

const (
	RoleInterviewer UserRole = "interviewer"
	RoleCandidate   UserRole = "candidate"
)

// User represents an account.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         UserRole
	Avatar       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// InterviewStatus defines the interview lifecycle state.
type InterviewStatus string

const (
	StatusScheduled  InterviewStatus = "scheduled"
	StatusInProgress InterviewStatus = "in-progress"
	StatusCompleted  InterviewStatus = "completed"
	StatusCancelled  InterviewStatus = "cancelled"
)

// Supported programming languages for the shared editor.
const (
	LangJavaScript = "javascript"
	LangPython     = "python"
	LangJava       = "java"
	LangCPP        = "cpp"
	LangGo         = "go"
	LangRuby       = "ruby"
)

// Interview represents a coding interview session record.
type Interview struct {
	ID              string
	Title           string
	Description     string
	InterviewerID   string
	InterviewerName string
	CandidateID     *string
	CandidateName   *string
	Status          InterviewStatus
	ScheduledAt     *time.Time
	StartedAt       *time.Time
	EndedAt         *time.Time
	Duration        *int // whole minutes
	Language        string
	TemplateID      *string
	Code            string
	Rating          *float64
	Notes           *string
	ShareLink       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ApplyStatus records a status transition observed at the given time.
// Entering in-progress sets the start timestamp only once; entering completed
// sets the end timestamp only once and, if a start timestamp exists, derives
// the duration as whole elapsed minutes rounded down. Repeat transitions
// leave the recorded timestamps and duration untouched. Any other status is
// stored as given with no derived-field side effects.
func (i *Interview) ApplyStatus(status string, at time.Time) {
	i.Status = InterviewStatus(status)

	switch i.Status {
	case StatusInProgress:
		if i.StartedAt == nil {
			t := at
			i.StartedAt = &t
		}
	case StatusCompleted:
		if i.EndedAt == nil {
			t := at
			i.EndedAt = &t
			if i.StartedAt != nil {
				minutes := int(i.EndedAt.Sub(*i.StartedAt).Seconds()) / 60
				i.Duration = &minutes
			}
		}
	}
}

// ChatMessage represents a persisted chat entry for an interview.
type ChatMessage struct {
	ID          string
	InterviewID string
	UserID      string
	UserName    string
	Message     string
	Timestamp   time.Time
}

// Difficulty defines the template difficulty level.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Template represents a reusable coding problem.
type Template struct {
	ID          string
	Title       string
	Description string
	Problem     string
	Examples    string
	Constraints string
	Difficulty  Difficulty
	Tags        []string
	StarterCode map[string]string // language -> code
	Solution    map[string]string // language -> code
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InvitationStatus defines the invitation lifecycle state.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

// Invitation represents an interview invitation sent to a candidate.
type Invitation struct {
	ID              string
	InterviewID     string
	InterviewTitle  string
	InterviewerName string
	CandidateID     string
	CandidateEmail  string
	Status          InvitationStatus
	ScheduledAt     *time.Time
	CreatedAt       time.Time
}

// UserStore handles account persistence.
type UserStore interface {
	// CreateUser inserts a new account.
	CreateUser(ctx context.Context, u *User) error

	// GetUserByID retrieves an account by id.
	GetUserByID(ctx context.Context, id string) (*User, error)

	// GetUserByEmail retrieves an account by email.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// UpdateUser updates mutable profile fields (name, avatar).
	UpdateUser(ctx context.Context, u *User) error
}

// InterviewStore handles interview persistence.
type InterviewStore interface {
	// CreateInterview inserts a new interview record.
	CreateInterview(ctx context.Context, i *Interview) error

	// GetInterview retrieves an interview by id.
	GetInterview(ctx context.Context, id string) (*Interview, error)

	// InterviewExists reports whether the interview id denotes a known record.
	InterviewExists(ctx context.Context, id string) (bool, error)

	// ListInterviews lists interviews the user takes part in, optionally
	// restricted to one side ("interviewer" or "candidate") and/or a status.
	ListInterviews(ctx context.Context, userID, role, status string) ([]*Interview, error)

	// ListInterviewsByInterviewer lists every interview run by the user.
	ListInterviewsByInterviewer(ctx context.Context, interviewerID string) ([]*Interview, error)

	// UpdateInterview persists the interview's mutable fields.
	UpdateInterview(ctx context.Context, i *Interview) error

	// DeleteInterview removes the interview and its chat history.
	DeleteInterview(ctx context.Context, id string) error

	// UpdateInterviewCode stores the latest editor contents.
	UpdateInterviewCode(ctx context.Context, id, code string) error

	// UpdateInterviewLanguage stores the active programming language.
	UpdateInterviewLanguage(ctx context.Context, id, language string) error

	// UpdateInterviewStatus applies a status transition observed at the
	// given time, including the start/end/duration bookkeeping.
	UpdateInterviewStatus(ctx context.Context, id, status string, at time.Time) error
}

// ChatStore handles chat history persistence.
type ChatStore interface {
	// SaveChatMessage appends a chat message.
	SaveChatMessage(ctx context.Context, m *ChatMessage) error

	// ListChatMessages retrieves messages for an interview, newest first.
	ListChatMessages(ctx context.Context, interviewID string, limit, offset int) ([]*ChatMessage, error)
}

// TemplateStore handles coding-problem template persistence.
type TemplateStore interface {
	// CreateTemplate inserts a new template.
	CreateTemplate(ctx context.Context, t *Template) error

	// GetTemplate retrieves a template by id.
	GetTemplate(ctx context.Context, id string) (*Template, error)

	// ListTemplates lists templates, optionally filtered by difficulty and a
	// search term matched against title and description.
	ListTemplates(ctx context.Context, difficulty, search string) ([]*Template, error)

	// UpdateTemplate persists the template's mutable fields.
	UpdateTemplate(ctx context.Context, t *Template) error

	// DeleteTemplate removes the template.
	DeleteTemplate(ctx context.Context, id string) error
}

// InvitationStore handles invitation persistence.
type InvitationStore interface {
	// CreateInvitation inserts a new invitation.
	CreateInvitation(ctx context.Context, inv *Invitation) error

	// GetInvitation retrieves an invitation by id.
	GetInvitation(ctx context.Context, id string) (*Invitation, error)

	// ListInvitations lists a candidate's invitations, optionally by status.
	ListInvitations(ctx context.Context, candidateID, status string) ([]*Invitation, error)

	// UpdateInvitationStatus sets the invitation status.
	UpdateInvitationStatus(ctx context.Context, id string, status InvitationStatus) error
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	InterviewStore
	ChatStore
	TemplateStore
	InvitationStore

	// Close closes the underlying database connection.
	Close() error
}
