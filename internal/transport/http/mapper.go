package http

import (
	"time"

	"github.com/codeview/codeview-server/internal/store"
)

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// UserResponse represents an account in API responses.
type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Avatar    string `json:"avatar,omitempty"`
	CreatedAt string `json:"created_at"`
}

func fromUser(u *store.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		Avatar:    u.Avatar,
		CreatedAt: formatTime(u.CreatedAt),
	}
}

// InterviewResponse represents an interview in API responses.
type InterviewResponse struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	InterviewerID   string   `json:"interviewer_id"`
	InterviewerName string   `json:"interviewer_name"`
	CandidateID     *string  `json:"candidate_id,omitempty"`
	CandidateName   *string  `json:"candidate_name,omitempty"`
	Status          string   `json:"status"`
	ScheduledAt     *string  `json:"scheduled_at,omitempty"`
	StartedAt       *string  `json:"started_at,omitempty"`
	EndedAt         *string  `json:"ended_at,omitempty"`
	Duration        *int     `json:"duration,omitempty"`
	Language        string   `json:"language"`
	TemplateID      *string  `json:"template_id,omitempty"`
	Code            string   `json:"code"`
	Rating          *float64 `json:"rating,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
	ShareLink       string   `json:"share_link"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

func fromInterview(i *store.Interview) InterviewResponse {
	return InterviewResponse{
		ID:              i.ID,
		Title:           i.Title,
		Description:     i.Description,
		InterviewerID:   i.InterviewerID,
		InterviewerName: i.InterviewerName,
		CandidateID:     i.CandidateID,
		CandidateName:   i.CandidateName,
		Status:          string(i.Status),
		ScheduledAt:     formatTimePtr(i.ScheduledAt),
		StartedAt:       formatTimePtr(i.StartedAt),
		EndedAt:         formatTimePtr(i.EndedAt),
		Duration:        i.Duration,
		Language:        i.Language,
		TemplateID:      i.TemplateID,
		Code:            i.Code,
		Rating:          i.Rating,
		Notes:           i.Notes,
		ShareLink:       i.ShareLink,
		CreatedAt:       formatTime(i.CreatedAt),
		UpdatedAt:       formatTime(i.UpdatedAt),
	}
}

// ChatMessageResponse represents a persisted chat message in API responses.
type ChatMessageResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func fromChatMessage(m *store.ChatMessage) ChatMessageResponse {
	return ChatMessageResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		UserName:  m.UserName,
		Message:   m.Message,
		Timestamp: formatTime(m.Timestamp),
	}
}

// TemplateResponse represents a coding-problem template in API responses.
type TemplateResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Problem     string            `json:"problem"`
	Examples    string            `json:"examples"`
	Constraints string            `json:"constraints"`
	Difficulty  string            `json:"difficulty"`
	Tags        []string          `json:"tags"`
	StarterCode map[string]string `json:"starter_code"`
	Solution    map[string]string `json:"solution,omitempty"`
	CreatedBy   string            `json:"created_by"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

func fromTemplate(t *store.Template) TemplateResponse {
	return TemplateResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Problem:     t.Problem,
		Examples:    t.Examples,
		Constraints: t.Constraints,
		Difficulty:  string(t.Difficulty),
		Tags:        t.Tags,
		StarterCode: t.StarterCode,
		Solution:    t.Solution,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   formatTime(t.CreatedAt),
		UpdatedAt:   formatTime(t.UpdatedAt),
	}
}

// InvitationResponse represents an invitation in API responses.
type InvitationResponse struct {
	ID              string  `json:"id"`
	InterviewID     string  `json:"interview_id"`
	InterviewTitle  string  `json:"interview_title"`
	InterviewerName string  `json:"interviewer_name"`
	CandidateID     string  `json:"candidate_id"`
	CandidateEmail  string  `json:"candidate_email"`
	Status          string  `json:"status"`
	ScheduledAt     *string `json:"scheduled_at,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

func fromInvitation(inv *store.Invitation) InvitationResponse {
	return InvitationResponse{
		ID:              inv.ID,
		InterviewID:     inv.InterviewID,
		InterviewTitle:  inv.InterviewTitle,
		InterviewerName: inv.InterviewerName,
		CandidateID:     inv.CandidateID,
		CandidateEmail:  inv.CandidateEmail,
		Status:          string(inv.Status),
		ScheduledAt:     formatTimePtr(inv.ScheduledAt),
		CreatedAt:       formatTime(inv.CreatedAt),
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}
