package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/codeview/codeview-server/internal/core"
	"github.com/codeview/codeview-server/internal/store"
)

// InterviewHandlers provides HTTP handlers for interview management.
type InterviewHandlers struct {
	store    store.Store
	registry *core.Registry
	log      *zerolog.Logger
}

// NewInterviewHandlers creates a new interview handlers instance.
func NewInterviewHandlers(st store.Store, registry *core.Registry, logger *zerolog.Logger) *InterviewHandlers {
	return &InterviewHandlers{
		store:    st,
		registry: registry,
		log:      logger,
	}
}

// CreateInterviewRequest represents the create interview request body.
type CreateInterviewRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=200"`
	Description string     `json:"description"`
	Language    string     `json:"language" binding:"required,oneof=javascript python java cpp go ruby"`
	TemplateID  *string    `json:"template_id"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

// UpdateInterviewRequest represents the interview update request body.
type UpdateInterviewRequest struct {
	Title         *string    `json:"title" binding:"omitempty,min=1,max=200"`
	Description   *string    `json:"description"`
	CandidateID   *string    `json:"candidate_id"`
	CandidateName *string    `json:"candidate_name"`
	Status        *string    `json:"status" binding:"omitempty,oneof=scheduled in-progress completed cancelled"`
	ScheduledAt   *time.Time `json:"scheduled_at"`
	Rating        *float64   `json:"rating" binding:"omitempty,min=0,max=5"`
	Notes         *string    `json:"notes"`
}

// InterviewStatsResponse represents interviewer statistics.
type InterviewStatsResponse struct {
	Total       int     `json:"total"`
	Completed   int     `json:"completed"`
	AvgDuration float64 `json:"avg_duration"`
}

// CreateInterview handles interview creation.
// POST /api/interviews
func (h *InterviewHandlers) CreateInterview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req CreateInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid create interview request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.store.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("failed to load user")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	now := time.Now().UTC()
	id := uuid.NewString()
	interview := &store.Interview{
		ID:              id,
		Title:           req.Title,
		Description:     req.Description,
		InterviewerID:   user.ID,
		InterviewerName: user.Name,
		Status:          store.StatusScheduled,
		ScheduledAt:     req.ScheduledAt,
		Language:        req.Language,
		TemplateID:      req.TemplateID,
		Code:            h.starterCode(c, req.Language, req.TemplateID),
		ShareLink:       "/interview/" + id,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := h.store.CreateInterview(c.Request.Context(), interview); err != nil {
		h.log.Error().Err(err).Str("interview_id", id).Msg("failed to create interview")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Str("interview_id", id).Str("interviewer_id", user.ID).Msg("interview created")
	c.JSON(http.StatusCreated, fromInterview(interview))
}

// ListInterviews handles listing the user's interviews with optional filters.
// GET /api/interviews?role=&status=
func (h *InterviewHandlers) ListInterviews(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	interviews, err := h.store.ListInterviews(c.Request.Context(), userID, c.Query("role"), c.Query("status"))
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("failed to list interviews")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]InterviewResponse, 0, len(interviews))
	for _, i := range interviews {
		response = append(response, fromInterview(i))
	}
	c.JSON(http.StatusOK, response)
}

// GetStats returns the authenticated interviewer's statistics.
// GET /api/interviews/stats
func (h *InterviewHandlers) GetStats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	interviews, err := h.store.ListInterviewsByInterviewer(c.Request.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list interviews for stats")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	stats := InterviewStatsResponse{Total: len(interviews)}
	totalDuration := 0
	for _, i := range interviews {
		if i.Status != store.StatusCompleted {
			continue
		}
		stats.Completed++
		if i.Duration != nil {
			totalDuration += *i.Duration
		}
	}
	if stats.Completed > 0 {
		stats.AvgDuration = float64(totalDuration) / float64(stats.Completed)
	}

	c.JSON(http.StatusOK, stats)
}

// GetInterview handles fetching a single interview.
// GET /api/interviews/:id
func (h *InterviewHandlers) GetInterview(c *gin.Context) {
	interview, ok := h.loadInterviewWithAccess(c, false)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, fromInterview(interview))
}

// UpdateInterview handles interview updates, interviewer only.
// PATCH /api/interviews/:id
func (h *InterviewHandlers) UpdateInterview(c *gin.Context) {
	interview, ok := h.loadInterviewWithAccess(c, true)
	if !ok {
		return
	}

	var req UpdateInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid update interview request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Title != nil {
		interview.Title = *req.Title
	}
	if req.Description != nil {
		interview.Description = *req.Description
	}
	if req.CandidateID != nil {
		interview.CandidateID = req.CandidateID
	}
	if req.CandidateName != nil {
		interview.CandidateName = req.CandidateName
	}
	if req.Status != nil {
		interview.Status = store.InterviewStatus(*req.Status)
	}
	if req.ScheduledAt != nil {
		interview.ScheduledAt = req.ScheduledAt
	}
	if req.Rating != nil {
		interview.Rating = req.Rating
	}
	if req.Notes != nil {
		interview.Notes = req.Notes
	}

	if err := h.store.UpdateInterview(c.Request.Context(), interview); err != nil {
		h.log.Error().Err(err).Str("interview_id", interview.ID).Msg("failed to update interview")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, fromInterview(interview))
}

// DeleteInterview handles interview deletion, interviewer only.
// DELETE /api/interviews/:id
func (h *InterviewHandlers) DeleteInterview(c *gin.Context) {
	interview, ok := h.loadInterviewWithAccess(c, true)
	if !ok {
		return
	}

	if err := h.store.DeleteInterview(c.Request.Context(), interview.ID); err != nil {
		h.log.Error().Err(err).Str("interview_id", interview.ID).Msg("failed to delete interview")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}

// ListMessages returns the interview chat history with pagination.
// GET /api/interviews/:id/messages?limit=&offset=
func (h *InterviewHandlers) ListMessages(c *gin.Context) {
	interview, ok := h.loadInterviewWithAccess(c, false)
	if !ok {
		return
	}

	limit := queryInt(c, "limit", 50, 1, 100)
	offset := queryInt(c, "offset", 0, 0, 1<<30)

	messages, err := h.store.ListChatMessages(c.Request.Context(), interview.ID, limit, offset)
	if err != nil {
		h.log.Error().Err(err).Str("interview_id", interview.ID).Msg("failed to list chat messages")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]ChatMessageResponse, 0, len(messages))
	for _, m := range messages {
		response = append(response, fromChatMessage(m))
	}
	c.JSON(http.StatusOK, response)
}

// ListParticipants returns the live participants from the hub registry.
// GET /api/interviews/:id/participants
func (h *InterviewHandlers) ListParticipants(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"participants": h.registry.ParticipantRecords(c.Param("id")),
	})
}

// loadInterviewWithAccess fetches the interview and enforces access: the
// interviewer always, the candidate unless interviewerOnly is set.
func (h *InterviewHandlers) loadInterviewWithAccess(c *gin.Context, interviewerOnly bool) (*store.Interview, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return nil, false
	}

	interview, err := h.store.GetInterview(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "interview not found"})
			return nil, false
		}
		h.log.Error().Err(err).Str("interview_id", c.Param("id")).Msg("failed to load interview")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return nil, false
	}

	if interview.InterviewerID == userID {
		return interview, true
	}
	if !interviewerOnly && interview.CandidateID != nil && *interview.CandidateID == userID {
		return interview, true
	}

	if interviewerOnly {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "only the interviewer can modify this interview"})
	} else {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "you don't have access to this interview"})
	}
	return nil, false
}

// starterCode resolves the initial editor contents, preferring the template's
// per-language starter code when one is referenced.
func (h *InterviewHandlers) starterCode(c *gin.Context, language string, templateID *string) string {
	if templateID != nil {
		template, err := h.store.GetTemplate(c.Request.Context(), *templateID)
		if err == nil && template.StarterCode != nil {
			if code, ok := template.StarterCode[language]; ok && code != "" {
				return code
			}
		}
	}
	return defaultStarterCode(language)
}

func queryInt(c *gin.Context, name string, def, min, max int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		return def
	}
	return n
}
