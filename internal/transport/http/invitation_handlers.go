package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/codeview/codeview-server/internal/store"
)

// InvitationHandlers provides HTTP handlers for interview invitations.
type InvitationHandlers struct {
	store store.Store
	log   *zerolog.Logger
}

// NewInvitationHandlers creates a new invitation handlers instance.
func NewInvitationHandlers(st store.Store, logger *zerolog.Logger) *InvitationHandlers {
	return &InvitationHandlers{
		store: st,
		log:   logger,
	}
}

// CreateInvitationRequest represents the create invitation request body.
type CreateInvitationRequest struct {
	InterviewID    string `json:"interview_id" binding:"required"`
	CandidateID    string `json:"candidate_id" binding:"required"`
	CandidateEmail string `json:"candidate_email" binding:"required,email"`
}

// UpdateInvitationRequest represents the invitation status update body.
type UpdateInvitationRequest struct {
	Status string `json:"status" binding:"required,oneof=accepted declined"`
}

// CreateInvitation handles invitation creation, interviewer only.
// POST /api/invitations
func (h *InvitationHandlers) CreateInvitation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid create invitation request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	interview, err := h.store.GetInterview(c.Request.Context(), req.InterviewID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "interview not found"})
			return
		}
		h.log.Error().Err(err).Str("interview_id", req.InterviewID).Msg("failed to load interview")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	if interview.InterviewerID != userID {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "only the interviewer can send invitations"})
		return
	}

	invitation := &store.Invitation{
		ID:              uuid.NewString(),
		InterviewID:     interview.ID,
		InterviewTitle:  interview.Title,
		InterviewerName: interview.InterviewerName,
		CandidateID:     req.CandidateID,
		CandidateEmail:  req.CandidateEmail,
		Status:          store.InvitationPending,
		ScheduledAt:     interview.ScheduledAt,
		CreatedAt:       time.Now().UTC(),
	}

	if err := h.store.CreateInvitation(c.Request.Context(), invitation); err != nil {
		h.log.Error().Err(err).Str("invitation_id", invitation.ID).Msg("failed to create invitation")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Str("invitation_id", invitation.ID).Str("interview_id", interview.ID).Msg("invitation created")
	c.JSON(http.StatusCreated, fromInvitation(invitation))
}

// ListInvitations handles listing the candidate's invitations.
// GET /api/invitations?status=
func (h *InvitationHandlers) ListInvitations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	invitations, err := h.store.ListInvitations(c.Request.Context(), userID, c.Query("status"))
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("failed to list invitations")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]InvitationResponse, 0, len(invitations))
	for _, inv := range invitations {
		response = append(response, fromInvitation(inv))
	}
	c.JSON(http.StatusOK, response)
}

// UpdateInvitation handles accept/decline, candidate only.
// PATCH /api/invitations/:id
func (h *InvitationHandlers) UpdateInvitation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req UpdateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid update invitation request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	invitation, err := h.store.GetInvitation(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "invitation not found"})
			return
		}
		h.log.Error().Err(err).Str("invitation_id", c.Param("id")).Msg("failed to load invitation")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	if invitation.CandidateID != userID {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "access denied"})
		return
	}

	invitation.Status = store.InvitationStatus(req.Status)
	if err := h.store.UpdateInvitationStatus(c.Request.Context(), invitation.ID, invitation.Status); err != nil {
		h.log.Error().Err(err).Str("invitation_id", invitation.ID).Msg("failed to update invitation")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, fromInvitation(invitation))
}
