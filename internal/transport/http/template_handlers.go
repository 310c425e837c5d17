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

// systemCreator marks templates seeded by the platform; they are read-only.
const systemCreator = "system"

// TemplateHandlers provides HTTP handlers for coding-problem templates.
type TemplateHandlers struct {
	store store.Store
	log   *zerolog.Logger
}

// NewTemplateHandlers creates a new template handlers instance.
func NewTemplateHandlers(st store.Store, logger *zerolog.Logger) *TemplateHandlers {
	return &TemplateHandlers{
		store: st,
		log:   logger,
	}
}

// CreateTemplateRequest represents the create template request body.
type CreateTemplateRequest struct {
	Title       string            `json:"title" binding:"required,min=1,max=200"`
	Description string            `json:"description" binding:"required"`
	Problem     string            `json:"problem" binding:"required"`
	Examples    string            `json:"examples" binding:"required"`
	Constraints string            `json:"constraints" binding:"required"`
	Difficulty  string            `json:"difficulty" binding:"required,oneof=easy medium hard"`
	Tags        []string          `json:"tags" binding:"required"`
	StarterCode map[string]string `json:"starter_code" binding:"required"`
	Solution    map[string]string `json:"solution"`
}

// UpdateTemplateRequest represents the template update request body.
type UpdateTemplateRequest struct {
	Title       *string            `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string            `json:"description"`
	Problem     *string            `json:"problem"`
	Examples    *string            `json:"examples"`
	Constraints *string            `json:"constraints"`
	Difficulty  *string            `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	Tags        *[]string          `json:"tags"`
	StarterCode *map[string]string `json:"starter_code"`
	Solution    *map[string]string `json:"solution"`
}

// CreateTemplate handles template creation.
// POST /api/templates
func (h *TemplateHandlers) CreateTemplate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid create template request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	now := time.Now().UTC()
	template := &store.Template{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Problem:     req.Problem,
		Examples:    req.Examples,
		Constraints: req.Constraints,
		Difficulty:  store.Difficulty(req.Difficulty),
		Tags:        req.Tags,
		StarterCode: req.StarterCode,
		Solution:    req.Solution,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.store.CreateTemplate(c.Request.Context(), template); err != nil {
		h.log.Error().Err(err).Str("template_id", template.ID).Msg("failed to create template")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Str("template_id", template.ID).Str("created_by", userID).Msg("template created")
	c.JSON(http.StatusCreated, fromTemplate(template))
}

// ListTemplates handles listing templates with optional filters.
// GET /api/templates?difficulty=&search=
func (h *TemplateHandlers) ListTemplates(c *gin.Context) {
	templates, err := h.store.ListTemplates(c.Request.Context(), c.Query("difficulty"), c.Query("search"))
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list templates")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]TemplateResponse, 0, len(templates))
	for _, t := range templates {
		response = append(response, fromTemplate(t))
	}
	c.JSON(http.StatusOK, response)
}

// GetTemplate handles fetching a single template.
// GET /api/templates/:id
func (h *TemplateHandlers) GetTemplate(c *gin.Context) {
	template, ok := h.loadTemplate(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, fromTemplate(template))
}

// UpdateTemplate handles template updates, creator only.
// PATCH /api/templates/:id
func (h *TemplateHandlers) UpdateTemplate(c *gin.Context) {
	template, ok := h.loadOwnedTemplate(c)
	if !ok {
		return
	}

	var req UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid update template request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Title != nil {
		template.Title = *req.Title
	}
	if req.Description != nil {
		template.Description = *req.Description
	}
	if req.Problem != nil {
		template.Problem = *req.Problem
	}
	if req.Examples != nil {
		template.Examples = *req.Examples
	}
	if req.Constraints != nil {
		template.Constraints = *req.Constraints
	}
	if req.Difficulty != nil {
		template.Difficulty = store.Difficulty(*req.Difficulty)
	}
	if req.Tags != nil {
		template.Tags = *req.Tags
	}
	if req.StarterCode != nil {
		template.StarterCode = *req.StarterCode
	}
	if req.Solution != nil {
		template.Solution = *req.Solution
	}

	if err := h.store.UpdateTemplate(c.Request.Context(), template); err != nil {
		h.log.Error().Err(err).Str("template_id", template.ID).Msg("failed to update template")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, fromTemplate(template))
}

// DeleteTemplate handles template deletion, creator only.
// DELETE /api/templates/:id
func (h *TemplateHandlers) DeleteTemplate(c *gin.Context) {
	template, ok := h.loadOwnedTemplate(c)
	if !ok {
		return
	}

	if err := h.store.DeleteTemplate(c.Request.Context(), template.ID); err != nil {
		h.log.Error().Err(err).Str("template_id", template.ID).Msg("failed to delete template")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TemplateHandlers) loadTemplate(c *gin.Context) (*store.Template, bool) {
	template, err := h.store.GetTemplate(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "template not found"})
			return nil, false
		}
		h.log.Error().Err(err).Str("template_id", c.Param("id")).Msg("failed to load template")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return nil, false
	}
	return template, true
}

func (h *TemplateHandlers) loadOwnedTemplate(c *gin.Context) (*store.Template, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return nil, false
	}

	template, ok := h.loadTemplate(c)
	if !ok {
		return nil, false
	}

	if template.CreatedBy == systemCreator {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "cannot modify system templates"})
		return nil, false
	}
	if template.CreatedBy != userID {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "you can only modify templates you created"})
		return nil, false
	}
	return template, true
}
