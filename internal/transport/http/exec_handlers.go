package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/codeview/codeview-server/internal/service/execution"
)

// ExecHandlers provides the mocked code-execution endpoint.
type ExecHandlers struct {
	exec *execution.Service
	log  *zerolog.Logger
}

// NewExecHandlers creates a new execution handlers instance.
func NewExecHandlers(exec *execution.Service, logger *zerolog.Logger) *ExecHandlers {
	return &ExecHandlers{
		exec: exec,
		log:  logger,
	}
}

// ExecuteRequest represents the code execution request body.
type ExecuteRequest struct {
	Code     string `json:"code" binding:"required"`
	Language string `json:"language" binding:"required,oneof=javascript python java cpp go ruby"`
	Stdin    string `json:"stdin"`
}

// ExecuteResponse represents the code execution response body.
type ExecuteResponse struct {
	Output        string `json:"output"`
	Error         string `json:"error,omitempty"`
	ExecutionTime int    `json:"execution_time"`
}

// Execute handles simulated code execution.
// POST /api/code/execute
func (h *ExecHandlers) Execute(c *gin.Context) {
	var req ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid execute request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.exec.Run(c.Request.Context(), req.Code, req.Language, req.Stdin)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to run code")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ExecuteResponse{
		Output:        result.Output,
		Error:         result.Error,
		ExecutionTime: result.ExecutionTime,
	})
}
