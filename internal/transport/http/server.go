package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/codeview/codeview-server/internal/auth"
	"github.com/codeview/codeview-server/internal/config"
	"github.com/codeview/codeview-server/internal/core"
	"github.com/codeview/codeview-server/internal/service/execution"
	"github.com/codeview/codeview-server/internal/store"
)

// Deps carries everything the HTTP layer needs.
type Deps struct {
	Registry *core.Registry
	Verifier core.IdentityVerifier
	Sessions core.SessionStore
	Auth     *auth.Service
	Store    store.Store
	Exec     *execution.Service
}

// NewServer builds an HTTP server with all API routes registered.
func NewServer(deps Deps, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(LoggerMiddleware(logger))
	router.Use(gin.Recovery())

	router.GET("/health", healthHandler)

	authHandlers := NewAuthHandlers(deps.Auth, deps.Store, logger)
	userHandlers := NewUserHandlers(deps.Store, logger)
	interviewHandlers := NewInterviewHandlers(deps.Store, deps.Registry, logger)
	templateHandlers := NewTemplateHandlers(deps.Store, logger)
	invitationHandlers := NewInvitationHandlers(deps.Store, logger)
	execHandlers := NewExecHandlers(deps.Exec, logger)
	wsHandler := NewWSHandler(deps.Registry, deps.Verifier, deps.Sessions, logger)

	api := router.Group("/api")

	api.POST("/auth/signup", authHandlers.Signup)
	api.POST("/auth/login", authHandlers.Login)

	// The WS endpoint authenticates via query token, not the Authorization header.
	api.GET("/interviews/:id/ws", wsHandler.Handle)

	protected := api.Group("")
	protected.Use(AuthMiddleware(deps.Auth, logger))
	{
		protected.GET("/auth/me", authHandlers.Me)
		protected.POST("/auth/logout", authHandlers.Logout)

		protected.PATCH("/users/:id", userHandlers.UpdateUser)

		protected.POST("/interviews", interviewHandlers.CreateInterview)
		protected.GET("/interviews", interviewHandlers.ListInterviews)
		protected.GET("/interviews/stats", interviewHandlers.GetStats)
		protected.GET("/interviews/:id", interviewHandlers.GetInterview)
		protected.PATCH("/interviews/:id", interviewHandlers.UpdateInterview)
		protected.DELETE("/interviews/:id", interviewHandlers.DeleteInterview)
		protected.GET("/interviews/:id/messages", interviewHandlers.ListMessages)
		protected.GET("/interviews/:id/participants", interviewHandlers.ListParticipants)

		protected.POST("/templates", templateHandlers.CreateTemplate)
		protected.GET("/templates", templateHandlers.ListTemplates)
		protected.GET("/templates/:id", templateHandlers.GetTemplate)
		protected.PATCH("/templates/:id", templateHandlers.UpdateTemplate)
		protected.DELETE("/templates/:id", templateHandlers.DeleteTemplate)

		protected.POST("/invitations", invitationHandlers.CreateInvitation)
		protected.GET("/invitations", invitationHandlers.ListInvitations)
		protected.PATCH("/invitations/:id", invitationHandlers.UpdateInvitation)

		protected.POST("/code/execute", execHandlers.Execute)
	}

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.JSON(stdhttp.StatusOK, gin.H{"status": "ok"})
}
