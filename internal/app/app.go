package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/codeview/codeview-server/internal/auth"
	"github.com/codeview/codeview-server/internal/config"
	"github.com/codeview/codeview-server/internal/core"
	"github.com/codeview/codeview-server/internal/service/execution"
	"github.com/codeview/codeview-server/internal/store"
	"github.com/codeview/codeview-server/internal/store/sqlite"
	transporthttp "github.com/codeview/codeview-server/internal/transport/http"
)

// App wires together storage, core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	store           store.Store
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	st, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	logger.Info().Str("db_path", cfg.DatabasePath).Msg("database initialized")

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      cfg.TokenTTL,
	}
	authService := auth.NewService(st, jwtConfig)

	registry := core.NewRegistry(logger)
	server := transporthttp.NewServer(transporthttp.Deps{
		Registry: registry,
		Verifier: &identityVerifier{auth: authService, users: st},
		Sessions: &sessionStore{store: st},
		Auth:     authService,
		Store:    st,
		Exec:     execution.NewService(),
	}, *cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		store:           st,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup closes database and other resources.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}

// identityVerifier resolves a bearer token to the account it belongs to.
type identityVerifier struct {
	auth  *auth.Service
	users store.UserStore
}

func (v *identityVerifier) Verify(ctx context.Context, token string) (*core.Identity, error) {
	claims, err := v.auth.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	user, err := v.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolve user %s: %w", claims.UserID, err)
	}

	return &core.Identity{
		ID:     user.ID,
		Name:   user.Name,
		Role:   string(user.Role),
		Avatar: user.Avatar,
	}, nil
}

// sessionStore adapts the interview store to the narrow surface the
// realtime hub consumes.
type sessionStore struct {
	store store.Store
}

func (s *sessionStore) InterviewExists(ctx context.Context, interviewID string) (bool, error) {
	return s.store.InterviewExists(ctx, interviewID)
}

func (s *sessionStore) SaveCode(ctx context.Context, interviewID, code string) error {
	return s.store.UpdateInterviewCode(ctx, interviewID, code)
}

func (s *sessionStore) SaveLanguage(ctx context.Context, interviewID, language string) error {
	return s.store.UpdateInterviewLanguage(ctx, interviewID, language)
}

func (s *sessionStore) SaveStatus(ctx context.Context, interviewID, status string, at time.Time) error {
	return s.store.UpdateInterviewStatus(ctx, interviewID, status, at)
}

func (s *sessionStore) SaveChatMessage(ctx context.Context, interviewID string, msg core.ChatMessage) error {
	return s.store.SaveChatMessage(ctx, &store.ChatMessage{
		ID:          msg.ID,
		InterviewID: interviewID,
		UserID:      msg.UserID,
		UserName:    msg.UserName,
		Message:     msg.Message,
		Timestamp:   msg.Timestamp,
	})
}
