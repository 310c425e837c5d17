package http

import (
	"context"
	"encoding/json"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/codeview/codeview-server/internal/core"
	"github.com/codeview/codeview-server/internal/proto"
)

// writeTimeout bounds a single outbound send so a stalled consumer cannot
// wedge a broadcasting session indefinitely.
const writeTimeout = 5 * time.Second

// WSHandler upgrades HTTP connections and bridges them to a core.Session.
type WSHandler struct {
	registry *core.Registry
	verifier core.IdentityVerifier
	sessions core.SessionStore
	log      *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(registry *core.Registry, verifier core.IdentityVerifier, sessions core.SessionStore, logger *zerolog.Logger) *WSHandler {
	return &WSHandler{
		registry: registry,
		verifier: verifier,
		sessions: sessions,
		log:      logger,
	}
}

// Handle serves the realtime collaboration endpoint.
// GET /api/interviews/:id/ws?token=...
func (h *WSHandler) Handle(c *gin.Context) {
	ctx := c.Request.Context()
	interviewID := c.Param("id")

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	// Authenticate before any registry mutation.
	user, err := h.verifier.Verify(ctx, c.Query("token"))
	if err != nil {
		h.log.Debug().Err(err).Str("interview_id", interviewID).Msg("ws auth failed")
		conn.Close(websocket.StatusCode(proto.CloseAuthFailed), "invalid token")
		return
	}

	exists, err := h.sessions.InterviewExists(ctx, interviewID)
	if err != nil {
		h.log.Error().Err(err).Str("interview_id", interviewID).Msg("interview lookup failed")
		conn.Close(websocket.StatusInternalError, "internal error")
		return
	}
	if !exists {
		conn.Close(websocket.StatusCode(proto.CloseInterviewNotFound), "interview not found")
		return
	}

	sess := core.NewSession(h.registry, h.sessions, h.log, interviewID, *user, &wsConn{conn: conn})
	sess.Start(ctx)
	defer sess.Close()

	// One read loop per connection: each event is fully processed, including
	// its broadcast and persistence, before the next read.
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			h.closeStatus(err, user.ID, interviewID)
			return
		}

		var in proto.Inbound
		if err := json.Unmarshal(data, &in); err != nil {
			h.log.Debug().Err(err).Str("user_id", user.ID).Msg("dropping undecodable frame")
			continue
		}
		sess.HandleEvent(ctx, in)
	}
}

func (h *WSHandler) closeStatus(err error, userID, interviewID string) {
	status := websocket.CloseStatus(err)
	if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
		return
	}
	// Abrupt disconnects are expected; the deferred session close handles cleanup.
	h.log.Debug().Err(err).Str("user_id", userID).Str("interview_id", interviewID).Msg("ws connection closed")
}

// wsConn adapts a websocket connection to core.Conn. The underlying library
// serializes writers, so concurrent Sends from broadcasting sessions are safe.
type wsConn struct {
	conn *websocket.Conn
}

func (w *wsConn) Send(ctx context.Context, v any) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, w.conn, v)
}

func (w *wsConn) Close(code int, reason string) error {
	return w.conn.Close(websocket.StatusCode(code), reason)
}
