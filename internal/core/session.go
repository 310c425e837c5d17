package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/codeview/codeview-server/internal/proto"
)

// closeTimeout bounds the participant_left fan-out after a disconnect.
const closeTimeout = 5 * time.Second

// Session is the per-connection protocol state machine. The transport feeds
// it one decoded event at a time; each event is fully processed, including
// the broadcast and persistence it triggers, before the next one is read, so
// events on one connection are never handled concurrently with each other.
type Session struct {
	registry    *Registry
	store       SessionStore
	log         *zerolog.Logger
	interviewID string
	user        Identity
	conn        Conn
	self        *Participant
}

// NewSession builds a session for an authenticated connection to an
// existing interview.
func NewSession(reg *Registry, store SessionStore, logger *zerolog.Logger, interviewID string, user Identity, conn Conn) *Session {
	return &Session{
		registry:    reg,
		store:       store,
		log:         logger,
		interviewID: interviewID,
		user:        user,
		conn:        conn,
	}
}

// Start joins the room, which notifies the other participants, and sends the
// personal membership snapshot to the new connection.
func (s *Session) Start(ctx context.Context) {
	s.self = s.registry.Join(ctx, s.interviewID, s.user, s.conn)
	s.registry.SendDirect(ctx, s.conn, proto.ParticipantsList{
		Type:         proto.TypeParticipantsList,
		Participants: s.registry.ParticipantRecords(s.interviewID),
	})
	s.log.Info().Str("session_id", s.interviewID).Str("user_id", s.user.ID).Msg("participant joined")
}

// HandleEvent dispatches one inbound event. Malformed payloads and
// unrecognized type tags are dropped without a response.
func (s *Session) HandleEvent(ctx context.Context, in proto.Inbound) {
	switch in.Type {
	case proto.TypeCodeUpdate:
		s.handleCodeUpdate(ctx, in.Data)
	case proto.TypeCursorUpdate:
		s.handleCursorUpdate(ctx, in.Data)
	case proto.TypeChatMessage:
		s.handleChatMessage(ctx, in.Data)
	case proto.TypeTyping:
		s.handleTyping(ctx, in.Data)
	case proto.TypeLanguageChange:
		s.handleLanguageChange(ctx, in.Data)
	case proto.TypeInterviewStatus:
		s.handleInterviewStatus(ctx, in.Data)
	default:
		s.log.Debug().Str("type", in.Type).Str("user_id", s.user.ID).Msg("ignoring unknown event type")
	}
}

// Close runs the disconnect path: deregister, then tell the room. When a
// reconnect has already replaced this connection's registry entry, both steps
// are skipped so the live session is left untouched.
func (s *Session) Close() {
	if !s.registry.leave(s.interviewID, s.user.ID, s.conn) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	s.registry.Broadcast(ctx, s.interviewID, proto.ParticipantLeft{
		Type:      proto.TypeParticipantLeft,
		UserID:    s.user.ID,
		Timestamp: isoNow(),
	}, "")
	s.log.Info().Str("session_id", s.interviewID).Str("user_id", s.user.ID).Msg("participant left")
}

// handleCodeUpdate fans the change out before persisting it; realtime
// delivery must not wait on the durable write.
func (s *Session) handleCodeUpdate(ctx context.Context, data json.RawMessage) {
	var in proto.CodeUpdateIn
	if err := json.Unmarshal(data, &in); err != nil {
		s.dropMalformed(proto.TypeCodeUpdate, err)
		return
	}

	s.registry.Broadcast(ctx, s.interviewID, proto.CodeUpdateOut{
		Type:      proto.TypeCodeUpdate,
		Code:      in.Code,
		UserID:    s.user.ID,
		Timestamp: isoNow(),
	}, s.user.ID)

	if err := s.store.SaveCode(ctx, s.interviewID, in.Code); err != nil {
		s.persistFailed(proto.TypeCodeUpdate, err)
	}
}

func (s *Session) handleCursorUpdate(ctx context.Context, data json.RawMessage) {
	var in proto.CursorUpdateIn
	if err := json.Unmarshal(data, &in); err != nil {
		s.dropMalformed(proto.TypeCursorUpdate, err)
		return
	}

	s.registry.Broadcast(ctx, s.interviewID, proto.CursorUpdateOut{
		Type:     proto.TypeCursorUpdate,
		UserID:   s.user.ID,
		Position: in.Position,
	}, s.user.ID)
}

// handleChatMessage assigns the message id and timestamp server-side, echoes
// the event to every participant including the sender, then persists.
func (s *Session) handleChatMessage(ctx context.Context, data json.RawMessage) {
	var in proto.ChatMessageIn
	if err := json.Unmarshal(data, &in); err != nil {
		s.dropMalformed(proto.TypeChatMessage, err)
		return
	}

	now := time.Now().UTC()
	msg := ChatMessage{
		ID:        uuid.NewString(),
		UserID:    s.user.ID,
		UserName:  s.user.Name,
		Message:   in.Message,
		Timestamp: now,
	}

	s.registry.Broadcast(ctx, s.interviewID, proto.ChatMessageOut{
		Type:      proto.TypeChatMessage,
		ID:        msg.ID,
		UserID:    msg.UserID,
		UserName:  msg.UserName,
		Message:   msg.Message,
		Timestamp: now.Format(time.RFC3339Nano),
	}, "")

	if err := s.store.SaveChatMessage(ctx, s.interviewID, msg); err != nil {
		s.persistFailed(proto.TypeChatMessage, err)
	}
}

func (s *Session) handleTyping(ctx context.Context, data json.RawMessage) {
	var in proto.TypingIn
	if err := json.Unmarshal(data, &in); err != nil {
		s.dropMalformed(proto.TypeTyping, err)
		return
	}

	s.registry.Broadcast(ctx, s.interviewID, proto.TypingOut{
		Type:     proto.TypeTyping,
		UserID:   s.user.ID,
		IsTyping: in.IsTyping,
	}, s.user.ID)
}

// handleLanguageChange persists synchronously before the fan-out; everyone,
// including the sender, gets the event.
func (s *Session) handleLanguageChange(ctx context.Context, data json.RawMessage) {
	var in proto.LanguageChangeIn
	if err := json.Unmarshal(data, &in); err != nil {
		s.dropMalformed(proto.TypeLanguageChange, err)
		return
	}

	if err := s.store.SaveLanguage(ctx, s.interviewID, in.Language); err != nil {
		s.persistFailed(proto.TypeLanguageChange, err)
	}

	s.registry.Broadcast(ctx, s.interviewID, proto.LanguageChangeOut{
		Type:     proto.TypeLanguageChange,
		Language: in.Language,
		UserID:   s.user.ID,
	}, "")
}

// handleInterviewStatus persists the transition, including the idempotent
// started/ended/duration bookkeeping done by the store, then fans out.
func (s *Session) handleInterviewStatus(ctx context.Context, data json.RawMessage) {
	var in proto.InterviewStatusIn
	if err := json.Unmarshal(data, &in); err != nil {
		s.dropMalformed(proto.TypeInterviewStatus, err)
		return
	}

	now := time.Now().UTC()
	if err := s.store.SaveStatus(ctx, s.interviewID, in.Status, now); err != nil {
		s.persistFailed(proto.TypeInterviewStatus, err)
	}

	s.registry.Broadcast(ctx, s.interviewID, proto.InterviewStatusOut{
		Type:      proto.TypeInterviewStatus,
		Status:    in.Status,
		Timestamp: now.Format(time.RFC3339Nano),
	}, "")
}

func (s *Session) dropMalformed(eventType string, err error) {
	s.log.Debug().Err(err).Str("type", eventType).Str("user_id", s.user.ID).Msg("dropping malformed event")
}

func (s *Session) persistFailed(eventType string, err error) {
	s.log.Warn().Err(err).Str("type", eventType).Str("session_id", s.interviewID).Msg("persist failed, realtime delivery unaffected")
}
