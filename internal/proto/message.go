package proto

import "encoding/json"

// Inbound is the envelope for events coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"-"`
}

// UnmarshalJSON flattens the event payload: clients send the type tag and the
// payload fields in a single JSON object.
func (in *Inbound) UnmarshalJSON(b []byte) error {
	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(b, &tag); err != nil {
		return err
	}
	in.Type = tag.Type
	in.Data = append(in.Data[:0], b...)
	return nil
}

// Inbound event type tags. Anything else is dropped.
const (
	TypeCodeUpdate      = "code_update"
	TypeCursorUpdate    = "cursor_update"
	TypeChatMessage     = "chat_message"
	TypeTyping          = "typing"
	TypeLanguageChange  = "language_change"
	TypeInterviewStatus = "interview_status"
)

// Outbound-only event type tags.
const (
	TypeParticipantsList  = "participants_list"
	TypeParticipantJoined = "participant_joined"
	TypeParticipantLeft   = "participant_left"
)

// WebSocket close codes for connection-time failures.
const (
	CloseAuthFailed        = 4001
	CloseInterviewNotFound = 4004
)

// CursorPosition is a line/column pair in the shared editor.
type CursorPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// CodeUpdateIn carries the full editor contents from a client.
type CodeUpdateIn struct {
	Code string `json:"code"`
}

// CursorUpdateIn carries a client's cursor position.
type CursorUpdateIn struct {
	Position CursorPosition `json:"position"`
}

// ChatMessageIn carries a chat message body from a client.
type ChatMessageIn struct {
	Message string `json:"message"`
}

// TypingIn carries a typing-indicator flag.
type TypingIn struct {
	IsTyping bool `json:"is_typing"`
}

// LanguageChangeIn carries a programming-language switch.
type LanguageChangeIn struct {
	Language string `json:"language"`
}

// InterviewStatusIn carries an interview status transition.
type InterviewStatusIn struct {
	Status string `json:"status"`
}

// ParticipantRecord describes one live participant as sent to clients.
type ParticipantRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Avatar      string `json:"avatar,omitempty"`
	IsOnline    bool   `json:"isOnline"`
	CursorColor string `json:"cursorColor"`
}

// ParticipantsList is sent once to a participant right after joining.
type ParticipantsList struct {
	Type         string              `json:"type"`
	Participants []ParticipantRecord `json:"participants"`
}

// ParticipantJoined notifies a room that a participant joined.
type ParticipantJoined struct {
	Type        string            `json:"type"`
	Participant ParticipantRecord `json:"participant"`
	Timestamp   string            `json:"timestamp"`
}

// ParticipantLeft notifies a room that a participant left.
type ParticipantLeft struct {
	Type      string `json:"type"`
	UserID    string `json:"user_id"`
	Timestamp string `json:"timestamp"`
}

// CodeUpdateOut fans a code change out to the rest of the room.
type CodeUpdateOut struct {
	Type      string `json:"type"`
	Code      string `json:"code"`
	UserID    string `json:"user_id"`
	Timestamp string `json:"timestamp"`
}

// CursorUpdateOut fans a cursor move out to the rest of the room.
type CursorUpdateOut struct {
	Type     string         `json:"type"`
	UserID   string         `json:"user_id"`
	Position CursorPosition `json:"position"`
}

// ChatMessageOut carries a chat message with its server-assigned identity.
type ChatMessageOut struct {
	Type      string `json:"type"`
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// TypingOut fans a typing indicator out to the rest of the room.
type TypingOut struct {
	Type     string `json:"type"`
	UserID   string `json:"user_id"`
	IsTyping bool   `json:"is_typing"`
}

// LanguageChangeOut announces a language switch to the whole room.
type LanguageChangeOut struct {
	Type     string `json:"type"`
	Language string `json:"language"`
	UserID   string `json:"user_id"`
}

// InterviewStatusOut announces a status transition to the whole room.
type InterviewStatusOut struct {
	Type      string `json:"type"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
