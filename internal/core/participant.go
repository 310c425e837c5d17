package core

import (
	"context"

	"github.com/codeview/codeview-server/internal/proto"
)

// Conn is one duplex message stream to a participant. The session that
// accepted the stream owns it; the registry only references it for delivery.
// Send must be safe for concurrent use, since broadcasts originate from other
// participants' sessions.
type Conn interface {
	Send(ctx context.Context, v any) error
	Close(code int, reason string) error
}

// Identity is the authenticated user behind a connection.
type Identity struct {
	ID     string
	Name   string
	Role   string
	Avatar string
}

// IdentityVerifier resolves a bearer credential to an identity.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// Participant is one live presence inside an interview room.
type Participant struct {
	ID          string
	Name        string
	Role        string
	Avatar      string
	IsOnline    bool
	CursorColor string

	conn Conn
}

// Record converts the participant to its wire representation.
func (p *Participant) Record() proto.ParticipantRecord {
	return proto.ParticipantRecord{
		ID:          p.ID,
		Name:        p.Name,
		Role:        p.Role,
		Avatar:      p.Avatar,
		IsOnline:    p.IsOnline,
		CursorColor: p.CursorColor,
	}
}
