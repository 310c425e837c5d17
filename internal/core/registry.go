package core

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/codeview/codeview-server/internal/proto"
)

// closeReplaced is the close code sent to a connection evicted by a reconnect.
const closeReplaced = 1000

// Registry owns live room membership. Rooms exist only while they have at
// least one participant: the first Join creates the entry, the Leave that
// empties it deletes it. The registry map has its own lock; each room
// serializes its membership mutations with a per-room lock, so unrelated
// rooms never contend beyond the map lookup. Lock order is always
// registry -> room.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*room
	log   *zerolog.Logger
}

type room struct {
	mu      sync.Mutex
	members map[string]*Participant
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *zerolog.Logger) *Registry {
	return &Registry{
		rooms: make(map[string]*room),
		log:   logger,
	}
}

// Join registers a participant in a room, creating the room on first join.
// A participant id already present is treated as a reconnect: the prior
// connection is closed and its entry replaced, never leaving two live
// connections for the same (room, participant) pair. The new participant gets
// a cursor color from the palette, and the rest of the room is notified with
// a participant_joined event.
func (reg *Registry) Join(ctx context.Context, sessionID string, user Identity, conn Conn) *Participant {
	reg.mu.Lock()
	r, ok := reg.rooms[sessionID]
	if !ok {
		r = &room{members: make(map[string]*Participant)}
		reg.rooms[sessionID] = r
	}
	r.mu.Lock()
	reg.mu.Unlock()

	prior := r.members[user.ID]
	if prior != nil {
		delete(r.members, user.ID)
	}

	inUse := make(map[string]struct{}, len(r.members))
	for _, p := range r.members {
		inUse[p.CursorColor] = struct{}{}
	}

	p := &Participant{
		ID:          user.ID,
		Name:        user.Name,
		Role:        user.Role,
		Avatar:      user.Avatar,
		IsOnline:    true,
		CursorColor: assignCursorColor(inUse, len(r.members)),
		conn:        conn,
	}
	r.members[user.ID] = p

	others := make([]*Participant, 0, len(r.members)-1)
	for id, m := range r.members {
		if id != user.ID {
			others = append(others, m)
		}
	}
	r.mu.Unlock()

	if prior != nil {
		if err := prior.conn.Close(closeReplaced, "replaced by new connection"); err != nil {
			reg.log.Debug().Err(err).Str("session_id", sessionID).Str("user_id", user.ID).Msg("close evicted connection")
		}
	}

	joined := proto.ParticipantJoined{
		Type:        proto.TypeParticipantJoined,
		Participant: p.Record(),
		Timestamp:   isoNow(),
	}
	reg.deliver(ctx, sessionID, others, joined)

	return p
}

// Leave removes the participant from the room. The removal and the deletion
// of a room left empty happen under the same locks, so a concurrent Join can
// never observe a room that exists with no members. No notification is sent;
// the disconnect path broadcasts participant_left after this returns.
func (reg *Registry) Leave(sessionID, participantID string) {
	reg.leave(sessionID, participantID, nil)
}

// leave removes the entry. When conn is non-nil the entry is only removed if
// it still belongs to that connection; a reconnect may have replaced it, in
// which case the stale session's cleanup must not evict the live one.
func (reg *Registry) leave(sessionID, participantID string, conn Conn) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r, ok := reg.rooms[sessionID]
	if !ok {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.members[participantID]
	if !ok {
		return false
	}
	if conn != nil && p.conn != conn {
		return false
	}

	delete(r.members, participantID)
	if len(r.members) == 0 {
		delete(reg.rooms, sessionID)
	}
	return true
}

// Participants returns a snapshot of the room's membership. Order is
// unspecified. An unknown room yields an empty slice.
func (reg *Registry) Participants(sessionID string) []Participant {
	reg.mu.RLock()
	r := reg.rooms[sessionID]
	reg.mu.RUnlock()
	if r == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Participant, 0, len(r.members))
	for _, p := range r.members {
		out = append(out, *p)
	}
	return out
}

// ParticipantRecords returns the room membership in wire form.
func (reg *Registry) ParticipantRecords(sessionID string) []proto.ParticipantRecord {
	members := reg.Participants(sessionID)
	records := make([]proto.ParticipantRecord, 0, len(members))
	for i := range members {
		records = append(records, members[i].Record())
	}
	return records
}

// Broadcast delivers msg to every registered connection in the room, skipping
// exclude when non-empty. A failed send is logged and skipped; it neither
// aborts delivery to the rest of the room nor removes the connection, which
// only happens through the explicit disconnect path.
func (reg *Registry) Broadcast(ctx context.Context, sessionID string, msg any, exclude string) {
	reg.mu.RLock()
	r := reg.rooms[sessionID]
	reg.mu.RUnlock()
	if r == nil {
		return
	}

	r.mu.Lock()
	targets := make([]*Participant, 0, len(r.members))
	for id, p := range r.members {
		if exclude != "" && id == exclude {
			continue
		}
		targets = append(targets, p)
	}
	r.mu.Unlock()

	reg.deliver(ctx, sessionID, targets, msg)
}

// SendDirect delivers msg to exactly one connection, with the same
// failure-tolerance contract as Broadcast.
func (reg *Registry) SendDirect(ctx context.Context, conn Conn, msg any) {
	if err := conn.Send(ctx, msg); err != nil {
		reg.log.Debug().Err(err).Msg("direct send failed")
	}
}

// deliver sends msg to each target outside of any lock, so a slow or broken
// connection never blocks membership changes.
func (reg *Registry) deliver(ctx context.Context, sessionID string, targets []*Participant, msg any) {
	for _, p := range targets {
		if err := p.conn.Send(ctx, msg); err != nil {
			reg.log.Debug().Err(err).Str("session_id", sessionID).Str("user_id", p.ID).Msg("broadcast send failed")
		}
	}
}

func isoNow() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
