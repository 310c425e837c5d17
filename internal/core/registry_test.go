package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/codeview/codeview-server/internal/proto"
)

func TestJoinAssignsDistinctColors(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(nopLogger())

	for i := 0; i < 3; i++ {
		id := fmt.Sprintf("user-%d", i)
		reg.Join(ctx, "iv1", Identity{ID: id, Name: id}, &fakeConn{})
	}

	members := reg.Participants("iv1")
	if len(members) != 3 {
		t.Fatalf("got %d participants, want 3", len(members))
	}
	seen := make(map[string]struct{})
	for _, m := range members {
		if _, dup := seen[m.CursorColor]; dup {
			t.Fatalf("duplicate cursor color %s", m.CursorColor)
		}
		seen[m.CursorColor] = struct{}{}
	}
}

func TestJoinNotifiesExistingParticipants(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(nopLogger())

	aliceConn := &fakeConn{}
	reg.Join(ctx, "iv1", Identity{ID: "alice", Name: "Alice"}, aliceConn)

	bobConn := &fakeConn{}
	reg.Join(ctx, "iv1", Identity{ID: "bob", Name: "Bob"}, bobConn)

	msgs := aliceConn.messages()
	if len(msgs) != 1 {
		t.Fatalf("alice got %d messages, want 1", len(msgs))
	}
	joined, ok := msgs[0].(proto.ParticipantJoined)
	if !ok {
		t.Fatalf("got %T, want proto.ParticipantJoined", msgs[0])
	}
	if joined.Type != proto.TypeParticipantJoined || joined.Participant.ID != "bob" {
		t.Fatalf("unexpected join event: %+v", joined)
	}
	if joined.Participant.CursorColor == "" || joined.Timestamp == "" {
		t.Fatalf("join event missing color or timestamp: %+v", joined)
	}

	if len(bobConn.messages()) != 0 {
		t.Fatalf("joiner must not receive its own join event")
	}
}

func TestReconnectEvictsPriorConnection(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(nopLogger())

	first := &fakeConn{}
	p1 := reg.Join(ctx, "iv1", Identity{ID: "alice", Name: "Alice"}, first)

	second := &fakeConn{}
	p2 := reg.Join(ctx, "iv1", Identity{ID: "alice", Name: "Alice"}, second)

	closed, code, reason := first.closedWith()
	if !closed {
		t.Fatal("prior connection was not closed")
	}
	if code != closeReplaced || reason != "replaced by new connection" {
		t.Fatalf("got close %d %q", code, reason)
	}

	members := reg.Participants("iv1")
	if len(members) != 1 {
		t.Fatalf("got %d participants after reconnect, want 1", len(members))
	}
	if p1 == p2 {
		t.Fatal("reconnect must produce a fresh participant entry")
	}
}

func TestReconnectKeepsColorAssignmentStable(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(nopLogger())

	reg.Join(ctx, "iv1", Identity{ID: "alice"}, &fakeConn{})
	reg.Join(ctx, "iv1", Identity{ID: "bob"}, &fakeConn{})

	// Alice reconnects. Her old entry is gone by assignment time, so she gets
	// the first color bob does not hold.
	p := reg.Join(ctx, "iv1", Identity{ID: "alice"}, &fakeConn{})
	if p.CursorColor == "" {
		t.Fatal("no cursor color assigned")
	}
	members := reg.Participants("iv1")
	if len(members) != 2 {
		t.Fatalf("got %d participants, want 2", len(members))
	}
	if members[0].CursorColor == members[1].CursorColor {
		t.Fatalf("color collision after reconnect: %s", p.CursorColor)
	}
}

func TestLeaveDeletesEmptyRoom(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(nopLogger())

	reg.Join(ctx, "iv1", Identity{ID: "alice"}, &fakeConn{})
	reg.Leave("iv1", "alice")

	if got := reg.Participants("iv1"); len(got) != 0 {
		t.Fatalf("got %d participants, want 0", len(got))
	}

	reg.mu.RLock()
	_, exists := reg.rooms["iv1"]
	reg.mu.RUnlock()
	if exists {
		t.Fatal("empty room was not deleted")
	}
}

func TestLeaveUnknownRoomIsNoop(t *testing.T) {
	reg := NewRegistry(nopLogger())
	reg.Leave("missing", "nobody")
}

func TestGuardedLeaveSkipsReplacedEntry(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(nopLogger())

	stale := &fakeConn{}
	reg.Join(ctx, "iv1", Identity{ID: "alice"}, stale)
	live := &fakeConn{}
	reg.Join(ctx, "iv1", Identity{ID: "alice"}, live)

	// The evicted session's cleanup must not remove the live entry.
	if reg.leave("iv1", "alice", stale) {
		t.Fatal("stale connection removed the live entry")
	}
	if got := reg.Participants("iv1"); len(got) != 1 {
		t.Fatalf("got %d participants, want 1", len(got))
	}

	if !reg.leave("iv1", "alice", live) {
		t.Fatal("live connection could not remove its own entry")
	}
}

func TestBroadcastExcludesSender(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(nopLogger())

	aliceConn := &fakeConn{}
	bobConn := &fakeConn{}
	reg.Join(ctx, "iv1", Identity{ID: "alice"}, aliceConn)
	reg.Join(ctx, "iv1", Identity{ID: "bob"}, bobConn)

	aliceBefore := len(aliceConn.messages())
	bobBefore := len(bobConn.messages())

	reg.Broadcast(ctx, "iv1", "payload", "alice")

	if got := len(aliceConn.messages()); got != aliceBefore {
		t.Fatalf("excluded sender received the broadcast")
	}
	if got := len(bobConn.messages()); got != bobBefore+1 {
		t.Fatalf("bob got %d new messages, want 1", got-bobBefore)
	}
}

func TestBroadcastFailureKeepsMembership(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(nopLogger())

	broken := &fakeConn{sendErr: errors.New("write stalled")}
	healthy := &fakeConn{}
	reg.Join(ctx, "iv1", Identity{ID: "alice"}, broken)
	reg.Join(ctx, "iv1", Identity{ID: "bob"}, healthy)

	before := len(healthy.messages())
	reg.Broadcast(ctx, "iv1", "payload", "")

	if got := len(healthy.messages()); got != before+1 {
		t.Fatalf("healthy connection got %d new messages, want 1", got-before)
	}
	if got := reg.Participants("iv1"); len(got) != 2 {
		t.Fatalf("failed send changed membership: %d participants", len(got))
	}
}

func TestConcurrentJoinsGetDistinctColors(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(nopLogger())

	var wg sync.WaitGroup
	for i := 0; i < len(cursorPalette); i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			reg.Join(ctx, "iv1", Identity{ID: fmt.Sprintf("user-%d", n)}, &fakeConn{})
		}(i)
	}
	wg.Wait()

	members := reg.Participants("iv1")
	if len(members) != len(cursorPalette) {
		t.Fatalf("got %d participants, want %d", len(members), len(cursorPalette))
	}
	seen := make(map[string]struct{})
	for _, m := range members {
		if _, dup := seen[m.CursorColor]; dup {
			t.Fatalf("duplicate cursor color %s under concurrent joins", m.CursorColor)
		}
		seen[m.CursorColor] = struct{}{}
	}
}
