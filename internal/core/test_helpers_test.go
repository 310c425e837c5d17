package core

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// fakeConn records everything sent through it.
type fakeConn struct {
	mu      sync.Mutex
	sent    []any
	sendErr error
	closed  bool
	code    int
	reason  string
}

func (c *fakeConn) Send(_ context.Context, v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendErr != nil {
		return c.sendErr
	}
	c.sent = append(c.sent, v)
	return nil
}

func (c *fakeConn) Close(code int, reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.code = code
	c.reason = reason
	return nil
}

func (c *fakeConn) messages() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]any, len(c.sent))
	copy(out, c.sent)
	return out
}

func (c *fakeConn) closedWith() (bool, int, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed, c.code, c.reason
}

type statusWrite struct {
	status string
	at     time.Time
}

// fakeStore records persistence calls made by sessions.
type fakeStore struct {
	mu        sync.Mutex
	codes     []string
	languages []string
	statuses  []statusWrite
	chats     []ChatMessage
	saveErr   error
}

func (s *fakeStore) InterviewExists(context.Context, string) (bool, error) {
	return true, nil
}

func (s *fakeStore) SaveCode(_ context.Context, _ string, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.codes = append(s.codes, code)
	return nil
}

func (s *fakeStore) SaveLanguage(_ context.Context, _ string, language string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.languages = append(s.languages, language)
	return nil
}

func (s *fakeStore) SaveStatus(_ context.Context, _ string, status string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.statuses = append(s.statuses, statusWrite{status: status, at: at})
	return nil
}

func (s *fakeStore) SaveChatMessage(_ context.Context, _ string, msg ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.chats = append(s.chats, msg)
	return nil
}

func (s *fakeStore) savedCodes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.codes))
	copy(out, s.codes)
	return out
}

func (s *fakeStore) savedChats() []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChatMessage, len(s.chats))
	copy(out, s.chats)
	return out
}
