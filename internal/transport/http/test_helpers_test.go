package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/codeview/codeview-server/internal/auth"
	"github.com/codeview/codeview-server/internal/config"
	"github.com/codeview/codeview-server/internal/core"
	"github.com/codeview/codeview-server/internal/service/execution"
	"github.com/codeview/codeview-server/internal/store"
	"github.com/codeview/codeview-server/internal/store/sqlite"
)

type testEnv struct {
	ts       *httptest.Server
	store    *sqlite.SQLiteStore
	registry *core.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	logger := zerolog.Nop()
	authService := auth.NewService(st, &auth.JWTConfig{
		Secret:   []byte("test-secret"),
		Issuer:   "codeview",
		Audience: "codeview-api",
		TTL:      time.Hour,
	})
	registry := core.NewRegistry(&logger)

	server := NewServer(Deps{
		Registry: registry,
		Verifier: &testVerifier{auth: authService, users: st},
		Sessions: &testSessionStore{store: st},
		Auth:     authService,
		Store:    st,
		Exec:     execution.NewService(),
	}, config.Default(), &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return &testEnv{ts: ts, store: st, registry: registry}
}

type testVerifier struct {
	auth  *auth.Service
	users store.UserStore
}

func (v *testVerifier) Verify(ctx context.Context, token string) (*core.Identity, error) {
	claims, err := v.auth.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	user, err := v.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return &core.Identity{ID: user.ID, Name: user.Name, Role: string(user.Role), Avatar: user.Avatar}, nil
}

type testSessionStore struct {
	store store.Store
}

func (s *testSessionStore) InterviewExists(ctx context.Context, interviewID string) (bool, error) {
	return s.store.InterviewExists(ctx, interviewID)
}

func (s *testSessionStore) SaveCode(ctx context.Context, interviewID, code string) error {
	return s.store.UpdateInterviewCode(ctx, interviewID, code)
}

func (s *testSessionStore) SaveLanguage(ctx context.Context, interviewID, language string) error {
	return s.store.UpdateInterviewLanguage(ctx, interviewID, language)
}

func (s *testSessionStore) SaveStatus(ctx context.Context, interviewID, status string, at time.Time) error {
	return s.store.UpdateInterviewStatus(ctx, interviewID, status, at)
}

func (s *testSessionStore) SaveChatMessage(ctx context.Context, interviewID string, msg core.ChatMessage) error {
	return s.store.SaveChatMessage(ctx, &store.ChatMessage{
		ID:          msg.ID,
		InterviewID: interviewID,
		UserID:      msg.UserID,
		UserName:    msg.UserName,
		Message:     msg.Message,
		Timestamp:   msg.Timestamp,
	})
}

// doJSON performs a request with an optional bearer token and JSON body,
// returning the status code and decoded response body.
func (e *testEnv) doJSON(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := stdhttp.NewRequest(method, e.ts.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			t.Fatalf("decode response %s: %v", data, err)
		}
	}
	return resp.StatusCode
}

// signup registers an account through the API and returns its token and id.
func (e *testEnv) signup(t *testing.T, email, name, role string) (token, userID string) {
	t.Helper()

	var resp TokenResponse
	status := e.doJSON(t, "POST", "/api/auth/signup", "", map[string]string{
		"email":    email,
		"password": "secret1",
		"name":     name,
		"role":     role,
	}, &resp)
	if status != stdhttp.StatusCreated {
		t.Fatalf("signup %s: status %d", email, status)
	}
	return resp.AccessToken, resp.User.ID
}

// createInterview creates an interview through the API and returns it.
func (e *testEnv) createInterview(t *testing.T, token, title string) InterviewResponse {
	t.Helper()

	var resp InterviewResponse
	status := e.doJSON(t, "POST", "/api/interviews", token, map[string]any{
		"title":    title,
		"language": "python",
	}, &resp)
	if status != stdhttp.StatusCreated {
		t.Fatalf("create interview: status %d", status)
	}
	return resp
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}
