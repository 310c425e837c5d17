package http

import (
	stdhttp "net/http"
	"testing"
)

func TestSignupLoginMe(t *testing.T) {
	env := newTestEnv(t)

	token, userID := env.signup(t, "alice@example.com", "Alice", "interviewer")
	if token == "" || userID == "" {
		t.Fatal("signup returned empty token or id")
	}

	var me UserResponse
	if status := env.doJSON(t, "GET", "/api/auth/me", token, nil, &me); status != stdhttp.StatusOK {
		t.Fatalf("me: status %d", status)
	}
	if me.ID != userID || me.Email != "alice@example.com" || me.Role != "interviewer" {
		t.Fatalf("unexpected profile: %+v", me)
	}

	var login TokenResponse
	status := env.doJSON(t, "POST", "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "secret1",
	}, &login)
	if status != stdhttp.StatusOK || login.AccessToken == "" {
		t.Fatalf("login: status %d, token %q", status, login.AccessToken)
	}
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "alice@example.com", "Alice", "interviewer")

	var errResp ErrorResponse
	status := env.doJSON(t, "POST", "/api/auth/signup", "", map[string]string{
		"email":    "alice@example.com",
		"password": "secret2",
		"name":     "Alice 2",
		"role":     "candidate",
	}, &errResp)
	if status != stdhttp.StatusBadRequest {
		t.Fatalf("status %d, want 400", status)
	}
	if errResp.Error == "" {
		t.Fatal("missing error message")
	}
}

func TestSignupRejectsUnknownRole(t *testing.T) {
	env := newTestEnv(t)

	status := env.doJSON(t, "POST", "/api/auth/signup", "", map[string]string{
		"email":    "admin@example.com",
		"password": "secret1",
		"name":     "Admin",
		"role":     "admin",
	}, nil)
	if status != stdhttp.StatusBadRequest {
		t.Fatalf("status %d, want 400", status)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "alice@example.com", "Alice", "candidate")

	status := env.doJSON(t, "POST", "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong-password",
	}, nil)
	if status != stdhttp.StatusUnauthorized {
		t.Fatalf("status %d, want 401", status)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	if status := env.doJSON(t, "GET", "/api/auth/me", "", nil, nil); status != stdhttp.StatusUnauthorized {
		t.Fatalf("me without token: status %d, want 401", status)
	}
	if status := env.doJSON(t, "GET", "/api/interviews", "garbage-token", nil, nil); status != stdhttp.StatusUnauthorized {
		t.Fatalf("bad token: status %d, want 401", status)
	}
}

func TestUpdateUserProfile(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.signup(t, "alice@example.com", "Alice", "candidate")
	otherToken, _ := env.signup(t, "bob@example.com", "Bob", "candidate")

	var updated UserResponse
	status := env.doJSON(t, "PATCH", "/api/users/"+userID, token, map[string]string{
		"name": "Alice Renamed",
	}, &updated)
	if status != stdhttp.StatusOK || updated.Name != "Alice Renamed" {
		t.Fatalf("status %d, profile %+v", status, updated)
	}

	// Only the account owner may update the profile.
	status = env.doJSON(t, "PATCH", "/api/users/"+userID, otherToken, map[string]string{
		"name": "Hijacked",
	}, nil)
	if status != stdhttp.StatusForbidden {
		t.Fatalf("foreign update: status %d, want 403", status)
	}
}
