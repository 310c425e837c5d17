package http

import (
	"context"
	stdhttp "net/http"
	"strings"
	"testing"
	"time"

	"github.com/codeview/codeview-server/internal/store"
)

func TestCreateInterviewSeedsStarterCode(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.signup(t, "alice@example.com", "Alice", "interviewer")

	iv := env.createInterview(t, token, "Backend screen")
	if iv.InterviewerID != userID || iv.Status != "scheduled" {
		t.Fatalf("unexpected interview: %+v", iv)
	}
	if iv.ShareLink != "/interview/"+iv.ID {
		t.Fatalf("share link = %s", iv.ShareLink)
	}
	if !strings.Contains(iv.Code, "def solution") {
		t.Fatalf("python starter code missing: %q", iv.Code)
	}
}

func TestCreateInterviewUsesTemplateStarterCode(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signup(t, "alice@example.com", "Alice", "interviewer")

	var tpl TemplateResponse
	status := env.doJSON(t, "POST", "/api/templates", token, map[string]any{
		"title":        "Two Sum",
		"description":  "Array problem",
		"problem":      "Find two indices.",
		"examples":     "[2,7], 9 -> [0,1]",
		"constraints":  "n >= 2",
		"difficulty":   "easy",
		"tags":         []string{"array"},
		"starter_code": map[string]string{"python": "def two_sum(nums, target):\n    pass\n"},
	}, &tpl)
	if status != stdhttp.StatusCreated {
		t.Fatalf("create template: status %d", status)
	}

	var iv InterviewResponse
	status = env.doJSON(t, "POST", "/api/interviews", token, map[string]any{
		"title":       "Screen",
		"language":    "python",
		"template_id": tpl.ID,
	}, &iv)
	if status != stdhttp.StatusCreated {
		t.Fatalf("create interview: status %d", status)
	}
	if !strings.Contains(iv.Code, "two_sum") {
		t.Fatalf("template starter code not used: %q", iv.Code)
	}
}

func TestInterviewAccessControl(t *testing.T) {
	env := newTestEnv(t)
	interviewerToken, _ := env.signup(t, "alice@example.com", "Alice", "interviewer")
	candidateToken, candidateID := env.signup(t, "bob@example.com", "Bob", "candidate")
	strangerToken, _ := env.signup(t, "eve@example.com", "Eve", "candidate")

	iv := env.createInterview(t, interviewerToken, "Screen")

	// Outsiders cannot read the interview.
	if status := env.doJSON(t, "GET", "/api/interviews/"+iv.ID, strangerToken, nil, nil); status != stdhttp.StatusForbidden {
		t.Fatalf("stranger read: status %d, want 403", status)
	}

	// Assign the candidate, then they can read but not modify.
	status := env.doJSON(t, "PATCH", "/api/interviews/"+iv.ID, interviewerToken, map[string]any{
		"candidate_id":   candidateID,
		"candidate_name": "Bob",
	}, nil)
	if status != stdhttp.StatusOK {
		t.Fatalf("assign candidate: status %d", status)
	}

	if status := env.doJSON(t, "GET", "/api/interviews/"+iv.ID, candidateToken, nil, nil); status != stdhttp.StatusOK {
		t.Fatalf("candidate read: status %d", status)
	}
	status = env.doJSON(t, "PATCH", "/api/interviews/"+iv.ID, candidateToken, map[string]any{
		"title": "Hijacked",
	}, nil)
	if status != stdhttp.StatusForbidden {
		t.Fatalf("candidate modify: status %d, want 403", status)
	}

	if status := env.doJSON(t, "GET", "/api/interviews/missing", interviewerToken, nil, nil); status != stdhttp.StatusNotFound {
		t.Fatalf("missing interview: status %d, want 404", status)
	}
}

func TestListInterviewsByRole(t *testing.T) {
	env := newTestEnv(t)
	interviewerToken, _ := env.signup(t, "alice@example.com", "Alice", "interviewer")
	candidateToken, candidateID := env.signup(t, "bob@example.com", "Bob", "candidate")

	iv := env.createInterview(t, interviewerToken, "First")
	env.createInterview(t, interviewerToken, "Second")

	env.doJSON(t, "PATCH", "/api/interviews/"+iv.ID, interviewerToken, map[string]any{
		"candidate_id": candidateID,
	}, nil)

	var mine []InterviewResponse
	if status := env.doJSON(t, "GET", "/api/interviews?role=interviewer", interviewerToken, nil, &mine); status != stdhttp.StatusOK {
		t.Fatalf("list: status %d", status)
	}
	if len(mine) != 2 {
		t.Fatalf("interviewer sees %d interviews, want 2", len(mine))
	}

	var assigned []InterviewResponse
	if status := env.doJSON(t, "GET", "/api/interviews?role=candidate", candidateToken, nil, &assigned); status != stdhttp.StatusOK {
		t.Fatalf("list as candidate: status %d", status)
	}
	if len(assigned) != 1 || assigned[0].ID != iv.ID {
		t.Fatalf("candidate sees %+v", assigned)
	}
}

func TestDeleteInterview(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signup(t, "alice@example.com", "Alice", "interviewer")
	iv := env.createInterview(t, token, "Doomed")

	if status := env.doJSON(t, "DELETE", "/api/interviews/"+iv.ID, token, nil, nil); status != stdhttp.StatusNoContent {
		t.Fatalf("delete: status %d", status)
	}
	if status := env.doJSON(t, "GET", "/api/interviews/"+iv.ID, token, nil, nil); status != stdhttp.StatusNotFound {
		t.Fatalf("after delete: status %d, want 404", status)
	}
}

func TestInterviewStats(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signup(t, "alice@example.com", "Alice", "interviewer")

	first := env.createInterview(t, token, "First")
	env.createInterview(t, token, "Second")

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	ctx := context.Background()
	if err := env.store.UpdateInterviewStatus(ctx, first.ID, "in-progress", start); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := env.store.UpdateInterviewStatus(ctx, first.ID, "completed", start.Add(40*time.Minute)); err != nil {
		t.Fatalf("complete: %v", err)
	}

	var stats InterviewStatsResponse
	if status := env.doJSON(t, "GET", "/api/interviews/stats", token, nil, &stats); status != stdhttp.StatusOK {
		t.Fatalf("stats: status %d", status)
	}
	if stats.Total != 2 || stats.Completed != 1 || stats.AvgDuration != 40 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestListMessagesPagination(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.signup(t, "alice@example.com", "Alice", "interviewer")
	iv := env.createInterview(t, token, "Chatty")

	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"m1", "m2", "m3"} {
		err := env.store.SaveChatMessage(ctx, &store.ChatMessage{
			ID:          id,
			InterviewID: iv.ID,
			UserID:      userID,
			UserName:    "Alice",
			Message:     "msg " + id,
			Timestamp:   base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("seed message: %v", err)
		}
	}

	var page []ChatMessageResponse
	if status := env.doJSON(t, "GET", "/api/interviews/"+iv.ID+"/messages?limit=2", token, nil, &page); status != stdhttp.StatusOK {
		t.Fatalf("messages: status %d", status)
	}
	if len(page) != 2 || page[0].ID != "m3" {
		t.Fatalf("got %+v", page)
	}

	var rest []ChatMessageResponse
	if status := env.doJSON(t, "GET", "/api/interviews/"+iv.ID+"/messages?limit=2&offset=2", token, nil, &rest); status != stdhttp.StatusOK {
		t.Fatalf("messages page 2: status %d", status)
	}
	if len(rest) != 1 || rest[0].ID != "m1" {
		t.Fatalf("got %+v", rest)
	}
}

func TestListParticipantsEmptyRoom(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signup(t, "alice@example.com", "Alice", "interviewer")
	iv := env.createInterview(t, token, "Quiet")

	var resp struct {
		Participants []map[string]any `json:"participants"`
	}
	if status := env.doJSON(t, "GET", "/api/interviews/"+iv.ID+"/participants", token, nil, &resp); status != stdhttp.StatusOK {
		t.Fatalf("participants: status %d", status)
	}
	if len(resp.Participants) != 0 {
		t.Fatalf("got %+v, want empty", resp.Participants)
	}
}
