package goal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fitgoals/backend/internal/common/authguard"
	"github.com/fitgoals/backend/internal/common/clock"
	"github.com/fitgoals/backend/internal/common/logger"
	"github.com/fitgoals/backend/internal/common/token"
	goalhttp "github.com/fitgoals/backend/internal/goal/http"
	"github.com/fitgoals/backend/internal/goal/service"
	userdomain "github.com/fitgoals/backend/internal/user/domain"
)

const testJWTSecret = "test-secret-0123456789-0123456789-xyz"

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type goalPayload struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartDate   string `json:"startDate"`
	TargetDate  string `json:"targetDate"`
}

type goalEnvelope struct {
	Message string      `json:"message"`
	Goal    goalPayload `json:"goal"`
}

type goalHTTPFixture struct {
	handler http.Handler
	tokenA  string
	tokenB  string
}

func setupGoalHTTP(t *testing.T) *goalHTTPFixture {
	t.Helper()

	log, err := logger.New("", "test", "info")
	if err != nil {
		t.Fatalf("create logger: %v", err)
	}

	mockClock := clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	codec := token.NewHS256Codec(testJWTSecret, 2*time.Hour, &mockIDGen{}).WithNow(mockClock.Now)

	users := &mockUserRepo{
		findByIDFunc: func(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
			return userdomain.User{ID: id, Username: "user-" + string(id)}, nil
		},
	}
	guard := authguard.New(codec, users, log)

	repo := newMemGoalRepo()
	svc := service.NewGoalService(repo, nil, &mockIDGen{}, log).WithNow(mockClock.Now)

	tokenA, err := codec.Sign(ownerA)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	tokenB, err := codec.Sign(ownerB)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	return &goalHTTPFixture{
		handler: goalhttp.NewHandler(svc, guard, 30*time.Second, log),
		tokenA:  tokenA,
		tokenB:  tokenB,
	}
}

func (f *goalHTTPFixture) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func goalBody(title string) map[string]string {
	return map[string]string{
		"title":       title,
		"description": "Train for and complete a full marathon",
		"startDate":   "2025-06-01",
		"targetDate":  "2025-12-01",
	}
}

func (f *goalHTTPFixture) createGoal(t *testing.T, bearer, title string) goalPayload {
	t.Helper()

	rec := f.do(t, http.MethodPost, "/api/goals", bearer, goalBody(title))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create goal: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var env goalEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if env.Goal.ID == "" {
		t.Fatal("expected goal id in response")
	}
	return env.Goal
}

func TestGoalHTTP_Create(t *testing.T) {
	f := setupGoalHTTP(t)

	goal := f.createGoal(t, f.tokenA, "Run a marathon")
	if goal.Title != "Run a marathon" {
		t.Errorf("unexpected title %q", goal.Title)
	}
	if goal.UserID != ownerA {
		t.Errorf("expected owner %s, got %s", ownerA, goal.UserID)
	}
}

func TestGoalHTTP_Create_MissingField(t *testing.T) {
	f := setupGoalHTTP(t)

	body := goalBody("Run a marathon")
	delete(body, "targetDate")

	rec := f.do(t, http.MethodPost, "/api/goals", f.tokenA, body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var env errorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if env.Code != "VALIDATION_FAILED" {
		t.Errorf("expected VALIDATION_FAILED, got %s", env.Code)
	}
}

func TestGoalHTTP_Create_NoToken(t *testing.T) {
	f := setupGoalHTTP(t)

	rec := f.do(t, http.MethodPost, "/api/goals", "", goalBody("Run a marathon"))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGoalHTTP_List_EmptyArray(t *testing.T) {
	f := setupGoalHTTP(t)

	rec := f.do(t, http.MethodGet, "/api/goals", f.tokenA, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected bare empty array, got %s", body)
	}
}

func TestGoalHTTP_List_BareArrayPerOwner(t *testing.T) {
	f := setupGoalHTTP(t)

	f.createGoal(t, f.tokenA, "Run a marathon")
	f.createGoal(t, f.tokenA, "Learn to swim")
	f.createGoal(t, f.tokenB, "Climb a mountain")

	rec := f.do(t, http.MethodGet, "/api/goals", f.tokenA, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var goals []goalPayload
	if err := json.NewDecoder(rec.Body).Decode(&goals); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(goals) != 2 {
		t.Fatalf("expected 2 goals, got %d", len(goals))
	}
	if goals[0].Title != "Run a marathon" || goals[1].Title != "Learn to swim" {
		t.Errorf("expected creation order, got %q then %q", goals[0].Title, goals[1].Title)
	}
}

func TestGoalHTTP_Get_BareGoal(t *testing.T) {
	f := setupGoalHTTP(t)

	created := f.createGoal(t, f.tokenA, "Run a marathon")

	rec := f.do(t, http.MethodGet, "/api/goals/"+created.ID, f.tokenA, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var raw map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&raw); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if _, ok := raw["message"]; ok {
		t.Error("single goal fetch must return the bare goal, not an envelope")
	}
	if raw["title"] != "Run a marathon" {
		t.Errorf("unexpected payload: %v", raw)
	}
}

func TestGoalHTTP_Get_UnknownID(t *testing.T) {
	f := setupGoalHTTP(t)

	rec := f.do(t, http.MethodGet, "/api/goals/cccccccc-0000-0000-0000-000000000003", f.tokenA, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var env errorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if env.Code != "GOAL_NOT_FOUND" {
		t.Errorf("expected GOAL_NOT_FOUND, got %s", env.Code)
	}
}

func TestGoalHTTP_Get_MalformedID(t *testing.T) {
	f := setupGoalHTTP(t)

	rec := f.do(t, http.MethodGet, "/api/goals/not-a-uuid", f.tokenA, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGoalHTTP_Get_ForeignGoal(t *testing.T) {
	f := setupGoalHTTP(t)

	created := f.createGoal(t, f.tokenA, "Run a marathon")

	rec := f.do(t, http.MethodGet, "/api/goals/"+created.ID, f.tokenB, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for foreign goal, got %d", rec.Code)
	}
	var env errorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if env.Code != "NOT_GOAL_OWNER" {
		t.Errorf("expected NOT_GOAL_OWNER, got %s", env.Code)
	}
}

func TestGoalHTTP_Update(t *testing.T) {
	f := setupGoalHTTP(t)

	created := f.createGoal(t, f.tokenA, "Run a marathon")

	rec := f.do(t, http.MethodPut, "/api/goals/"+created.ID, f.tokenA, map[string]string{
		"title":       "Run two marathons",
		"description": "Revised plan",
		"startDate":   "2025-07-01",
		"targetDate":  "2026-01-01",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var env goalEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if env.Goal.Title != "Run two marathons" || env.Goal.StartDate != "2025-07-01" {
		t.Errorf("fields not replaced: %+v", env.Goal)
	}
}

func TestGoalHTTP_Update_PartialBodyRejected(t *testing.T) {
	f := setupGoalHTTP(t)

	created := f.createGoal(t, f.tokenA, "Run a marathon")

	rec := f.do(t, http.MethodPut, "/api/goals/"+created.ID, f.tokenA, map[string]string{
		"title": "Run two marathons",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for partial update, got %d", rec.Code)
	}
}

func TestGoalHTTP_Update_ForeignGoal(t *testing.T) {
	f := setupGoalHTTP(t)

	created := f.createGoal(t, f.tokenA, "Run a marathon")

	rec := f.do(t, http.MethodPut, "/api/goals/"+created.ID, f.tokenB, goalBody("Hijacked"))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGoalHTTP_Delete(t *testing.T) {
	f := setupGoalHTTP(t)

	created := f.createGoal(t, f.tokenA, "Run a marathon")

	rec := f.do(t, http.MethodDelete, "/api/goals/"+created.ID, f.tokenA, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = f.do(t, http.MethodGet, "/api/goals/"+created.ID, f.tokenA, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestGoalHTTP_MethodNotAllowed(t *testing.T) {
	f := setupGoalHTTP(t)

	created := f.createGoal(t, f.tokenA, "Run a marathon")

	rec := f.do(t, http.MethodPatch, "/api/goals/"+created.ID, f.tokenA, nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
