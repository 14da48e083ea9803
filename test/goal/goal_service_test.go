package goal

import (
	"context"
	"errors"
	"testing"
	"time"

	commonerrors "github.com/fitgoals/backend/internal/common/errors"
	"github.com/fitgoals/backend/internal/goal/service"
)

const (
	ownerA = "aaaaaaaa-0000-0000-0000-000000000001"
	ownerB = "bbbbbbbb-0000-0000-0000-000000000002"
)

func TestGoalService_CreateAndGet(t *testing.T) {
	svc, _, _ := setupGoalService(t)

	created, err := svc.Create(context.Background(), ownerA, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected goal id to be assigned")
	}
	if created.UserID != ownerA {
		t.Errorf("expected owner %s, got %s", ownerA, created.UserID)
	}

	got, err := svc.Get(context.Background(), ownerA, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Run a marathon" {
		t.Errorf("unexpected title %q", got.Title)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("created_at changed between create and get")
	}
}

func TestGoalService_Create_TrimsFields(t *testing.T) {
	svc, _, _ := setupGoalService(t)

	input := validInput()
	input.Title = "  Run a marathon  "

	created, err := svc.Create(context.Background(), ownerA, input)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Title != "Run a marathon" {
		t.Errorf("expected trimmed title, got %q", created.Title)
	}
}

func TestGoalService_Create_MissingField(t *testing.T) {
	svc, _, _ := setupGoalService(t)

	input := validInput()
	input.TargetDate = "   "

	_, err := svc.Create(context.Background(), ownerA, input)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if domainErr, ok := commonerrors.AsDomainError(err); !ok || domainErr.Code() != "VALIDATION_FAILED" {
		t.Errorf("expected VALIDATION_FAILED, got %v", err)
	}
}

func TestGoalService_Get_Missing(t *testing.T) {
	svc, _, _ := setupGoalService(t)

	_, err := svc.Get(context.Background(), ownerA, "cccccccc-0000-0000-0000-000000000003")
	if !errors.Is(err, service.ErrGoalNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	domainErr, _ := commonerrors.AsDomainError(err)
	if domainErr.HTTPStatus() != 404 {
		t.Errorf("expected status 404, got %d", domainErr.HTTPStatus())
	}
}

func TestGoalService_Get_ForeignOwner(t *testing.T) {
	svc, _, _ := setupGoalService(t)

	created, err := svc.Create(context.Background(), ownerA, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Get(context.Background(), ownerB, created.ID)
	if !errors.Is(err, service.ErrNotOwner) {
		t.Fatalf("expected ownership rejection, got %v", err)
	}
	if errors.Is(err, service.ErrGoalNotFound) {
		t.Error("existing foreign goal must not report not-found")
	}

	domainErr, _ := commonerrors.AsDomainError(err)
	if domainErr.HTTPStatus() != 401 {
		t.Errorf("expected status 401, got %d", domainErr.HTTPStatus())
	}
}

func TestGoalService_List_EmptyIsNotNil(t *testing.T) {
	svc, _, _ := setupGoalService(t)

	goals, err := svc.List(context.Background(), ownerA)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if goals == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(goals) != 0 {
		t.Errorf("expected 0 goals, got %d", len(goals))
	}
}

func TestGoalService_List_OnlyOwnGoals(t *testing.T) {
	svc, _, _ := setupGoalService(t)

	first, err := svc.Create(context.Background(), ownerA, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	input := validInput()
	input.Title = "Learn to swim"
	second, err := svc.Create(context.Background(), ownerA, input)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Create(context.Background(), ownerB, validInput()); err != nil {
		t.Fatalf("create for other owner: %v", err)
	}

	goals, err := svc.List(context.Background(), ownerA)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(goals) != 2 {
		t.Fatalf("expected 2 goals, got %d", len(goals))
	}
	if goals[0].ID != first.ID || goals[1].ID != second.ID {
		t.Error("expected goals in creation order")
	}
	for _, g := range goals {
		if g.UserID != ownerA {
			t.Errorf("foreign goal leaked into list: %s", g.ID)
		}
	}
}

func TestGoalService_Update_FullReplace(t *testing.T) {
	svc, _, mockClock := setupGoalService(t)

	created, err := svc.Create(context.Background(), ownerA, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	mockClock.Advance(time.Hour)

	updated, err := svc.Update(context.Background(), ownerA, created.ID, service.GoalInput{
		Title:       "Run two marathons",
		Description: "Revised plan",
		StartDate:   "2025-07-01",
		TargetDate:  "2026-01-01",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Title != "Run two marathons" || updated.StartDate != "2025-07-01" {
		t.Errorf("fields not replaced: %+v", updated)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("created_at must not change on update")
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Error("updated_at must advance on update")
	}
}

func TestGoalService_Update_MissingFieldRejected(t *testing.T) {
	svc, _, _ := setupGoalService(t)

	created, err := svc.Create(context.Background(), ownerA, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	input := validInput()
	input.Description = ""

	_, err = svc.Update(context.Background(), ownerA, created.ID, input)
	if err == nil {
		t.Fatal("expected validation error for omitted field")
	}
	if domainErr, ok := commonerrors.AsDomainError(err); !ok || domainErr.Code() != "VALIDATION_FAILED" {
		t.Errorf("expected VALIDATION_FAILED, got %v", err)
	}

	// the stored goal is untouched
	got, err := svc.Get(context.Background(), ownerA, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Description != created.Description {
		t.Error("rejected update must not modify the goal")
	}
}

func TestGoalService_Update_ForeignOwner(t *testing.T) {
	svc, _, _ := setupGoalService(t)

	created, err := svc.Create(context.Background(), ownerA, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Update(context.Background(), ownerB, created.ID, validInput())
	if !errors.Is(err, service.ErrNotOwner) {
		t.Fatalf("expected ownership rejection, got %v", err)
	}
}

func TestGoalService_Delete(t *testing.T) {
	svc, _, _ := setupGoalService(t)

	created, err := svc.Create(context.Background(), ownerA, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), ownerA, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err = svc.Get(context.Background(), ownerA, created.ID)
	if !errors.Is(err, service.ErrGoalNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	if err := svc.Delete(context.Background(), ownerA, created.ID); !errors.Is(err, service.ErrGoalNotFound) {
		t.Fatalf("expected not found on double delete, got %v", err)
	}
}

func TestGoalService_Delete_ForeignOwner(t *testing.T) {
	svc, _, _ := setupGoalService(t)

	created, err := svc.Create(context.Background(), ownerA, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), ownerB, created.ID); !errors.Is(err, service.ErrNotOwner) {
		t.Fatalf("expected ownership rejection, got %v", err)
	}

	// goal survives the rejected delete
	if _, err := svc.Get(context.Background(), ownerA, created.ID); err != nil {
		t.Fatalf("goal should still exist: %v", err)
	}
}
