package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/slunch-api/internal/mocks"
	"github.com/slunch-api/internal/models"
	"github.com/slunch-api/internal/repository"
)

func TestMockCommentRepository_ListByDay(t *testing.T) {
	repo := mocks.NewMockCommentRepository()
	ctx := context.Background()
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	comments := []*models.Comment{
		{ID: "a", ClientID: "d1", CreatedAt: day.Add(9 * time.Hour)},
		{ID: "b", ClientID: "d2", CreatedAt: day.Add(10 * time.Hour)},
		{ID: "c", ClientID: "d3", CreatedAt: day.Add(10 * time.Hour)},
		{ID: "d", ClientID: "d4", CreatedAt: day.Add(-time.Minute)},
		{ID: "e", ClientID: "d5", CreatedAt: day.Add(24 * time.Hour)},
	}
	for _, c := range comments {
		if err := repo.Create(ctx, c); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	got, err := repo.ListByDay(ctx, day, day.AddDate(0, 0, 1), 10, 0)
	if err != nil {
		t.Fatalf("ListByDay failed: %v", err)
	}

	want := []string{"c", "b", "a"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d comments, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}

	page, _ := repo.ListByDay(ctx, day, day.AddDate(0, 0, 1), 2, 2)
	if len(page) != 1 || page[0].ID != "a" {
		t.Errorf("Expected last page [a], got %v", page)
	}

	empty, _ := repo.ListByDay(ctx, day, day.AddDate(0, 0, 1), 2, 10)
	if len(empty) != 0 {
		t.Errorf("Expected empty page, got %d", len(empty))
	}
}

func TestMockCommentRepository_UpdateText(t *testing.T) {
	repo := mocks.NewMockCommentRepository()
	ctx := context.Background()
	repo.Create(ctx, &models.Comment{ID: "a", Text: "old", CreatedAt: time.Now()})

	at := time.Now()
	if err := repo.UpdateText(ctx, "a", "new", at); err != nil {
		t.Fatalf("UpdateText failed: %v", err)
	}
	stored, _ := repo.GetByID(ctx, "a")
	if stored.Text != "new" || stored.UpdatedAt == nil || !stored.UpdatedAt.Equal(at) {
		t.Errorf("Unexpected stored comment: %+v", stored)
	}

	if err := repo.UpdateText(ctx, "missing", "x", at); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	missing, err := repo.GetByID(ctx, "missing")
	if err != nil || missing != nil {
		t.Errorf("Expected nil, nil for missing comment, got %v, %v", missing, err)
	}
}

func TestMockCommentRepository_ExistsByClientSince(t *testing.T) {
	repo := mocks.NewMockCommentRepository()
	ctx := context.Background()
	now := time.Now()
	repo.Create(ctx, &models.Comment{ID: "a", ClientID: "d1", CreatedAt: now.Add(-20 * time.Second)})

	tests := []struct {
		clientID string
		since    time.Time
		want     bool
	}{
		{"d1", now.Add(-30 * time.Second), true},
		{"d1", now.Add(-20 * time.Second), true},
		{"d1", now.Add(-10 * time.Second), false},
		{"d2", now.Add(-time.Hour), false},
	}

	for _, tt := range tests {
		got, err := repo.ExistsByClientSince(ctx, tt.clientID, tt.since)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("ExistsByClientSince(%s, %v) = %v, want %v", tt.clientID, tt.since, got, tt.want)
		}
	}
}

func TestMockBanRepository_RecordViolation(t *testing.T) {
	repo := mocks.NewMockBanRepository()
	ctx := context.Background()

	if _, err := repo.RecordViolation(ctx, "d1"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unbanned client, got %v", err)
	}

	repo.Upsert(ctx, "d1")
	for i := 1; i <= 3; i++ {
		count, err := repo.RecordViolation(ctx, "d1")
		if err != nil {
			t.Fatalf("RecordViolation failed: %v", err)
		}
		if count != i {
			t.Errorf("Expected count %d, got %d", i, count)
		}
	}

	// Re-banning keeps the counter.
	ban, _ := repo.Upsert(ctx, "d1")
	if ban.ViolationCount != 3 {
		t.Errorf("Expected count 3 after re-ban, got %d", ban.ViolationCount)
	}

	removed, _ := repo.Delete(ctx, "d1")
	if !removed {
		t.Error("Expected Delete to report removal")
	}
	banned, _ := repo.IsBanned(ctx, "d1")
	if banned {
		t.Error("Expected client to be unbanned")
	}
}

func TestMockSubscriberRepository_Uniqueness(t *testing.T) {
	repo := mocks.NewMockSubscriberRepository()
	ctx := context.Background()

	created, _ := repo.Add(ctx, "tok-1")
	if !created {
		t.Error("Expected first Add to create")
	}
	created, _ = repo.Add(ctx, "tok-1")
	if created {
		t.Error("Expected duplicate Add to be a no-op")
	}
	repo.Add(ctx, "tok-2")

	tokens, _ := repo.ListTokens(ctx)
	if len(tokens) != 2 || tokens[0] != "tok-1" || tokens[1] != "tok-2" {
		t.Errorf("Unexpected tokens: %v", tokens)
	}

	removed, _ := repo.Remove(ctx, "absent")
	if removed {
		t.Error("Expected Remove of absent token to report false")
	}
	count, _ := repo.Count(ctx)
	if count != 2 {
		t.Errorf("Expected count 2, got %d", count)
	}
}
