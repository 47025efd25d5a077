package service_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/slunch-api/internal/models"
	"github.com/slunch-api/internal/service"
)

var testNotification = models.Notification{Title: "오늘의 급식", Body: "Menu is up"}

func TestNotificationService_Subscribe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.services.Notification.Subscribe(ctx, "tok-1"); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if err := f.services.Notification.Subscribe(ctx, "tok-1"); err != nil {
		t.Fatalf("duplicate Subscribe failed: %v", err)
	}
	if len(f.subscribers.Tokens) != 1 {
		t.Errorf("Expected 1 token, got %d", len(f.subscribers.Tokens))
	}

	err := f.services.Notification.Subscribe(ctx, "")
	assertKind(t, err, service.KindInvalidArgument)

	err = f.services.Notification.Subscribe(ctx, strings.Repeat("t", models.MaxTokenLength+1))
	assertKind(t, err, service.KindInvalidArgument)

	f.subscribers.QueryError = errors.New("down")
	err = f.services.Notification.Subscribe(ctx, "tok-2")
	assertKind(t, err, service.KindStorage)
}

func TestNotificationService_Unsubscribe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.services.Notification.Subscribe(ctx, "tok-1")
	if err := f.services.Notification.Unsubscribe(ctx, "tok-1"); err != nil {
		t.Fatalf("Unsubscribe failed: %v", err)
	}
	if len(f.subscribers.Tokens) != 0 {
		t.Errorf("Expected no tokens, got %v", f.subscribers.Tokens)
	}

	if err := f.services.Notification.Unsubscribe(ctx, "never-registered"); err != nil {
		t.Errorf("Unsubscribing an unknown token should succeed, got %v", err)
	}
}

func TestNotificationService_BroadcastPartialFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, tok := range []string{"tok-1", "tok-2", "tok-3"} {
		f.services.Notification.Subscribe(ctx, tok)
	}
	f.sender.FailTokens["tok-2"] = errors.New("unregistered")

	summary, err := f.services.Notification.Broadcast(ctx, testAdminSecret, testNotification)
	if err != nil {
		t.Fatalf("Broadcast failed: %v", err)
	}

	want := models.BroadcastSummary{SuccessCount: 2, FailureCount: 1, Total: 3}
	if *summary != want {
		t.Errorf("Expected %+v, got %+v", want, *summary)
	}

	attempted := append([]string(nil), f.sender.Attempted...)
	sort.Strings(attempted)
	if strings.Join(attempted, ",") != "tok-1,tok-2,tok-3" {
		t.Errorf("Expected every token attempted once, got %v", attempted)
	}
}

func TestNotificationService_BroadcastDeduplicates(t *testing.T) {
	f := newFixture(t)
	f.subscribers.Tokens = []string{"tok-1", "tok-1", "tok-2"}

	summary, err := f.services.Notification.Broadcast(context.Background(), testAdminSecret, testNotification)
	if err != nil {
		t.Fatalf("Broadcast failed: %v", err)
	}
	if summary.Total != 2 || summary.SuccessCount != 2 {
		t.Errorf("Unexpected summary: %+v", summary)
	}
	if len(f.sender.Attempted) != 2 {
		t.Errorf("Expected 2 sends, got %d", len(f.sender.Attempted))
	}
}

func TestNotificationService_BroadcastNoSubscribers(t *testing.T) {
	f := newFixture(t)

	summary, err := f.services.Notification.Broadcast(context.Background(), testAdminSecret, testNotification)
	if err != nil {
		t.Fatalf("Broadcast failed: %v", err)
	}
	if *summary != (models.BroadcastSummary{}) {
		t.Errorf("Expected empty summary, got %+v", summary)
	}
}

func TestNotificationService_BroadcastRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.services.Notification.Subscribe(ctx, "tok-1")

	tests := []struct {
		name   string
		secret string
		n      models.Notification
		want   service.Kind
	}{
		{"wrong secret", "guess", testNotification, service.KindAuth},
		{"empty secret", "", testNotification, service.KindAuth},
		{"missing title", testAdminSecret, models.Notification{Body: "b"}, service.KindInvalidArgument},
		{"missing body", testAdminSecret, models.Notification{Title: "t"}, service.KindInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.services.Notification.Broadcast(ctx, tt.secret, tt.n)
			assertKind(t, err, tt.want)
		})
	}

	if len(f.sender.Attempted) != 0 {
		t.Errorf("Expected no sends, got %v", f.sender.Attempted)
	}
}
