package mocks

import (
	"context"
	"net/http"
	"sync"

	"github.com/slunch-api/internal/models"
	"github.com/slunch-api/internal/push"
	"github.com/slunch-api/internal/service"
)

// MockCommentService is a mock implementation of CommentService
type MockCommentService struct {
	ListFunc   func(ctx context.Context, page, pageSize int) ([]*models.Comment, error)
	SubmitFunc func(ctx context.Context, req models.SubmitCommentRequest) (*models.Comment, error)
	EditFunc   func(ctx context.Context, req models.EditCommentRequest) (*models.Comment, error)
	GetFunc    func(ctx context.Context, id string) (*models.Comment, error)

	Submitted []models.SubmitCommentRequest
	Edited    []models.EditCommentRequest
}

// Verify interface compliance
var _ service.CommentService = (*MockCommentService)(nil)

func NewMockCommentService() *MockCommentService {
	return &MockCommentService{}
}

func (m *MockCommentService) ListToday(ctx context.Context, page, pageSize int) ([]*models.Comment, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, page, pageSize)
	}
	return []*models.Comment{}, nil
}

func (m *MockCommentService) Submit(ctx context.Context, req models.SubmitCommentRequest) (*models.Comment, error) {
	m.Submitted = append(m.Submitted, req)
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, req)
	}
	return &models.Comment{
		ID:       "00000000-0000-0000-0000-000000000001",
		Username: req.Username,
		Text:     req.Text,
		ClientID: req.Auth.ClientID,
		SourceIP: req.SourceIP,
	}, nil
}

func (m *MockCommentService) Edit(ctx context.Context, req models.EditCommentRequest) (*models.Comment, error) {
	m.Edited = append(m.Edited, req)
	if m.EditFunc != nil {
		return m.EditFunc(ctx, req)
	}
	return &models.Comment{ID: req.ID, Text: req.Text, ClientID: req.Auth.ClientID}, nil
}

func (m *MockCommentService) Get(ctx context.Context, id string) (*models.Comment, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, &service.Error{Kind: service.KindNotFound, Message: "Comment not found"}
}

// MockNotificationService is a mock implementation of NotificationService
type MockNotificationService struct {
	SubscribeErr   error
	UnsubscribeErr error
	BroadcastFunc  func(ctx context.Context, secretKey string, n models.Notification) (*models.BroadcastSummary, error)
	Subscribed     []string
	Unsubscribed   []string
}

var _ service.NotificationService = (*MockNotificationService)(nil)

func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

func (m *MockNotificationService) Subscribe(ctx context.Context, token string) error {
	m.Subscribed = append(m.Subscribed, token)
	return m.SubscribeErr
}

func (m *MockNotificationService) Unsubscribe(ctx context.Context, token string) error {
	m.Unsubscribed = append(m.Unsubscribed, token)
	return m.UnsubscribeErr
}

func (m *MockNotificationService) Broadcast(ctx context.Context, secretKey string, n models.Notification) (*models.BroadcastSummary, error) {
	if m.BroadcastFunc != nil {
		return m.BroadcastFunc(ctx, secretKey, n)
	}
	return &models.BroadcastSummary{}, nil
}

// MockAdminService is a mock implementation of AdminService
type MockAdminService struct {
	SecretKey string
	Bans      map[string]*models.Ban
}

var _ service.AdminService = (*MockAdminService)(nil)

func NewMockAdminService(secretKey string) *MockAdminService {
	return &MockAdminService{
		SecretKey: secretKey,
		Bans:      make(map[string]*models.Ban),
	}
}

func (m *MockAdminService) Authorize(secretKey string) error {
	if secretKey == "" || secretKey != m.SecretKey {
		return &service.Error{Kind: service.KindAuth, Message: "Not authorized"}
	}
	return nil
}

func (m *MockAdminService) Ban(ctx context.Context, clientID string) (*models.Ban, error) {
	ban := &models.Ban{ClientID: clientID}
	m.Bans[clientID] = ban
	return ban, nil
}

func (m *MockAdminService) Unban(ctx context.Context, clientID string) error {
	if _, ok := m.Bans[clientID]; !ok {
		return &service.Error{Kind: service.KindNotFound, Message: "Ban not found"}
	}
	delete(m.Bans, clientID)
	return nil
}

func (m *MockAdminService) GetBan(ctx context.Context, clientID string) (*models.Ban, error) {
	ban, ok := m.Bans[clientID]
	if !ok {
		return nil, &service.Error{Kind: service.KindNotFound, Message: "Ban not found"}
	}
	return ban, nil
}

// MockExportService is a mock implementation of ExportService
type MockExportService struct {
	StreamCommentsFunc func(ctx context.Context, w http.ResponseWriter, format string) error
	Counts             map[string]int
}

var _ service.ExportService = (*MockExportService)(nil)

func NewMockExportService() *MockExportService {
	return &MockExportService{
		Counts: map[string]int{
			"comments":    0,
			"bans":        0,
			"subscribers": 0,
		},
	}
}

func (m *MockExportService) StreamComments(ctx context.Context, w http.ResponseWriter, format string) error {
	if m.StreamCommentsFunc != nil {
		return m.StreamCommentsFunc(ctx, w, format)
	}
	return nil
}

func (m *MockExportService) GetCount(ctx context.Context, resource string) (int, error) {
	return m.Counts[resource], nil
}

var _ push.Sender = (*MockSender)(nil)

// MockSender records push sends. FailTokens make Send fail for those tokens.
type MockSender struct {
	mu         sync.Mutex
	FailTokens map[string]error
	Sent       []string
	Attempted  []string
}

func NewMockSender() *MockSender {
	return &MockSender{FailTokens: make(map[string]error)}
}

func (m *MockSender) Send(ctx context.Context, token string, n models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Attempted = append(m.Attempted, token)
	if err, ok := m.FailTokens[token]; ok {
		return err
	}
	m.Sent = append(m.Sent, token)
	return nil
}

// MockReplayGuard is an in-memory ReplayGuard
type MockReplayGuard struct {
	mu    sync.Mutex
	Seen  map[string]bool
	Error error
}

var _ service.ReplayGuard = (*MockReplayGuard)(nil)

func NewMockReplayGuard() *MockReplayGuard {
	return &MockReplayGuard{Seen: make(map[string]bool)}
}

func (m *MockReplayGuard) Claim(ctx context.Context, clientID string, timestampMillis int64, signature string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Error != nil {
		return false, m.Error
	}
	key := clientID + ":" + signature
	if m.Seen[key] {
		return false, nil
	}
	m.Seen[key] = true
	return true, nil
}
