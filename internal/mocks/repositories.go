package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/slunch-api/internal/models"
	"github.com/slunch-api/internal/repository"
)

// Verify interface compliance
var (
	_ repository.CommentRepository    = (*MockCommentRepository)(nil)
	_ repository.BanRepository        = (*MockBanRepository)(nil)
	_ repository.SubscriberRepository = (*MockSubscriberRepository)(nil)
)

// NewRepositories bundles fresh in-memory repositories
func NewRepositories() (*repository.Repositories, *MockCommentRepository, *MockBanRepository, *MockSubscriberRepository) {
	comments := NewMockCommentRepository()
	bans := NewMockBanRepository()
	subscribers := NewMockSubscriberRepository()
	return &repository.Repositories{
		Comment:    comments,
		Ban:        bans,
		Subscriber: subscribers,
	}, comments, bans, subscribers
}

// MockCommentRepository is an in-memory CommentRepository
type MockCommentRepository struct {
	mu          sync.Mutex
	Comments    map[string]*models.Comment
	InsertError error
	QueryError  error
	CreateCalls int
}

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{
		Comments: make(map[string]*models.Comment),
	}
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	if m.InsertError != nil {
		return m.InsertError
	}
	stored := *comment
	m.Comments[comment.ID] = &stored
	return nil
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	c, ok := m.Comments[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (m *MockCommentRepository) ListByDay(ctx context.Context, start, end time.Time, limit, offset int) ([]*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryError != nil {
		return nil, m.QueryError
	}

	var matched []*models.Comment
	for _, c := range m.Comments {
		if !c.CreatedAt.Before(start) && c.CreatedAt.Before(end) {
			copied := *c
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if offset >= len(matched) {
		return []*models.Comment{}, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (m *MockCommentRepository) UpdateText(ctx context.Context, id, text string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryError != nil {
		return m.QueryError
	}
	c, ok := m.Comments[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.Text = text
	c.UpdatedAt = &updatedAt
	return nil
}

func (m *MockCommentRepository) ExistsByClientSince(ctx context.Context, clientID string, since time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryError != nil {
		return false, m.QueryError
	}
	for _, c := range m.Comments {
		if c.ClientID == clientID && !c.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockCommentRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Comments), nil
}

func (m *MockCommentRepository) StreamAll(ctx context.Context, callback func(*models.Comment) error) error {
	m.mu.Lock()
	all := make([]*models.Comment, 0, len(m.Comments))
	for _, c := range m.Comments {
		all = append(all, c)
	}
	m.mu.Unlock()

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	for _, c := range all {
		if err := callback(c); err != nil {
			return err
		}
	}
	return nil
}

// MockBanRepository is an in-memory BanRepository
type MockBanRepository struct {
	mu         sync.Mutex
	Bans       map[string]*models.Ban
	QueryError error
}

func NewMockBanRepository() *MockBanRepository {
	return &MockBanRepository{
		Bans: make(map[string]*models.Ban),
	}
}

func (m *MockBanRepository) IsBanned(ctx context.Context, clientID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryError != nil {
		return false, m.QueryError
	}
	_, ok := m.Bans[clientID]
	return ok, nil
}

func (m *MockBanRepository) RecordViolation(ctx context.Context, clientID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryError != nil {
		return 0, m.QueryError
	}
	ban, ok := m.Bans[clientID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	ban.ViolationCount++
	ban.UpdatedAt = time.Now()
	return ban.ViolationCount, nil
}

func (m *MockBanRepository) Get(ctx context.Context, clientID string) (*models.Ban, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	ban, ok := m.Bans[clientID]
	if !ok {
		return nil, nil
	}
	copied := *ban
	return &copied, nil
}

func (m *MockBanRepository) Upsert(ctx context.Context, clientID string) (*models.Ban, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	now := time.Now()
	ban, ok := m.Bans[clientID]
	if !ok {
		ban = &models.Ban{ClientID: clientID, CreatedAt: now}
		m.Bans[clientID] = ban
	}
	ban.UpdatedAt = now
	copied := *ban
	return &copied, nil
}

func (m *MockBanRepository) Delete(ctx context.Context, clientID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryError != nil {
		return false, m.QueryError
	}
	_, ok := m.Bans[clientID]
	delete(m.Bans, clientID)
	return ok, nil
}

func (m *MockBanRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Bans), nil
}

// MockSubscriberRepository is an in-memory SubscriberRepository that keeps
// insertion order
type MockSubscriberRepository struct {
	mu         sync.Mutex
	Tokens     []string
	QueryError error
}

func NewMockSubscriberRepository() *MockSubscriberRepository {
	return &MockSubscriberRepository{}
}

func (m *MockSubscriberRepository) Add(ctx context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryError != nil {
		return false, m.QueryError
	}
	for _, t := range m.Tokens {
		if t == token {
			return false, nil
		}
	}
	m.Tokens = append(m.Tokens, token)
	return true, nil
}

func (m *MockSubscriberRepository) Remove(ctx context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryError != nil {
		return false, m.QueryError
	}
	for i, t := range m.Tokens {
		if t == token {
			m.Tokens = append(m.Tokens[:i], m.Tokens[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MockSubscriberRepository) ListTokens(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	return append([]string(nil), m.Tokens...), nil
}

func (m *MockSubscriberRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Tokens), nil
}
