package store

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/resenas-io/resenas/internal/models"
)

// Memory is an in-process implementation of the store interfaces. It backs
// handler tests; the semantics mirror the Mongo implementation, including
// insertion-order listing.
type Memory struct {
	mu      sync.Mutex
	users   map[string]models.User
	reviews []models.Review
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{users: make(map[string]models.User)}
}

func (m *Memory) EnsureUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.Email]; ok {
		return nil
	}

	stored := *user
	if stored.ID.IsZero() {
		stored.ID = primitive.NewObjectID()
	}
	m.users[user.Email] = stored
	return nil
}

func (m *Memory) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[email]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (m *Memory) InsertReview(ctx context.Context, review *models.Review) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	m.reviews = append(m.reviews, *review)
	return review.ID.Hex(), nil
}

func (m *Memory) ListReviews(ctx context.Context) ([]models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Review, len(m.reviews))
	copy(out, m.reviews)
	return out, nil
}

// UserCount reports how many distinct users exist. Test helper.
func (m *Memory) UserCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

var (
	_ UserStore   = (*Memory)(nil)
	_ ReviewStore = (*Memory)(nil)
)
