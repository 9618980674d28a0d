package store

import (
	"context"
	"errors"

	"github.com/resenas-io/resenas/internal/models"
)

var ErrNotFound = errors.New("not found")

// UserStore handles the user directory. Users are created on first login and
// never updated afterwards.
type UserStore interface {
	// EnsureUser creates the user if no record exists for its email.
	// An existing record is left untouched. Idempotent.
	EnsureUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// ReviewStore persists and lists review documents. No uniqueness or schema
// constraints are enforced at this layer.
type ReviewStore interface {
	// InsertReview persists a new review and returns its generated id.
	InsertReview(ctx context.Context, review *models.Review) (string, error)
	// ListReviews returns every persisted review in storage-native order.
	ListReviews(ctx context.Context) ([]models.Review, error)
}
