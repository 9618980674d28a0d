package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/resenas-io/resenas/internal/models"
)

// Mongo backs the user directory and review repository with two collections
// in a single database.
type Mongo struct {
	client  *mongo.Client
	users   *mongo.Collection
	reviews *mongo.Collection
}

// ConnectMongo connects to the document store at the given URI.
func ConnectMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := client.Database(database)
	return &Mongo{
		client:  client,
		users:   db.Collection("users"),
		reviews: db.Collection("reviews"),
	}, nil
}

// Close disconnects from the document store.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// EnsureUser upserts on the email key with $setOnInsert, so concurrent first
// logins for the same email still yield a single record.
func (m *Mongo) EnsureUser(ctx context.Context, user *models.User) error {
	filter := bson.M{"email": user.Email}
	update := bson.M{"$setOnInsert": bson.M{
		"email":      user.Email,
		"name":       user.Name,
		"google_id":  user.GoogleID,
		"created_at": user.CreatedAt,
	}}

	_, err := m.users.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by email.
func (m *Mongo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := m.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// InsertReview persists a review document and returns the generated id.
func (m *Mongo) InsertReview(ctx context.Context, review *models.Review) (string, error) {
	res, err := m.reviews.InsertOne(ctx, review)
	if err != nil {
		return "", fmt.Errorf("failed to insert review: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	review.ID = id
	return id.Hex(), nil
}

// ListReviews returns every review, unfiltered and unpaginated.
func (m *Mongo) ListReviews(ctx context.Context) ([]models.Review, error) {
	cursor, err := m.reviews.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}

var (
	_ UserStore   = (*Mongo)(nil)
	_ ReviewStore = (*Mongo)(nil)
)
