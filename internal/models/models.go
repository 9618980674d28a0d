package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is created on first successful Google login and never touched again.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Email     string             `bson:"email" json:"email"`
	Name      string             `bson:"name" json:"name"`
	GoogleID  string             `bson:"google_id" json:"google_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Review is the stored document. Alongside the review fields proper it keeps
// a full snapshot of the session token that authored it (author identity, the
// raw token string and its issued/expiry times). Sessions themselves are never
// persisted, so this snapshot is the only provenance a record carries.
type Review struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Establishment  string             `bson:"establishment"`
	Address        string             `bson:"address"`
	Rating         int                `bson:"rating"`
	ImageURLs      []string           `bson:"image_urls"`
	Latitude       float64            `bson:"latitude"`
	Longitude      float64            `bson:"longitude"`
	AuthorEmail    string             `bson:"author_email"`
	AuthorName     string             `bson:"author_name"`
	TokenIssuedAt  int64              `bson:"token_issued_at"`
	TokenExpiresAt int64              `bson:"token_expires_at"`
	RawToken       string             `bson:"raw_token"`
}

// ReviewView is the public response shape: the storage id is stringified and
// renamed to "id". Token timestamps are unix seconds.
type ReviewView struct {
	ID             string   `json:"id"`
	Establishment  string   `json:"establishment"`
	Address        string   `json:"address"`
	Rating         int      `json:"rating"`
	ImageURLs      []string `json:"image_urls"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	AuthorEmail    string   `json:"author_email"`
	AuthorName     string   `json:"author_name"`
	TokenIssuedAt  int64    `json:"token_issued_at"`
	TokenExpiresAt int64    `json:"token_expires_at"`
	RawToken       string   `json:"raw_token"`
}

// View reshapes a stored review into its public response form.
func (r *Review) View() ReviewView {
	return ReviewView{
		ID:             r.ID.Hex(),
		Establishment:  r.Establishment,
		Address:        r.Address,
		Rating:         r.Rating,
		ImageURLs:      r.ImageURLs,
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
		AuthorEmail:    r.AuthorEmail,
		AuthorName:     r.AuthorName,
		TokenIssuedAt:  r.TokenIssuedAt,
		TokenExpiresAt: r.TokenExpiresAt,
		RawToken:       r.RawToken,
	}
}
