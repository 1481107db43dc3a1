package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a user-authored entry ("tweet"). AuthorUsername and AuthorEmail
// are denormalized copies taken at creation time and are not re-synced if
// the owner ever renames; live-rename is a separate migration concern.
type Post struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID        string             `bson:"owner_id" json:"owner_id"`
	Text           string             `bson:"text" json:"text"`
	AuthorUsername string             `bson:"username" json:"username"`
	AuthorEmail    string             `bson:"email" json:"email"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	ImagePath      string             `bson:"image_path,omitempty" json:"image_path,omitempty"`
}
