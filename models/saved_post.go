package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// SavedPost is unique on {user, post}; saving twice is a no-op.
type SavedPost struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	User      bson.ObjectID `bson:"user" json:"user"`
	Post      bson.ObjectID `bson:"post" json:"post"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}
