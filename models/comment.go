package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Comment lives in its own collection, indexed {post: 1, createdAt: -1}
// for newest-first listing per post.
type Comment struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Content   string        `bson:"content" json:"content"`
	User      bson.ObjectID `bson:"user" json:"user"`
	Post      bson.ObjectID `bson:"post" json:"post"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updatedAt"`
}
