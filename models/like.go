package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Like is unique on {post, user}; the index is what makes toggling safe
// under concurrent requests.
type Like struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	User      bson.ObjectID `bson:"user" json:"user"`
	Post      bson.ObjectID `bson:"post" json:"post"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}
