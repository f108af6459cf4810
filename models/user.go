package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string        `bson:"email" json:"email"`
	PasswordHash string        `bson:"passwordHash" json:"-"` // never expose
	Name         string        `bson:"name" json:"name"`
	Role         Role          `bson:"role" json:"role"`
	// RefreshTokens is the set of currently valid refresh tokens. A refresh
	// token is only honoured while its literal value is a member here, so
	// logout works by removing it. Mutated exclusively via $addToSet/$pull.
	RefreshTokens []string  `bson:"refreshTokens" json:"-"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}
