package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/quillhq/quillbackend/models"
	"github.com/quillhq/quillbackend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

var (
	ErrNotFound       = errors.New("document not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrDuplicateKey   = errors.New("duplicate key")
)

// UserStore is the credential store the auth service talks to. The refresh
// token mutations must be atomic set operations; a read-modify-write here
// would lose tokens under concurrent logins.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	FindByRefreshToken(ctx context.Context, token string) (*models.User, error)
	AddRefreshToken(ctx context.Context, userID bson.ObjectID, token string) error
	RemoveRefreshToken(ctx context.Context, userID bson.ObjectID, token string) error
	UpdatePasswordHash(ctx context.Context, userID bson.ObjectID, hash string) error
}

type MongoUserRepository struct {
	col *mongo.Collection
}

func NewMongoUserRepository(col *mongo.Collection) *MongoUserRepository {
	return &MongoUserRepository{col: col}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	if user.RefreshTokens == nil {
		user.RefreshTokens = []string{}
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.col.InsertOne(ctx, user); err != nil {
		if utils.IsDuplicateKey(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	var user models.User
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByRefreshToken does an exact string membership lookup inside the
// refreshTokens array.
func (r *MongoUserRepository) FindByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	if err := r.col.FindOne(ctx, bson.M{"refreshTokens": token}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *MongoUserRepository) AddRefreshToken(ctx context.Context, userID bson.ObjectID, token string) error {
	_, err := r.col.UpdateByID(ctx, userID, bson.M{
		"$addToSet": bson.M{"refreshTokens": token},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	})
	return err
}

// RemoveRefreshToken pulls the token unconditionally; removing an absent
// token is not an error, which is what makes logout idempotent.
func (r *MongoUserRepository) RemoveRefreshToken(ctx context.Context, userID bson.ObjectID, token string) error {
	_, err := r.col.UpdateByID(ctx, userID, bson.M{
		"$pull": bson.M{"refreshTokens": token},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
	return err
}

func (r *MongoUserRepository) UpdatePasswordHash(ctx context.Context, userID bson.ObjectID, hash string) error {
	res, err := r.col.UpdateByID(ctx, userID, bson.M{
		"$set": bson.M{
			"passwordHash": hash,
			"updatedAt":    time.Now().UTC(),
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
