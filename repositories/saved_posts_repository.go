package repositories

import (
	"context"
	"time"

	"github.com/quillhq/quillbackend/models"
	"github.com/quillhq/quillbackend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type SavedPostStore interface {
	Save(ctx context.Context, userID, postID bson.ObjectID) error
	Unsave(ctx context.Context, userID, postID bson.ObjectID) error
	FindByUserPage(ctx context.Context, userID bson.ObjectID, page, limit int) ([]models.SavedPost, error)
	CountByUser(ctx context.Context, userID bson.ObjectID) (int64, error)
	DeleteByPost(ctx context.Context, postID bson.ObjectID) error
}

type MongoSavedPostRepository struct {
	col *mongo.Collection
}

func NewMongoSavedPostRepository(col *mongo.Collection) *MongoSavedPostRepository {
	return &MongoSavedPostRepository{col: col}
}

// Save relies on the unique {user, post} index: inserting an existing pair
// trips a duplicate key, which we swallow so saving twice is a no-op.
func (r *MongoSavedPostRepository) Save(ctx context.Context, userID, postID bson.ObjectID) error {
	saved := models.SavedPost{
		ID:        bson.NewObjectID(),
		User:      userID,
		Post:      postID,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := r.col.InsertOne(ctx, saved); err != nil {
		if utils.IsDuplicateKey(err) {
			return nil
		}
		return err
	}
	return nil
}

func (r *MongoSavedPostRepository) Unsave(ctx context.Context, userID, postID bson.ObjectID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"user": userID, "post": postID})
	return err
}

func (r *MongoSavedPostRepository) FindByUserPage(ctx context.Context, userID bson.ObjectID, page, limit int) ([]models.SavedPost, error) {
	skip := int64((page - 1) * limit)
	findOpts := options.Find().
		SetSkip(skip).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.col.Find(ctx, bson.M{"user": userID}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	saved := make([]models.SavedPost, 0)
	if err := cursor.All(ctx, &saved); err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *MongoSavedPostRepository) CountByUser(ctx context.Context, userID bson.ObjectID) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"user": userID})
}

func (r *MongoSavedPostRepository) DeleteByPost(ctx context.Context, postID bson.ObjectID) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"post": postID})
	return err
}
