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

type LikeStore interface {
	Create(ctx context.Context, like *models.Like) error
	FindByUserAndPost(ctx context.Context, userID, postID bson.ObjectID) (*models.Like, error)
	FindByPost(ctx context.Context, postID bson.ObjectID) ([]models.Like, error)
	Delete(ctx context.Context, id bson.ObjectID) error
	DeleteByPost(ctx context.Context, postID bson.ObjectID) error
}

type MongoLikeRepository struct {
	col *mongo.Collection
}

func NewMongoLikeRepository(col *mongo.Collection) *MongoLikeRepository {
	return &MongoLikeRepository{col: col}
}

func (r *MongoLikeRepository) Create(ctx context.Context, like *models.Like) error {
	if like.ID.IsZero() {
		like.ID = bson.NewObjectID()
	}
	like.CreatedAt = time.Now().UTC()
	if _, err := r.col.InsertOne(ctx, like); err != nil {
		if utils.IsDuplicateKey(err) {
			return ErrDuplicateKey
		}
		return err
	}
	return nil
}

func (r *MongoLikeRepository) FindByUserAndPost(ctx context.Context, userID, postID bson.ObjectID) (*models.Like, error) {
	var like models.Like
	if err := r.col.FindOne(ctx, bson.M{"user": userID, "post": postID}).Decode(&like); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &like, nil
}

func (r *MongoLikeRepository) FindByPost(ctx context.Context, postID bson.ObjectID) ([]models.Like, error) {
	cursor, err := r.col.Find(ctx, bson.M{"post": postID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	likes := make([]models.Like, 0)
	if err := cursor.All(ctx, &likes); err != nil {
		return nil, err
	}
	return likes, nil
}

func (r *MongoLikeRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *MongoLikeRepository) DeleteByPost(ctx context.Context, postID bson.ObjectID) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"post": postID})
	return err
}
