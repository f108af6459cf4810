package repositories

import (
	"context"
	"time"

	"github.com/quillhq/quillbackend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type CommentStore interface {
	Create(ctx context.Context, comment *models.Comment) error
	FindByPostPage(ctx context.Context, postID bson.ObjectID, page, limit int) ([]models.Comment, error)
	CountByPost(ctx context.Context, postID bson.ObjectID) (int64, error)
	DeleteByPost(ctx context.Context, postID bson.ObjectID) error
}

type MongoCommentRepository struct {
	col *mongo.Collection
}

func NewMongoCommentRepository(col *mongo.Collection) *MongoCommentRepository {
	return &MongoCommentRepository{col: col}
}

func (r *MongoCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ID.IsZero() {
		comment.ID = bson.NewObjectID()
	}
	now := time.Now().UTC()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	_, err := r.col.InsertOne(ctx, comment)
	return err
}

func (r *MongoCommentRepository) FindByPostPage(ctx context.Context, postID bson.ObjectID, page, limit int) ([]models.Comment, error) {
	skip := int64((page - 1) * limit)
	findOpts := options.Find().
		SetSkip(skip).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.col.Find(ctx, bson.M{"post": postID}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	comments := make([]models.Comment, 0)
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *MongoCommentRepository) CountByPost(ctx context.Context, postID bson.ObjectID) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"post": postID})
}

func (r *MongoCommentRepository) DeleteByPost(ctx context.Context, postID bson.ObjectID) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"post": postID})
	return err
}
