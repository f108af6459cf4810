package services

import (
	"context"
	"errors"

	"github.com/quillhq/quillbackend/apperrors"
	"github.com/quillhq/quillbackend/models"
	"github.com/quillhq/quillbackend/repositories"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type CommentService struct {
	comments repositories.CommentStore
	posts    repositories.PostStore
	log      *logrus.Logger
}

func NewCommentService(comments repositories.CommentStore, posts repositories.PostStore, log *logrus.Logger) *CommentService {
	return &CommentService{comments: comments, posts: posts, log: log}
}

func (s *CommentService) Create(ctx context.Context, postID, userID bson.ObjectID, content string) (*models.Comment, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		s.log.WithError(err).Error("failed to fetch post")
		return nil, apperrors.ErrServer
	}

	comment := &models.Comment{
		Content: content,
		User:    userID,
		Post:    postID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		s.log.WithError(err).Error("failed to create comment")
		return nil, apperrors.ErrServer
	}
	return comment, nil
}

func (s *CommentService) GetPage(ctx context.Context, postID bson.ObjectID, page, limit int) ([]models.Comment, bool, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, false, apperrors.ErrNotFound
		}
		s.log.WithError(err).Error("failed to fetch post")
		return nil, false, apperrors.ErrServer
	}

	comments, err := s.comments.FindByPostPage(ctx, postID, page, limit)
	if err != nil {
		s.log.WithError(err).Error("failed to fetch comments")
		return nil, false, apperrors.ErrServer
	}
	total, err := s.comments.CountByPost(ctx, postID)
	if err != nil {
		s.log.WithError(err).Error("failed to count comments")
		return nil, false, apperrors.ErrServer
	}
	return comments, int64(page*limit) < total, nil
}
