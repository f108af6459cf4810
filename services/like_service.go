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

type LikeService struct {
	likes repositories.LikeStore
	posts repositories.PostStore
	log   *logrus.Logger
}

func NewLikeService(likes repositories.LikeStore, posts repositories.PostStore, log *logrus.Logger) *LikeService {
	return &LikeService{likes: likes, posts: posts, log: log}
}

// Toggle likes an unliked post and unlikes a liked one. Returns the like
// when one was created, nil when one was removed.
func (s *LikeService) Toggle(ctx context.Context, postID, userID bson.ObjectID) (*models.Like, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		s.log.WithError(err).Error("failed to fetch post")
		return nil, apperrors.ErrServer
	}

	existing, err := s.likes.FindByUserAndPost(ctx, userID, postID)
	if err == nil {
		if err := s.likes.Delete(ctx, existing.ID); err != nil {
			s.log.WithError(err).Error("failed to remove like")
			return nil, apperrors.ErrServer
		}
		return nil, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		s.log.WithError(err).Error("failed to look up like")
		return nil, apperrors.ErrServer
	}

	like := &models.Like{User: userID, Post: postID}
	if err := s.likes.Create(ctx, like); err != nil {
		// A concurrent toggle beat us to it; treat as already liked.
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, nil
		}
		s.log.WithError(err).Error("failed to create like")
		return nil, apperrors.ErrServer
	}
	return like, nil
}

func (s *LikeService) GetByPost(ctx context.Context, postID bson.ObjectID) ([]models.Like, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		s.log.WithError(err).Error("failed to fetch post")
		return nil, apperrors.ErrServer
	}

	likes, err := s.likes.FindByPost(ctx, postID)
	if err != nil {
		s.log.WithError(err).Error("failed to fetch likes")
		return nil, apperrors.ErrServer
	}
	return likes, nil
}
