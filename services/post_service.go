package services

import (
	"context"
	"errors"

	"github.com/quillhq/quillbackend/apperrors"
	"github.com/quillhq/quillbackend/models"
	"github.com/quillhq/quillbackend/repositories"
	"github.com/quillhq/quillbackend/utils"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type PostService struct {
	posts    repositories.PostStore
	comments repositories.CommentStore
	likes    repositories.LikeStore
	saved    repositories.SavedPostStore
	log      *logrus.Logger
}

func NewPostService(
	posts repositories.PostStore,
	comments repositories.CommentStore,
	likes repositories.LikeStore,
	saved repositories.SavedPostStore,
	log *logrus.Logger,
) *PostService {
	return &PostService{posts: posts, comments: comments, likes: likes, saved: saved, log: log}
}

func (s *PostService) Create(ctx context.Context, title, content string, author bson.ObjectID) (*models.Post, error) {
	post := &models.Post{
		Title:   title,
		Slug:    utils.GenerateSlug(title),
		Content: content,
		Author:  author,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		s.log.WithError(err).Error("failed to create post")
		return nil, apperrors.ErrServer
	}
	return post, nil
}

// GetPage returns one feed page plus hasMore (page*limit < total).
func (s *PostService) GetPage(ctx context.Context, page, limit int) ([]models.Post, bool, error) {
	posts, total, err := s.posts.FindPage(ctx, page, limit)
	if err != nil {
		s.log.WithError(err).Error("failed to fetch posts")
		return nil, false, apperrors.ErrServer
	}
	hasMore := len(posts) > 0 && int64(page*limit) < total
	return posts, hasMore, nil
}

func (s *PostService) Get(ctx context.Context, id bson.ObjectID) (*models.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		s.log.WithError(err).Error("failed to fetch post")
		return nil, apperrors.ErrServer
	}
	return post, nil
}

func (s *PostService) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	post, err := s.posts.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		s.log.WithError(err).Error("failed to fetch post")
		return nil, apperrors.ErrServer
	}
	return post, nil
}

// Update is author-only.
func (s *PostService) Update(ctx context.Context, id bson.ObjectID, title, content string, userID bson.ObjectID) (*models.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Author != userID {
		return nil, apperrors.ErrForbidden
	}

	updated, err := s.posts.Update(ctx, id, title, utils.GenerateSlug(title), content)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		s.log.WithError(err).Error("failed to update post")
		return nil, apperrors.ErrServer
	}
	return updated, nil
}

// Delete is allowed for the author or an admin, and cascades to the post's
// comments, likes and saves.
func (s *PostService) Delete(ctx context.Context, id bson.ObjectID, userID bson.ObjectID, role models.Role) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if post.Author != userID && role != models.RoleAdmin {
		return apperrors.ErrForbidden
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		s.log.WithError(err).Error("failed to delete post")
		return apperrors.ErrServer
	}
	if err := s.comments.DeleteByPost(ctx, id); err != nil {
		s.log.WithError(err).Error("failed to delete post comments")
		return apperrors.ErrServer
	}
	if err := s.likes.DeleteByPost(ctx, id); err != nil {
		s.log.WithError(err).Error("failed to delete post likes")
		return apperrors.ErrServer
	}
	if err := s.saved.DeleteByPost(ctx, id); err != nil {
		s.log.WithError(err).Error("failed to delete post saves")
		return apperrors.ErrServer
	}
	return nil
}

// SetCoverImage records an uploaded cover URL; author-only like Update.
func (s *PostService) SetCoverImage(ctx context.Context, id bson.ObjectID, url string, userID bson.ObjectID) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if post.Author != userID {
		return apperrors.ErrForbidden
	}
	if err := s.posts.SetCoverImage(ctx, id, url); err != nil {
		s.log.WithError(err).Error("failed to set cover image")
		return apperrors.ErrServer
	}
	return nil
}
