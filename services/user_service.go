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

type UserService struct {
	users repositories.UserStore
	posts repositories.PostStore
	saved repositories.SavedPostStore
	log   *logrus.Logger
}

func NewUserService(
	users repositories.UserStore,
	posts repositories.PostStore,
	saved repositories.SavedPostStore,
	log *logrus.Logger,
) *UserService {
	return &UserService{users: users, posts: posts, saved: saved, log: log}
}

func (s *UserService) GetProfile(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		s.log.WithError(err).Error("failed to fetch user")
		return nil, apperrors.ErrServer
	}
	return user, nil
}

func (s *UserService) GetUserPosts(ctx context.Context, id bson.ObjectID) ([]models.Post, error) {
	posts, err := s.posts.FindByAuthor(ctx, id)
	if err != nil {
		s.log.WithError(err).Error("failed to fetch user posts")
		return nil, apperrors.ErrServer
	}
	return posts, nil
}

func (s *UserService) SavePost(ctx context.Context, userID, postID bson.ObjectID) error {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		s.log.WithError(err).Error("failed to fetch post")
		return apperrors.ErrServer
	}
	if err := s.saved.Save(ctx, userID, postID); err != nil {
		s.log.WithError(err).Error("failed to save post")
		return apperrors.ErrServer
	}
	return nil
}

func (s *UserService) UnsavePost(ctx context.Context, userID, postID bson.ObjectID) error {
	if err := s.saved.Unsave(ctx, userID, postID); err != nil {
		s.log.WithError(err).Error("failed to unsave post")
		return apperrors.ErrServer
	}
	return nil
}

// GetSavedPosts resolves one page of save records to their posts, newest
// save first. Posts deleted since being saved are skipped.
func (s *UserService) GetSavedPosts(ctx context.Context, userID bson.ObjectID, page, limit int) ([]models.Post, bool, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, false, apperrors.ErrNotFound
		}
		s.log.WithError(err).Error("failed to fetch user")
		return nil, false, apperrors.ErrServer
	}

	records, err := s.saved.FindByUserPage(ctx, userID, page, limit)
	if err != nil {
		s.log.WithError(err).Error("failed to fetch saved posts")
		return nil, false, apperrors.ErrServer
	}

	ids := make([]bson.ObjectID, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.Post)
	}
	posts, err := s.posts.FindByIDs(ctx, ids)
	if err != nil {
		s.log.WithError(err).Error("failed to resolve saved posts")
		return nil, false, apperrors.ErrServer
	}

	// Keep save order.
	byID := make(map[bson.ObjectID]models.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}
	ordered := make([]models.Post, 0, len(records))
	for _, rec := range records {
		if p, ok := byID[rec.Post]; ok {
			ordered = append(ordered, p)
		}
	}

	total, err := s.saved.CountByUser(ctx, userID)
	if err != nil {
		s.log.WithError(err).Error("failed to count saved posts")
		return nil, false, apperrors.ErrServer
	}
	return ordered, int64(page*limit) < total, nil
}
