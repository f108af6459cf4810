package services

import (
	"context"
	"errors"
	"strings"

	"github.com/quillhq/quillbackend/apperrors"
	"github.com/quillhq/quillbackend/models"
	"github.com/quillhq/quillbackend/repositories"
	"github.com/quillhq/quillbackend/utils"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthService owns the session lifecycle. It is the only component that
// mints or revokes tokens; each call is stateless given the store contents.
type AuthService struct {
	users repositories.UserStore
	log   *logrus.Logger
}

func NewAuthService(users repositories.UserStore, log *logrus.Logger) *AuthService {
	return &AuthService{users: users, log: log}
}

// Register creates the user but does not log them in.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := utils.HashPassword(password)
	if err != nil {
		s.log.WithError(err).Error("failed to hash password")
		return nil, apperrors.ErrServer
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(name),
		Role:         models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, apperrors.ErrAlreadyExists
		}
		s.log.WithError(err).Error("failed to create user")
		return nil, apperrors.ErrServer
	}

	s.log.WithFields(logrus.Fields{"userId": user.ID.Hex(), "email": email}).Info("user registered")
	return user, nil
}

// Login returns the same error for an unknown email and a wrong password so
// the endpoint cannot be used to enumerate accounts. The refresh token is
// appended to the user's valid set without evicting older ones; each device
// keeps its own.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, apperrors.ErrInvalidCredentials
		}
		s.log.WithError(err).Error("failed to look up user")
		return nil, nil, apperrors.ErrServer
	}

	if err := utils.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	accessToken, err := utils.GenerateAccessToken(user.ID.Hex(), string(user.Role), utils.AccessTTL())
	if err != nil {
		s.log.WithError(err).Error("failed to sign access token")
		return nil, nil, apperrors.ErrServer
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID.Hex(), utils.RefreshTTL())
	if err != nil {
		s.log.WithError(err).Error("failed to sign refresh token")
		return nil, nil, apperrors.ErrServer
	}

	if err := s.users.AddRefreshToken(ctx, user.ID, refreshToken); err != nil {
		s.log.WithError(err).Error("failed to store refresh token")
		return nil, nil, apperrors.ErrServer
	}

	s.log.WithField("userId", user.ID.Hex()).Info("login successful")
	return user, &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh accepts a refresh token only when its signature verifies, it has
// not expired, AND its literal value is still a member of the owning user's
// valid set. The signed subject must match the user located by membership;
// a mismatch means the token was planted in another account's set. On
// success a new access token carrying the user's current role is issued and
// the refresh token is echoed unchanged (no rotation).
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := utils.VerifyToken(refreshToken, utils.TokenKindRefresh)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	user, err := s.users.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Valid signature but revoked (or never issued by us).
			return nil, apperrors.ErrUnauthorized
		}
		s.log.WithError(err).Error("failed to look up refresh token")
		return nil, apperrors.ErrServer
	}

	if claims.UserID != user.ID.Hex() {
		s.log.WithFields(logrus.Fields{
			"signedUserId": claims.UserID,
			"ownerUserId":  user.ID.Hex(),
		}).Warn("refresh token subject mismatch")
		return nil, apperrors.ErrUnauthorized
	}

	accessToken, err := utils.GenerateAccessToken(user.ID.Hex(), string(user.Role), utils.AccessTTL())
	if err != nil {
		s.log.WithError(err).Error("failed to sign access token")
		return nil, apperrors.ErrServer
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Logout removes one refresh token from the user's set. Removing a token
// that is already gone still succeeds; other devices' tokens are untouched.
func (s *AuthService) Logout(ctx context.Context, userID bson.ObjectID, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.users.RemoveRefreshToken(ctx, userID, refreshToken); err != nil {
		s.log.WithError(err).Error("failed to remove refresh token")
		return apperrors.ErrServer
	}
	s.log.WithField("userId", userID.Hex()).Info("logout")
	return nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID bson.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		s.log.WithError(err).Error("failed to load user")
		return nil, apperrors.ErrServer
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID bson.ObjectID, currentPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		s.log.WithError(err).Error("failed to load user")
		return apperrors.ErrServer
	}

	if err := utils.CheckPassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.ErrInvalidCredentials
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		s.log.WithError(err).Error("failed to hash password")
		return apperrors.ErrServer
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		s.log.WithError(err).Error("failed to update password")
		return apperrors.ErrServer
	}
	return nil
}
