package services_test

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/quillhq/quillbackend/apperrors"
	"github.com/quillhq/quillbackend/models"
	"github.com/quillhq/quillbackend/repositories"
	"github.com/quillhq/quillbackend/services"
	"github.com/quillhq/quillbackend/utils"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// fakeUserStore is an in-memory UserStore with the same set semantics as the
// Mongo implementation: refresh tokens are a set, and removing an absent
// token succeeds.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[bson.ObjectID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[bson.ObjectID]*models.User)}
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicateEmail
		}
	}
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	if user.RefreshTokens == nil {
		user.RefreshTokens = []string{}
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *fakeUserStore) FindByID(_ context.Context, id bson.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) FindByRefreshToken(_ context.Context, token string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		for _, t := range u.RefreshTokens {
			if t == token {
				cp := *u
				return &cp, nil
			}
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *fakeUserStore) AddRefreshToken(_ context.Context, userID bson.ObjectID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	for _, t := range u.RefreshTokens {
		if t == token {
			return nil
		}
	}
	u.RefreshTokens = append(u.RefreshTokens, token)
	return nil
}

func (s *fakeUserStore) RemoveRefreshToken(_ context.Context, userID bson.ObjectID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil
	}
	kept := u.RefreshTokens[:0]
	for _, t := range u.RefreshTokens {
		if t != token {
			kept = append(kept, t)
		}
	}
	u.RefreshTokens = kept
	return nil
}

func (s *fakeUserStore) UpdatePasswordHash(_ context.Context, userID bson.ObjectID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (s *fakeUserStore) setRole(userID bson.ObjectID, role models.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID].Role = role
}

func (s *fakeUserStore) plantToken(userID bson.ObjectID, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[userID]
	u.RefreshTokens = append(u.RefreshTokens, token)
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newAuthFixture(t *testing.T) (*services.AuthService, *fakeUserStore) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "test-refresh-secret")
	store := newFakeUserStore()
	return services.NewAuthService(store, testLogger()), store
}

func TestRegisterAndLogin(t *testing.T) {
	auth, _ := newAuthFixture(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "  Reader@Example.COM ", "secret123", "Reader")
	require.NoError(t, err)
	require.Equal(t, "reader@example.com", user.Email)
	require.Equal(t, models.RoleUser, user.Role)

	// Registering does not issue tokens; login does.
	loggedIn, pair, err := auth.Login(ctx, "reader@example.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, user.ID, loggedIn.ID)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := utils.VerifyToken(pair.AccessToken, utils.TokenKindAccess)
	require.NoError(t, err)
	require.Equal(t, user.ID.Hex(), claims.UserID)
	require.Equal(t, string(models.RoleUser), claims.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	auth, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "reader@example.com", "secret123", "Reader")
	require.NoError(t, err)

	_, err = auth.Register(ctx, "reader@example.com", "other456", "Imposter")
	require.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestLoginDoesNotLeakWhichFieldWasWrong(t *testing.T) {
	auth, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "reader@example.com", "secret123", "Reader")
	require.NoError(t, err)

	_, _, unknownErr := auth.Login(ctx, "nobody@example.com", "secret123")
	_, _, wrongPassErr := auth.Login(ctx, "reader@example.com", "wrong-password")

	require.ErrorIs(t, unknownErr, apperrors.ErrInvalidCredentials)
	require.ErrorIs(t, wrongPassErr, apperrors.ErrInvalidCredentials)
	require.Equal(t, unknownErr.Error(), wrongPassErr.Error())
}

func TestLoginKeepsOtherDevicesTokens(t *testing.T) {
	auth, store := newAuthFixture(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "reader@example.com", "secret123", "Reader")
	require.NoError(t, err)

	_, pair1, err := auth.Login(ctx, "reader@example.com", "secret123")
	require.NoError(t, err)
	_, pair2, err := auth.Login(ctx, "reader@example.com", "secret123")
	require.NoError(t, err)

	stored, err := store.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.Contains(t, stored.RefreshTokens, pair1.RefreshToken)
	require.Contains(t, stored.RefreshTokens, pair2.RefreshToken)
}

func TestRefreshIssuesNewAccessTokenWithoutRotating(t *testing.T) {
	auth, _ := newAuthFixture(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "reader@example.com", "secret123", "Reader")
	require.NoError(t, err)
	_, pair, err := auth.Login(ctx, "reader@example.com", "secret123")
	require.NoError(t, err)

	refreshed, err := auth.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	// The refresh token comes back unchanged; only the access token is new.
	require.Equal(t, pair.RefreshToken, refreshed.RefreshToken)

	claims, err := utils.VerifyToken(refreshed.AccessToken, utils.TokenKindAccess)
	require.NoError(t, err)
	require.Equal(t, user.ID.Hex(), claims.UserID)
}

func TestRefreshCarriesCurrentRole(t *testing.T) {
	auth, store := newAuthFixture(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "reader@example.com", "secret123", "Reader")
	require.NoError(t, err)
	_, pair, err := auth.Login(ctx, "reader@example.com", "secret123")
	require.NoError(t, err)

	// Promotion lands on the next refresh, not only the next login.
	store.setRole(user.ID, models.RoleAdmin)

	refreshed, err := auth.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	claims, err := utils.VerifyToken(refreshed.AccessToken, utils.TokenKindAccess)
	require.NoError(t, err)
	require.Equal(t, string(models.RoleAdmin), claims.Role)
}

func TestRefreshRejectsRevokedToken(t *testing.T) {
	auth, _ := newAuthFixture(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "reader@example.com", "secret123", "Reader")
	require.NoError(t, err)
	_, pair, err := auth.Login(ctx, "reader@example.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, user.ID, pair.RefreshToken))

	// Signature still verifies, but the token is no longer in the set.
	_, err = auth.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	auth, _ := newAuthFixture(t)

	_, err := auth.Refresh(context.Background(), "not-a-token")
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	auth, store := newAuthFixture(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "reader@example.com", "secret123", "Reader")
	require.NoError(t, err)

	expired, err := utils.GenerateRefreshToken(user.ID.Hex(), -time.Minute)
	require.NoError(t, err)
	store.plantToken(user.ID, expired)

	_, err = auth.Refresh(ctx, expired)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestRefreshRejectsSubjectMismatch(t *testing.T) {
	auth, store := newAuthFixture(t)
	ctx := context.Background()

	alice, err := auth.Register(ctx, "alice@example.com", "secret123", "Alice")
	require.NoError(t, err)
	_, err = auth.Register(ctx, "bob@example.com", "secret123", "Bob")
	require.NoError(t, err)

	// A token signed for Alice planted in Bob's set must not be honoured.
	bob, err := store.FindByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	planted, err := utils.GenerateRefreshToken(alice.ID.Hex(), time.Hour)
	require.NoError(t, err)
	store.plantToken(bob.ID, planted)

	_, err = auth.Refresh(ctx, planted)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestLogoutRemovesOnlyThatToken(t *testing.T) {
	auth, _ := newAuthFixture(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "reader@example.com", "secret123", "Reader")
	require.NoError(t, err)
	_, laptop, err := auth.Login(ctx, "reader@example.com", "secret123")
	require.NoError(t, err)
	_, phone, err := auth.Login(ctx, "reader@example.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, user.ID, laptop.RefreshToken))

	_, err = auth.Refresh(ctx, laptop.RefreshToken)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)

	// The phone stays logged in.
	_, err = auth.Refresh(ctx, phone.RefreshToken)
	require.NoError(t, err)
}

func TestLogoutIsIdempotent(t *testing.T) {
	auth, _ := newAuthFixture(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "reader@example.com", "secret123", "Reader")
	require.NoError(t, err)
	_, pair, err := auth.Login(ctx, "reader@example.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, user.ID, pair.RefreshToken))
	require.NoError(t, auth.Logout(ctx, user.ID, pair.RefreshToken))
	require.NoError(t, auth.Logout(ctx, user.ID, ""))
}

func TestChangePassword(t *testing.T) {
	auth, _ := newAuthFixture(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "reader@example.com", "secret123", "Reader")
	require.NoError(t, err)

	require.ErrorIs(t,
		auth.ChangePassword(ctx, user.ID, "wrong-current", "brand-new-pass"),
		apperrors.ErrInvalidCredentials)

	require.NoError(t, auth.ChangePassword(ctx, user.ID, "secret123", "brand-new-pass"))

	_, _, err = auth.Login(ctx, "reader@example.com", "secret123")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, _, err = auth.Login(ctx, "reader@example.com", "brand-new-pass")
	require.NoError(t, err)
}
