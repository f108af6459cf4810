package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Restore runs at most once per Session. The state moves NotStarted ->
// InProgress -> Done and never backwards.
const (
	restoreNotStarted int32 = iota
	restoreInProgress
	restoreDone
)

var (
	// ErrNoSession means there were no stored tokens to restore. This is the
	// normal first-run condition, not a failure worth surfacing to users.
	ErrNoSession = errors.New("no session to restore")

	// ErrSessionExpired means stored tokens were found but the server no
	// longer accepts them. The store has been cleared and the user must log
	// in again.
	ErrSessionExpired = errors.New("session expired")
)

// Session is an authenticated connection to the API. It owns the current
// token pair, attaches the access token to every request, and refreshes it
// through a single flight when the server rejects it, so concurrent callers
// never race duplicate refresh requests.
type Session struct {
	client *Client
	store  TokenStore

	mu     sync.RWMutex
	user   *UserInfo
	tokens Tokens

	restoreState atomic.Int32
	refreshGroup singleflight.Group
}

func newSession(client *Client, store TokenStore) *Session {
	return &Session{client: client, store: store}
}

func (s *Session) setAuthenticated(user UserInfo, tokens Tokens) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
	s.tokens = tokens
}

func (s *Session) clearAuthenticated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.tokens = Tokens{}
}

// User returns the cached authenticated user, or nil when logged out.
func (s *Session) User() *UserInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Tokens returns a copy of the current token pair.
func (s *Session) Tokens() Tokens {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens
}

// IsAuthenticated reports whether the session currently holds a user.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Restore rebuilds the session from the token store. It runs its work at
// most once per Session; concurrent and repeated calls after the first are
// no-ops returning nil.
//
// Outcomes:
//   - stored tokens are valid: the session becomes authenticated
//   - no stored tokens: ErrNoSession, session stays logged out
//   - server rejects both tokens: ErrSessionExpired, store is cleared
//   - transport failure: the underlying error, store is kept so a later
//     process can retry
func (s *Session) Restore(ctx context.Context) error {
	if !s.restoreState.CompareAndSwap(restoreNotStarted, restoreInProgress) {
		return nil
	}
	defer s.restoreState.Store(restoreDone)

	if s.store == nil {
		return ErrNoSession
	}
	tokens, err := s.store.Load()
	if err != nil {
		if errors.Is(err, ErrNoTokens) {
			return ErrNoSession
		}
		return fmt.Errorf("failed to load tokens: %w", err)
	}

	user, err := s.fetchUser(ctx, tokens.AccessToken)
	if err == nil {
		s.setAuthenticated(*user, tokens)
		return nil
	}
	if !IsUnauthorized(err) {
		return err
	}

	// Access token rejected. Fall back to the refresh token, then try again.
	if tokens.RefreshToken == "" {
		s.expire()
		return ErrSessionExpired
	}
	fresh, err := s.client.refreshTokens(ctx, tokens.RefreshToken)
	if err != nil {
		if IsUnauthorized(err) {
			s.expire()
			return ErrSessionExpired
		}
		return err
	}

	user, err = s.fetchUser(ctx, fresh.AccessToken)
	if err != nil {
		if IsUnauthorized(err) {
			s.expire()
			return ErrSessionExpired
		}
		return err
	}

	s.setAuthenticated(*user, fresh)
	_ = s.store.Save(fresh)
	return nil
}

func (s *Session) expire() {
	s.clearAuthenticated()
	if s.store != nil {
		_ = s.store.Clear()
	}
}

func (s *Session) fetchUser(ctx context.Context, accessToken string) (*UserInfo, error) {
	env, err := s.client.doJSON(ctx, http.MethodGet, "/auth/me", nil, accessToken)
	if err != nil {
		return nil, err
	}
	var user UserInfo
	if err := json.Unmarshal(env.Data, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	return &user, nil
}

// refresh exchanges the current refresh token for a new access token.
// Concurrent callers are collapsed into a single upstream request; everyone
// waits on the same flight and shares its result.
func (s *Session) refresh(ctx context.Context) error {
	_, err, _ := s.refreshGroup.Do("refresh", func() (any, error) {
		s.mu.RLock()
		refreshToken := s.tokens.RefreshToken
		s.mu.RUnlock()

		if refreshToken == "" {
			return nil, ErrSessionExpired
		}

		fresh, err := s.client.refreshTokens(ctx, refreshToken)
		if err != nil {
			if IsUnauthorized(err) {
				s.expire()
				return nil, ErrSessionExpired
			}
			return nil, err
		}

		s.mu.Lock()
		s.tokens = fresh
		s.mu.Unlock()
		if s.store != nil {
			_ = s.store.Save(fresh)
		}
		return nil, nil
	})
	return err
}

// do performs an authenticated request. When the server answers 401 it
// refreshes once and retries; a second 401 is returned to the caller.
func (s *Session) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	s.mu.RLock()
	accessToken := s.tokens.AccessToken
	s.mu.RUnlock()

	env, err := s.client.doJSON(ctx, method, path, body, accessToken)
	if err == nil || !IsUnauthorized(err) {
		return env, err
	}

	if refreshErr := s.refresh(ctx); refreshErr != nil {
		return nil, refreshErr
	}

	s.mu.RLock()
	accessToken = s.tokens.AccessToken
	s.mu.RUnlock()
	return s.client.doJSON(ctx, method, path, body, accessToken)
}

// CurrentUser fetches the authenticated user from the server and updates the
// cached copy.
func (s *Session) CurrentUser(ctx context.Context) (*UserInfo, error) {
	env, err := s.do(ctx, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return nil, err
	}

	var user UserInfo
	if err := json.Unmarshal(env.Data, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	return &user, nil
}

// Logout revokes the current refresh token on the server and clears local
// state. Local state is cleared even when the server call fails, so the
// session always ends up logged out.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.RLock()
	refreshToken := s.tokens.RefreshToken
	s.mu.RUnlock()

	_, err := s.do(ctx, http.MethodPost, "/auth/logout", map[string]string{
		"refreshToken": refreshToken,
	})

	s.expire()
	return err
}

// ChangePassword changes the authenticated user's password.
func (s *Session) ChangePassword(ctx context.Context, current, newPassword string) error {
	_, err := s.do(ctx, http.MethodPost, "/auth/password", map[string]string{
		"currentPassword": current,
		"newPassword":     newPassword,
	})
	return err
}
