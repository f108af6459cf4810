package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// CreatePost creates a post authored by the session user.
func (s *Session) CreatePost(ctx context.Context, title, content string) (*PostInfo, error) {
	env, err := s.do(ctx, http.MethodPost, "/posts", map[string]string{
		"title":   title,
		"content": content,
	})
	if err != nil {
		return nil, err
	}

	var post PostInfo
	if err := json.Unmarshal(env.Data, &post); err != nil {
		return nil, fmt.Errorf("failed to decode post: %w", err)
	}
	return &post, nil
}

// Posts lists posts newest first. hasMore reports whether another page
// exists beyond this one.
func (c *Client) Posts(ctx context.Context, page, limit int) ([]PostInfo, bool, error) {
	path := fmt.Sprintf("/posts?page=%d&limit=%d", page, limit)
	env, err := c.doJSON(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, false, err
	}

	var posts []PostInfo
	if err := json.Unmarshal(env.Data, &posts); err != nil {
		return nil, false, fmt.Errorf("failed to decode posts: %w", err)
	}
	return posts, env.HasMore, nil
}

// Post fetches a single post by id.
func (c *Client) Post(ctx context.Context, id string) (*PostInfo, error) {
	env, err := c.doJSON(ctx, http.MethodGet, "/posts/"+id, nil, "")
	if err != nil {
		return nil, err
	}

	var post PostInfo
	if err := json.Unmarshal(env.Data, &post); err != nil {
		return nil, fmt.Errorf("failed to decode post: %w", err)
	}
	return &post, nil
}

// ToggleLike likes the post, or removes the session user's existing like.
func (s *Session) ToggleLike(ctx context.Context, postID string) error {
	_, err := s.do(ctx, http.MethodPost, "/posts/"+postID+"/like", nil)
	return err
}

// SavePost bookmarks a post for the session user. Saving the same post
// twice is harmless.
func (s *Session) SavePost(ctx context.Context, postID string) error {
	_, err := s.do(ctx, http.MethodPost, "/users/save-post/"+postID, nil)
	return err
}

// UnsavePost removes a bookmark.
func (s *Session) UnsavePost(ctx context.Context, postID string) error {
	_, err := s.do(ctx, http.MethodPost, "/users/unsave-post/"+postID, nil)
	return err
}
