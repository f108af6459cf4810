package utils_test

import (
	"testing"

	"github.com/quillhq/quillbackend/utils"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlug(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple title", "Hello World", "hello-world"},
		{"accents folded", "Créme Brûlée Recipes", "creme-brulee-recipes"},
		{"punctuation collapsed", "Go, Mongo & JWTs!", "go-mongo-jwts"},
		{"leading and trailing noise", "  --Hello--  ", "hello"},
		{"numbers kept", "Top 10 Posts of 2026", "top-10-posts-of-2026"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, utils.GenerateSlug(tc.in))
		})
	}
}

func TestParsePagination(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		page, limit := utils.ParsePagination("", "")
		require.Equal(t, 1, page)
		require.Equal(t, 10, limit)
	})

	t.Run("explicit values", func(t *testing.T) {
		page, limit := utils.ParsePagination("3", "25")
		require.Equal(t, 3, page)
		require.Equal(t, 25, limit)
	})

	t.Run("clamped", func(t *testing.T) {
		page, limit := utils.ParsePagination("-1", "5000")
		require.Equal(t, 1, page)
		require.Equal(t, 100, limit)
	})

	t.Run("garbage falls back", func(t *testing.T) {
		page, limit := utils.ParsePagination("abc", "xyz")
		require.Equal(t, 1, page)
		require.Equal(t, 10, limit)
	})
}
