package utils_test

import (
	"testing"

	"github.com/quillhq/quillbackend/utils"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashAndCheck(t *testing.T) {
	hash, err := utils.HashPassword("hunter22")
	require.NoError(t, err)
	require.NotEqual(t, "hunter22", hash)

	require.NoError(t, utils.CheckPassword(hash, "hunter22"))
	require.Error(t, utils.CheckPassword(hash, "hunter23"))
}

func TestPasswordHashesAreSalted(t *testing.T) {
	h1, err := utils.HashPassword("same-password")
	require.NoError(t, err)
	h2, err := utils.HashPassword("same-password")
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
}
