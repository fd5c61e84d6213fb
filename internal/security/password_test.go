package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashAndCheck(t *testing.T) {
	hash, err := HashPassword("ChangeMe123!")
	require.NoError(t, err)
	assert.NotEqual(t, "ChangeMe123!", hash)

	assert.True(t, CheckPassword(hash, "ChangeMe123!"))
	assert.False(t, CheckPassword(hash, "changeme123!"))
	assert.False(t, CheckPassword("", "ChangeMe123!"))
}
