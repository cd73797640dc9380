package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParse(t *testing.T) {
	SetSecret("test-secret")

	token, err := Sign("user-1", true, time.Hour)
	require.NoError(t, err)

	claims, err := Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.True(t, claims.Admin)
}

func TestParseRejectsExpiredAndForeign(t *testing.T) {
	SetSecret("test-secret")

	expired, err := Sign("user-1", true, -time.Minute)
	require.NoError(t, err)
	_, err = Parse(expired)
	assert.Error(t, err)

	SetSecret("other-secret")
	token, err := Sign("user-2", false, time.Hour)
	require.NoError(t, err)
	SetSecret("test-secret")
	_, err = Parse(token)
	assert.Error(t, err)

	_, err = Parse("not-a-token")
	assert.Error(t, err)
}
