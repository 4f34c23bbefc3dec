package authn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("goa-2025")
	require.NoError(t, err)
	assert.NotEqual(t, "goa-2025", hash)

	assert.NoError(t, CheckPassword(hash, "goa-2025"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong"), ErrInvalidCredentials)
}

func TestHashPassword_Weak(t *testing.T) {
	_, err := HashPassword("abc")
	assert.ErrorIs(t, err, ErrWeakPassword)
}
