package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cr3t-passw0rd")
	assert.NoError(t, err)
	assert.NotEqual(t, "s3cr3t-passw0rd", hash)

	assert.True(t, VerifyPassword("s3cr3t-passw0rd", hash))
	assert.False(t, VerifyPassword("wrong-password", hash))
	assert.False(t, VerifyPassword("s3cr3t-passw0rd", "not-a-bcrypt-hash"))
}

func TestHashIsSalted(t *testing.T) {
	h1, err := HashPassword("same-password")
	assert.NoError(t, err)
	h2, err := HashPassword("same-password")
	assert.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, VerifyPassword("same-password", h1))
	assert.True(t, VerifyPassword("same-password", h2))
}
