package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"math-solver/internal/domain"
)

func TestEncodeUser_KeepsStoredFieldsAndEmptyArrays(t *testing.T) {
	expires := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	doc, err := encodeUser(domain.User{
		ID:                       "u1",
		Email:                    "ada@example.com",
		PasswordHash:             "hash",
		EmailVerificationToken:   "tok",
		EmailVerificationExpires: &expires,
	})
	require.NoError(t, err)

	assert.True(t, strings.Contains(doc, `"passwordHash":"hash"`))
	assert.True(t, strings.Contains(doc, `"emailVerificationExpires":"2030-01-02T03:04:05Z"`))
	assert.True(t, strings.Contains(doc, `"activityLog":[]`))
	assert.True(t, strings.Contains(doc, `"library":[]`))

	decoded, err := decodeUser([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "tok", decoded.EmailVerificationToken)
	require.NotNil(t, decoded.EmailVerificationExpires)
	assert.True(t, decoded.EmailVerificationExpires.Equal(expires))
}

func TestDecodeUser_InvalidJSON(t *testing.T) {
	_, err := decodeUser([]byte("{"))
	assert.Error(t, err)
}
