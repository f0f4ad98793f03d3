package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword(t *testing.T) {
	hash, err := HashPassword("ChangeMe123!")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "ChangeMe123!"))
	assert.False(t, CheckPassword(hash, "changeme"))
	assert.False(t, CheckPassword("", ""))

	_, err = HashPassword("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestIssueAndValidate(t *testing.T) {
	ti, err := NewTokenIssuer(GenerateSecureSecret(), time.Minute)
	require.NoError(t, err)

	token, err := ti.Issue("admin", true)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(token, "."))

	claims, err := ti.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Operator)
	assert.True(t, claims.IsAdmin)
}

func TestValidateInvalidTokens(t *testing.T) {
	ti, err := NewTokenIssuer("", time.Minute)
	require.NoError(t, err)
	other, err := NewTokenIssuer("", time.Minute)
	require.NoError(t, err)
	foreign, err := other.Issue("admin", true)
	require.NoError(t, err)

	for _, token := range []string{
		"",
		"not.a.jwt",
		"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid.signature",
		foreign,
	} {
		_, err := ti.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken, token)
	}
}

func TestExpiredToken(t *testing.T) {
	ti, err := NewTokenIssuer("", time.Minute)
	require.NoError(t, err)
	start := time.Now()
	ti.now = func() time.Time { return start }

	token, err := ti.Issue("admin", true)
	require.NoError(t, err)

	ti.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = ti.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenIssuerRejectsShortSecret(t *testing.T) {
	_, err := NewTokenIssuer("c2hvcnQ=", time.Minute)
	assert.Error(t, err)

	_, err = NewTokenIssuer("%%%", time.Minute)
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	ti, err := NewTokenIssuer("", time.Minute)
	require.NoError(t, err)
	hash, err := HashPassword("secret-42")
	require.NoError(t, err)

	_, err = ti.Login(hash, "admin", "wrong")
	assert.ErrorIs(t, err, ErrWrongCredentials)

	token, err := ti.Login(hash, "admin", "secret-42")
	require.NoError(t, err)
	claims, err := ti.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Operator)
}
