package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic(t *testing.T) {
	id, ok := Static{UserID: "u1"}.CurrentUser()
	assert.True(t, ok)
	assert.Equal(t, "u1", id)

	_, ok = Anonymous.CurrentUser()
	assert.False(t, ok)
}

func TestVerifier_SignAndVerify(t *testing.T) {
	v, err := NewVerifier("s3cret")
	require.NoError(t, err)

	tok, err := v.Sign("u1", time.Hour)
	require.NoError(t, err)

	claims, err := v.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
}

func TestVerifier_Rejects(t *testing.T) {
	v, err := NewVerifier("s3cret")
	require.NoError(t, err)
	other, err := NewVerifier("other")
	require.NoError(t, err)

	wrongKey, err := other.Sign("u1", time.Hour)
	require.NoError(t, err)
	expired, err := v.Sign("u1", -time.Minute)
	require.NoError(t, err)
	noSubject, err := v.Sign("", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"wrong key", wrongKey},
		{"expired", expired},
		{"no subject", noSubject},
		{"garbage", "not.a.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			assert.True(t, errors.Is(err, ErrInvalidToken), "got %v", err)
		})
	}
}

func TestVerifier_RejectsOtherAlgorithms(t *testing.T) {
	v, err := NewVerifier("s3cret")
	require.NoError(t, err)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"},
	})
	signed, err := tok.SignedString([]byte("s3cret"))
	require.NoError(t, err)

	_, err = v.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewVerifier_RequiresSecret(t *testing.T) {
	_, err := NewVerifier("")
	assert.Error(t, err)
}

func TestTokenProvider(t *testing.T) {
	v, err := NewVerifier("s3cret")
	require.NoError(t, err)
	tok, err := v.Sign("u42", time.Hour)
	require.NoError(t, err)

	verified, err := NewTokenProvider(tok, v)
	require.NoError(t, err)
	id, ok := verified.CurrentUser()
	assert.True(t, ok)
	assert.Equal(t, "u42", id)

	// Without a verifier the subject is still readable.
	unverified, err := NewTokenProvider(tok, nil)
	require.NoError(t, err)
	id, ok = unverified.CurrentUser()
	assert.True(t, ok)
	assert.Equal(t, "u42", id)
}

func TestTokenProvider_RejectsExpiredAndEmpty(t *testing.T) {
	v, err := NewVerifier("s3cret")
	require.NoError(t, err)
	expired, err := v.Sign("u1", -time.Minute)
	require.NoError(t, err)

	_, err = NewTokenProvider(expired, nil)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokenProvider("", nil)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
