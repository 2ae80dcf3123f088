package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintAndParse(t *testing.T) {
	token, err := MintToken("user-1", "alice@example.com", "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseClaims(token, "secret", "")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestParseClaims_Rejects(t *testing.T) {
	valid, err := MintToken("user-1", "", "secret", time.Hour)
	require.NoError(t, err)
	expired, err := MintToken("user-1", "", "secret", -time.Minute)
	require.NoError(t, err)
	noSubject, err := MintToken("", "", "secret", time.Hour)
	require.NoError(t, err)
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "user-1"}).
		SignedString([]byte("secret"))
	require.NoError(t, err)
	wrongAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		token    string
		secret   string
		audience string
	}{
		{"wrong secret", valid, "other", ""},
		{"expired", expired, "secret", ""},
		{"no subject", noSubject, "secret", ""},
		{"no expiry", noExpiry, "secret", ""},
		{"wrong algorithm", wrongAlg, "secret", ""},
		{"missing audience", valid, "secret", "authenticated"},
		{"garbage", "not-a-token", "secret", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseClaims(tt.token, tt.secret, tt.audience)
			assert.Error(t, err)
		})
	}
}
