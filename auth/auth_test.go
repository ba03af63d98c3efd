package auth

import (
	"testing"
	"time"

	"agrimarket/globals"
	"agrimarket/middleware"
	"agrimarket/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignTokenRoundTrip(t *testing.T) {
	user := &models.User{
		UserID:   "u1",
		Username: "greenacres",
		Role:     []string{"supplier"},
	}

	signed, err := signToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims := &middleware.Claims{}
	token, err := jwt.ParseWithClaims(signed, claims, func(token *jwt.Token) (any, error) {
		return globals.JwtSecret, nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "greenacres", claims.Username)
	assert.Equal(t, []string{"supplier"}, claims.Role)
	assert.Equal(t, "u1", claims.Subject)

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(tokenTTL), exp.Time, time.Minute)
}
