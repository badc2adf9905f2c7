package utils

import (
	"testing"
	"time"

	"github.com/Pranavpatre/Delivery-Food-Summarizer/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateJWT(t *testing.T) {
	config.Settings.SecretKey = "test-secret"
	config.Settings.TokenTTL = 7 * 24 * time.Hour

	signed, err := GenerateJWT(42, "someone@gmail.com")
	require.NoError(t, err)

	parsed, err := jwt.Parse(signed, func(token *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "42", claims["sub"])
	assert.Equal(t, "someone@gmail.com", claims["email"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), exp.Time, time.Minute)
}

func TestGenerateJWT_RejectsWrongKey(t *testing.T) {
	config.Settings.SecretKey = "test-secret"
	config.Settings.TokenTTL = time.Hour

	signed, err := GenerateJWT(1, "someone@gmail.com")
	require.NoError(t, err)

	_, err = jwt.Parse(signed, func(token *jwt.Token) (any, error) {
		return []byte("other-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	assert.Error(t, err)
}
