package utils

import (
	"strconv"
	"time"

	"github.com/Pranavpatre/Delivery-Food-Summarizer/config"

	"github.com/golang-jwt/jwt/v5"
)

func GenerateJWT(userID uint, email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   strconv.FormatUint(uint64(userID), 10),
		"email": email,
		"exp":   time.Now().Add(config.Settings.TokenTTL).Unix(),
	})

	return token.SignedString([]byte(config.Settings.SecretKey))
}
