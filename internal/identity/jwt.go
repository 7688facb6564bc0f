package identity

import (
	"errors"
	"log"
	"os"

	"github.com/golang-jwt/jwt"
)

// Access tokens are minted by the external identity provider; this package
// only verifies them with the shared HMAC secret. No token issuance happens
// here.

var (
	ErrInvalidAccessToken = errors.New("access token is invalid")
	ErrExpiredAccessToken = errors.New("access token is expired")
)

type Verifier interface {
	VerifyAccessToken(tokenString string) (string, error)
}

type AccessTokenClaims struct {
	UserID string `json:"user_id"`
	jwt.StandardClaims
}

type JWTVerifier struct {
	secret string
}

func NewJWTVerifier() *JWTVerifier {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatalf("JWT_SECRET is not set in .env file")
	}
	return &JWTVerifier{secret: jwtSecret}
}

// VerifyAccessToken returns the user ID carried by a valid token.
func (v *JWTVerifier) VerifyAccessToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessTokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidAccessToken
		}
		return []byte(v.secret), nil
	})
	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorExpired != 0 {
			return "", ErrExpiredAccessToken
		}
		return "", ErrInvalidAccessToken
	}

	claims, ok := token.Claims.(*AccessTokenClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", ErrInvalidAccessToken
	}
	return claims.UserID, nil
}
