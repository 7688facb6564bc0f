package identity

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims AccessTokenClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func newTestVerifier(t *testing.T) *JWTVerifier {
	t.Helper()
	t.Setenv("JWT_SECRET", testSecret)
	return NewJWTVerifier()
}

func TestVerifyAccessToken(t *testing.T) {
	verifier := newTestVerifier(t)
	token := signToken(t, testSecret, AccessTokenClaims{
		UserID: "user-1",
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	})

	userID, err := verifier.VerifyAccessToken(token)

	assert.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestVerifyAccessTokenExpired(t *testing.T) {
	verifier := newTestVerifier(t)
	token := signToken(t, testSecret, AccessTokenClaims{
		UserID: "user-1",
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(-time.Hour).Unix(),
		},
	})

	_, err := verifier.VerifyAccessToken(token)

	assert.ErrorIs(t, err, ErrExpiredAccessToken)
}

func TestVerifyAccessTokenWrongSecret(t *testing.T) {
	verifier := newTestVerifier(t)
	token := signToken(t, "another-secret", AccessTokenClaims{
		UserID: "user-1",
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	})

	_, err := verifier.VerifyAccessToken(token)

	assert.ErrorIs(t, err, ErrInvalidAccessToken)
}

func TestVerifyAccessTokenMissingUserID(t *testing.T) {
	verifier := newTestVerifier(t)
	token := signToken(t, testSecret, AccessTokenClaims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	})

	_, err := verifier.VerifyAccessToken(token)

	assert.ErrorIs(t, err, ErrInvalidAccessToken)
}

func TestVerifyAccessTokenGarbage(t *testing.T) {
	verifier := newTestVerifier(t)

	_, err := verifier.VerifyAccessToken("not.a.token")

	assert.ErrorIs(t, err, ErrInvalidAccessToken)
}
