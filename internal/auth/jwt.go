package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is what a verified bearer credential resolves to.
type Identity struct {
	UID   string
	Email string
}

// Verifier validates a bearer credential and yields the stable user
// identity behind it. The production identity provider is external; this
// interface is the seam that keeps handlers independent of it.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// Claims defines the structure of the JWT claims issued by the session glue.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier implements Verifier for HS256 session tokens.
type JWTVerifier struct {
	secret string
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: secret}
}

// Verify parses and validates a token string and returns the identity it
// carries.
func (v *JWTVerifier) Verify(_ context.Context, tokenString string) (*Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(v.secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWT: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid JWT")
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("JWT missing user_id claim")
	}

	return &Identity{UID: claims.UserID, Email: claims.Email}, nil
}

// GenerateJWT creates a new session token for a given user.
func GenerateJWT(userID, email, secretKey string, ttl time.Duration) (string, error) {
	expirationTime := time.Now().Add(ttl)
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT: %w", err)
	}

	return tokenString, nil
}
