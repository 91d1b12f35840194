package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims an identify token carries. The platform
// issues these tokens when a user signs in; this service only validates.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTConfig holds JWT validation settings.
type JWTConfig struct {
	Secret   []byte
	Issuer   string
	Audience string
}

// GenerateToken creates an identify token for a user. Used by tests and
// local tooling; production tokens come from the platform's auth service.
func GenerateToken(cfg *JWTConfig, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(cfg.Secret)
}

// ValidateIdentifyToken parses a token and checks that it belongs to the
// claimed user.
func ValidateIdentifyToken(cfg *JWTConfig, tokenString, userID string) error {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return cfg.Secret, nil
	})
	if err != nil {
		return fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return fmt.Errorf("invalid token claims")
	}

	if claims.UserID != userID && claims.Subject != userID {
		return fmt.Errorf("token does not belong to user")
	}

	if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
		return fmt.Errorf("invalid issuer")
	}

	if cfg.Audience != "" {
		validAudience := false
		for _, aud := range claims.Audience {
			if aud == cfg.Audience {
				validAudience = true
				break
			}
		}
		if !validAudience {
			return fmt.Errorf("invalid audience")
		}
	}

	return nil
}
