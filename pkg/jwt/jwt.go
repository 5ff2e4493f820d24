package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Supabase access tokens are issued for this audience.
const SupabaseAudience = "authenticated"

var ErrEmptySecret = errors.New("jwt secret is empty")

// SupabaseIssuer returns the iss claim Supabase Auth puts in access tokens
// for the project at supabaseURL, or "" when the URL is unset.
func SupabaseIssuer(supabaseURL string) string {
	if supabaseURL == "" {
		return ""
	}
	return strings.TrimRight(supabaseURL, "/") + "/auth/v1"
}

// GenerateToken signs a Supabase-shaped access token. Used by local tooling
// and tests; production tokens come from Supabase Auth.
func GenerateToken(secret, issuer, userID, email string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"aud":   SupabaseAudience,
		"role":  SupabaseAudience,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	if issuer != "" {
		claims["iss"] = issuer
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken checks signature, audience and expiry. The issuer is only
// enforced when non-empty.
func ValidateToken(secret, issuer, tokenString string) (jwt.MapClaims, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	opts := []jwt.ParserOption{jwt.WithAudience(SupabaseAudience), jwt.WithExpirationRequired()}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, opts...)

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
