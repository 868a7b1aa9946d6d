// Package auth resolves the caller of an HTTP request to a user id.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthorized is returned when a request carries no usable identity.
var ErrUnauthorized = errors.New("unauthorized")

// DefaultDevHeader is the header read by DevHeaderResolver when none is
// configured.
const DefaultDevHeader = "X-User-Id"

// Resolver identifies the caller of r.
type Resolver interface {
	Resolve(r *http.Request) (string, error)
}

// Claims are the token claims the service reads. Only sub is required.
type Claims struct {
	jwt.RegisteredClaims
}

// JWTResolver accepts HS256 bearer tokens signed with a shared secret.
type JWTResolver struct {
	secret []byte
	parser *jwt.Parser
}

// NewJWTResolver returns a resolver for tokens signed with secret.
func NewJWTResolver(secret string) (*JWTResolver, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: jwt secret is empty")
	}
	return &JWTResolver{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}, nil
}

func (j *JWTResolver) Resolve(r *http.Request) (string, error) {
	raw := bearerToken(r)
	if raw == "" {
		return "", ErrUnauthorized
	}
	token, err := j.parser.ParseWithClaims(raw, &Claims{}, func(*jwt.Token) (any, error) {
		return j.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || strings.TrimSpace(claims.Subject) == "" {
		return "", fmt.Errorf("%w: token has no subject", ErrUnauthorized)
	}
	return claims.Subject, nil
}

// Sign issues a token for userID valid for ttl. The CLI and tests use it to
// mint tokens; the service itself never issues any.
func (j *JWTResolver) Sign(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
}

// DevHeaderResolver trusts a plain header. Development only.
type DevHeaderResolver struct {
	Header string
}

func (d DevHeaderResolver) Resolve(r *http.Request) (string, error) {
	header := d.Header
	if header == "" {
		header = DefaultDevHeader
	}
	if id := strings.TrimSpace(r.Header.Get(header)); id != "" {
		return id, nil
	}
	return "", ErrUnauthorized
}

// Chain tries each resolver in order and returns the first identity found.
type Chain []Resolver

func (c Chain) Resolve(r *http.Request) (string, error) {
	var last error = ErrUnauthorized
	for _, res := range c {
		id, err := res.Resolve(r)
		if err == nil {
			return id, nil
		}
		last = err
	}
	return "", last
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
