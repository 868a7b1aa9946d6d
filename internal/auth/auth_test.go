package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func request(headers map[string]string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/blueprints", nil)
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	return r
}

func TestJWTResolver(t *testing.T) {
	res, err := NewJWTResolver("test-secret")
	require.NoError(t, err)

	token, err := res.Sign("user-42", time.Hour)
	require.NoError(t, err)

	id, err := res.Resolve(request(map[string]string{"Authorization": "Bearer " + token}))
	require.NoError(t, err)
	assert.Equal(t, "user-42", id)

	id, err = res.Resolve(request(map[string]string{"Authorization": "bearer " + token}))
	require.NoError(t, err)
	assert.Equal(t, "user-42", id)
}

func TestJWTResolverRejects(t *testing.T) {
	res, err := NewJWTResolver("test-secret")
	require.NoError(t, err)
	other, err := NewJWTResolver("other-secret")
	require.NoError(t, err)

	expired, err := res.Sign("user-42", -time.Minute)
	require.NoError(t, err)
	foreign, err := other.Sign("user-42", time.Hour)
	require.NoError(t, err)
	noSubject, err := res.Sign("", time.Hour)
	require.NoError(t, err)
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "user-42"}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)
	wrongAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "user-42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := map[string]string{
		"missing header": "",
		"not bearer":     "Basic dXNlcjpwYXNz",
		"garbage":        "Bearer not-a-token",
		"expired":        "Bearer " + expired,
		"wrong secret":   "Bearer " + foreign,
		"no subject":     "Bearer " + noSubject,
		"no expiry":      "Bearer " + noExpiry,
		"wrong alg":      "Bearer " + wrongAlg,
	}
	for name, header := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := res.Resolve(request(map[string]string{"Authorization": header}))
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}

func TestNewJWTResolverEmptySecret(t *testing.T) {
	_, err := NewJWTResolver("  ")
	assert.Error(t, err)
}

func TestDevHeaderResolver(t *testing.T) {
	id, err := DevHeaderResolver{}.Resolve(request(map[string]string{"X-User-Id": " dev-1 "}))
	require.NoError(t, err)
	assert.Equal(t, "dev-1", id)

	id, err = DevHeaderResolver{Header: "X-Owner"}.Resolve(request(map[string]string{"X-Owner": "dev-2"}))
	require.NoError(t, err)
	assert.Equal(t, "dev-2", id)

	_, err = DevHeaderResolver{}.Resolve(request(nil))
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestChain(t *testing.T) {
	jwtRes, err := NewJWTResolver("test-secret")
	require.NoError(t, err)
	token, err := jwtRes.Sign("user-42", time.Hour)
	require.NoError(t, err)

	chain := Chain{jwtRes, DevHeaderResolver{}}

	id, err := chain.Resolve(request(map[string]string{"Authorization": "Bearer " + token, "X-User-Id": "dev-1"}))
	require.NoError(t, err)
	assert.Equal(t, "user-42", id, "token wins over dev header")

	id, err = chain.Resolve(request(map[string]string{"X-User-Id": "dev-1"}))
	require.NoError(t, err)
	assert.Equal(t, "dev-1", id)

	_, err = chain.Resolve(request(nil))
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = Chain{}.Resolve(request(nil))
	assert.ErrorIs(t, err, ErrUnauthorized)
}
