package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kotoba-app/kotoba-engine/pkg/apperrors"
	"github.com/kotoba-app/kotoba-engine/pkg/auth"
)

type stubResolver struct {
	email   string
	err     error
	gotCode string
}

func (s *stubResolver) ResolveEmail(ctx context.Context, code string) (string, error) {
	s.gotCode = code
	return s.email, s.err
}

func callbackFixture(resolver *stubResolver) (*http.ServeMux, *auth.TokenService) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	h := NewOAuthHandler(resolver, tokens, "http://localhost:5173", zap.NewNop())
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return mux, tokens
}

func TestOAuthCallback_Success(t *testing.T) {
	resolver := &stubResolver{email: "learner@example.com"}
	mux, tokens := callbackFixture(resolver)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?code=auth-code", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "auth-code", resolver.gotCode)

	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "localhost:5173", location.Host)
	assert.Empty(t, location.RawQuery, "success must not leak anything into the query string")

	fragment, err := url.ParseQuery(location.Fragment)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", fragment.Get("token_type"))

	claims, err := tokens.Validate(fragment.Get("access_token"))
	require.NoError(t, err)
	assert.Equal(t, "learner@example.com", claims.Email)
}

func TestOAuthCallback_MissingCode(t *testing.T) {
	mux, _ := callbackFixture(&stubResolver{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/google/callback", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.NotEmpty(t, location.Query().Get("auth_error"))
	assert.Empty(t, location.Fragment)
}

func TestOAuthCallback_ProviderError(t *testing.T) {
	resolver := &stubResolver{}
	mux, _ := callbackFixture(resolver)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?error=access_denied", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Empty(t, resolver.gotCode, "exchange must not run when the provider reports an error")

	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.NotEmpty(t, location.Query().Get("auth_error"))
}

func TestOAuthCallback_ExchangeFails(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"unauthorized", fmt.Errorf("%w: token endpoint returned 400", apperrors.ErrUnauthorized)},
		{"config", fmt.Errorf("%w: credentials unset", apperrors.ErrConfig)},
		{"upstream", errors.New("connection refused")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mux, _ := callbackFixture(&stubResolver{err: tc.err})

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?code=x", nil))

			require.Equal(t, http.StatusFound, rec.Code)
			location, err := url.Parse(rec.Header().Get("Location"))
			require.NoError(t, err)
			assert.NotEmpty(t, location.Query().Get("auth_error"))
			assert.Empty(t, location.Fragment, "failures must never carry a token")
		})
	}
}
