package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kotoba-app/kotoba-engine/pkg/apperrors"
	"github.com/kotoba-app/kotoba-engine/pkg/config"
)

// HTTPClient is the minimal HTTP interface the OAuth service needs. Tests
// substitute a mock.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// OAuthService exchanges Google authorization codes for a verified email.
// It never stores provider tokens; the access token lives only for the
// duration of the userinfo lookup.
type OAuthService struct {
	cfg        *config.OAuthConfig
	httpClient HTTPClient
	logger     *zap.Logger
}

// NewOAuthService creates an OAuth service backed by the given provider
// configuration.
func NewOAuthService(cfg *config.OAuthConfig, logger *zap.Logger) *OAuthService {
	return &OAuthService{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger.Named("oauth"),
	}
}

// tokenResponse is the subset of the provider's token payload we use.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// userinfo is the subset of the provider's profile payload we use.
type userinfo struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
}

// ResolveEmail exchanges the authorization code for an access token and
// fetches the account's email address. Missing client credentials are a
// configuration error, reported before any network call.
func (s *OAuthService) ResolveEmail(ctx context.Context, code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", fmt.Errorf("%w: authorization code is required", apperrors.ErrInvalidInput)
	}
	if s.cfg.ClientID == "" || s.cfg.ClientSecret == "" {
		return "", fmt.Errorf("%w: GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set", apperrors.ErrConfig)
	}

	token, err := s.exchangeCode(ctx, code)
	if err != nil {
		return "", err
	}

	email, err := s.fetchEmail(ctx, token)
	if err != nil {
		return "", err
	}

	s.logger.Info("oauth exchange completed", zap.String("email", email))
	return email, nil
}

func (s *OAuthService) exchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{
		"code":          {code},
		"client_id":     {s.cfg.ClientID},
		"client_secret": {s.cfg.ClientSecret},
		"redirect_uri":  {s.cfg.RedirectURI},
		"grant_type":    {"authorization_code"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.TokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: token exchange failed: %v", apperrors.ErrUpstreamRejected, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: failed to read token response: %v", apperrors.ErrUpstreamRejected, err)
	}
	if resp.StatusCode != http.StatusOK {
		s.logger.Error("token exchange rejected",
			zap.Int("status", resp.StatusCode),
			zap.Int("body_len", len(body)))
		return "", fmt.Errorf("%w: token endpoint returned %d", apperrors.ErrUnauthorized, resp.StatusCode)
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("%w: token response is not valid JSON: %v", apperrors.ErrMalformedResponse, err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: token response has no access_token", apperrors.ErrMalformedResponse)
	}
	return token.AccessToken, nil
}

func (s *OAuthService) fetchEmail(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.UserinfoURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: userinfo lookup failed: %v", apperrors.ErrUpstreamRejected, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: failed to read userinfo response: %v", apperrors.ErrUpstreamRejected, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: userinfo endpoint returned %d", apperrors.ErrUnauthorized, resp.StatusCode)
	}

	var info userinfo
	if err := json.Unmarshal(body, &info); err != nil {
		return "", fmt.Errorf("%w: userinfo response is not valid JSON: %v", apperrors.ErrMalformedResponse, err)
	}
	if info.Email == "" {
		return "", fmt.Errorf("%w: userinfo response has no email", apperrors.ErrMalformedResponse)
	}
	return info.Email, nil
}
