package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/kotoba-app/kotoba-engine/pkg/apperrors"
	"github.com/kotoba-app/kotoba-engine/pkg/auth"
)

// EmailResolver exchanges an OAuth authorization code for a verified email.
type EmailResolver interface {
	ResolveEmail(ctx context.Context, code string) (string, error)
}

// OAuthHandler serves the OAuth callback. The browser arrives here after
// the provider's consent screen; on success it is redirected back to the
// frontend with a freshly minted bearer token in the URL fragment, so the
// token never appears in server logs along the way.
type OAuthHandler struct {
	resolver    EmailResolver
	tokens      *auth.TokenService
	frontendURL string
	logger      *zap.Logger
}

// NewOAuthHandler creates an OAuth callback handler.
func NewOAuthHandler(resolver EmailResolver, tokens *auth.TokenService, frontendURL string, logger *zap.Logger) *OAuthHandler {
	return &OAuthHandler{
		resolver:    resolver,
		tokens:      tokens,
		frontendURL: frontendURL,
		logger:      logger.Named("oauth_handler"),
	}
}

// RegisterRoutes registers the callback endpoint on the mux.
func (h *OAuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/auth/google/callback", h.Callback)
}

// Callback handles GET /api/auth/google/callback?code=...
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Debug("provider reported error", zap.String("error", errParam))
		h.redirectFailure(w, r, "Sign-in was cancelled or denied")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.redirectFailure(w, r, "Missing authorization code")
		return
	}

	email, err := h.resolver.ResolveEmail(r.Context(), code)
	if err != nil {
		h.logger.Error("oauth exchange failed", zap.Error(err))
		h.redirectFailure(w, r, failureMessage(err))
		return
	}

	token, err := h.tokens.Issue(email)
	if err != nil {
		h.logger.Error("token issue failed", zap.Error(err))
		h.redirectFailure(w, r, "Sign-in failed, please try again")
		return
	}

	// Fragment, not query: fragments never leave the browser, so the
	// token stays out of intermediary and server logs.
	fragment := url.Values{
		"access_token": {token},
		"token_type":   {"Bearer"},
	}
	http.Redirect(w, r, h.frontendURL+"/#"+fragment.Encode(), http.StatusFound)
}

// redirectFailure sends the browser back to the frontend with a readable
// error as a query parameter.
func (h *OAuthHandler) redirectFailure(w http.ResponseWriter, r *http.Request, message string) {
	query := url.Values{"auth_error": {message}}
	http.Redirect(w, r, h.frontendURL+"/?"+query.Encode(), http.StatusFound)
}

// failureMessage keeps provider internals out of the user-facing redirect.
func failureMessage(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrConfig):
		return "Sign-in is not configured on this server"
	case errors.Is(err, apperrors.ErrUnauthorized):
		return "Sign-in was rejected, please try again"
	default:
		return "Sign-in failed, please try again"
	}
}
