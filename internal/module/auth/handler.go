package auth

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/simp-lee/soundmint/internal/domain"
	"github.com/simp-lee/soundmint/internal/middleware"
	"github.com/simp-lee/soundmint/internal/pkg"
)

const (
	stateCookie       = "oauth_state"
	stateCookieMaxAge = 600
)

// AuthHandler handles REST API requests for authentication.
type AuthHandler struct {
	svc        Service
	successURL string
}

// NewHandler creates a new AuthHandler. When successURL is set the external
// login callback redirects there with the token in the query string instead
// of answering with JSON.
func NewHandler(svc Service, successURL string) *AuthHandler {
	return &AuthHandler{svc: svc, successURL: successURL}
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	tokenResp, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, tokenResp)
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	tokenResp, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Created(c, tokenResp)
}

// WalletNonce handles GET /api/v1/auth/wallet-nonce.
func (h *AuthHandler) WalletNonce(c *gin.Context) {
	resp, err := h.svc.WalletNonce(c.Request.Context())
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, resp)
}

// WalletLogin handles POST /api/v1/auth/solana-wallet-auth.
func (h *AuthHandler) WalletLogin(c *gin.Context) {
	var req WalletLoginRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	tokenResp, err := h.svc.WalletLogin(c.Request.Context(), req)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, tokenResp)
}

// ExternalLogin handles GET /api/v1/auth/external-login by redirecting to
// the provider with a fresh state bound to a cookie.
func (h *AuthHandler) ExternalLogin(c *gin.Context) {
	state := uuid.NewString()
	target, err := h.svc.ExternalLoginURL(state)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, stateCookieMaxAge, "/", "", c.Request.TLS != nil, true)
	c.Redirect(http.StatusTemporaryRedirect, target)
}

// ExternalCallback handles GET /api/v1/auth/external-login/callback.
func (h *AuthHandler) ExternalCallback(c *gin.Context) {
	state, err := c.Cookie(stateCookie)
	if err != nil || state == "" || state != c.Query("state") {
		pkg.Error(c, domain.NewAppError(domain.CodeUnauthorized, "invalid oauth state", nil))
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", c.Request.TLS != nil, true)

	tokenResp, err := h.svc.ExternalCallback(c.Request.Context(), c.Query("code"))
	if err != nil {
		pkg.Error(c, err)
		return
	}

	if h.successURL == "" {
		pkg.Success(c, tokenResp)
		return
	}
	target, err := url.Parse(h.successURL)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeInternal, "invalid success url", err))
		return
	}
	q := target.Query()
	q.Set("token", tokenResp.Token)
	target.RawQuery = q.Encode()
	c.Redirect(http.StatusFound, target.String())
}

// Logout handles POST /api/v1/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), middleware.BearerToken(c)); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, nil)
}
