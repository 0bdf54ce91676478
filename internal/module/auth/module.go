package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/soundmint/internal/middleware"
)

// AuthModule serves sign-in (email and password, Solana wallet signatures,
// the external OAuth provider) and sign-out.
type AuthModule struct {
	handler *AuthHandler
	guards  []gin.HandlerFunc
}

// NewModule wires the auth routes. guards run in front of the endpoints that
// check a credential (login, register, wallet auth), typically a stricter
// per-client rate limit. Panics if h is nil.
func NewModule(h *AuthHandler, guards ...gin.HandlerFunc) *AuthModule {
	if h == nil {
		panic("auth.NewModule: handler must not be nil")
	}
	return &AuthModule{handler: h, guards: guards}
}

func (m *AuthModule) RegisterRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	auth.GET("/wallet-nonce", m.handler.WalletNonce)
	auth.GET("/external-login", m.handler.ExternalLogin)
	auth.GET("/external-login/callback", m.handler.ExternalCallback)
	auth.POST("/logout", middleware.RequireUser(), m.handler.Logout)

	checked := auth.Group("", m.guards...)
	checked.POST("/login", m.handler.Login)
	checked.POST("/register", m.handler.Register)
	checked.POST("/solana-wallet-auth", m.handler.WalletLogin)
}
