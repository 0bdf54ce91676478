package auth

import "github.com/simp-lee/soundmint/internal/domain"

// LoginRequest represents the input for user login.
type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=8"`
}

// RegisterRequest represents the input for user registration.
type RegisterRequest struct {
	Name         string `json:"name" form:"name" binding:"required,min=1,max=100"`
	Email        string `json:"email" form:"email" binding:"required,email"`
	Password     string `json:"password" form:"password" binding:"required,min=8,max=72"`
	ReferralCode string `json:"referralCode" form:"referralCode" binding:"omitempty,alphanum,max=16"`
}

// WalletLoginRequest carries a signed login message. PublicKey and Signature
// are base58 encoded.
type WalletLoginRequest struct {
	PublicKey string `json:"publicKey" binding:"required,max=64"`
	Signature string `json:"signature" binding:"required,max=128"`
	Message   string `json:"message" binding:"required,max=512"`
}

// WalletNonceResponse is the challenge a wallet must sign.
type WalletNonceResponse struct {
	Nonce     string `json:"nonce"`
	Message   string `json:"message"`
	ExpiresAt int64  `json:"expiresAt"`
}

// TokenResponse is returned by every successful login flow.
type TokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt int64        `json:"expiresAt"`
	User      *domain.User `json:"user"`
}
