package auth

import (
	"crypto/ed25519"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/mr-tron/base58"

	"github.com/simp-lee/soundmint/internal/domain"
)

const (
	walletMessagePrefix = "Sign in to SoundMint"
	nonceLinePrefix     = "Nonce: "
	maxPendingNonces    = 10000
)

// nonceStore hands out single-use login nonces. Entries expire after ttl;
// the stored value is the deadline so expiry is exact even before the LRU
// reaps the entry.
type nonceStore struct {
	cache *expirable.LRU[string, time.Time]
	ttl   time.Duration
	now   func() time.Time
}

func newNonceStore(ttl time.Duration) *nonceStore {
	return &nonceStore{
		cache: expirable.NewLRU[string, time.Time](maxPendingNonces, nil, ttl),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Issue returns a fresh nonce and its deadline.
func (s *nonceStore) Issue() (string, time.Time) {
	nonce := strings.ReplaceAll(uuid.NewString(), "-", "")
	deadline := s.now().Add(s.ttl)
	s.cache.Add(nonce, deadline)
	return nonce, deadline
}

// Consume reports whether nonce was issued, is unexpired and unused. A nonce
// is accepted at most once.
func (s *nonceStore) Consume(nonce string) bool {
	deadline, ok := s.cache.Peek(nonce)
	if !ok || !s.cache.Remove(nonce) {
		return false
	}
	return !s.now().After(deadline)
}

// walletMessage is the text a wallet signs for nonce.
func walletMessage(nonce string) string {
	return walletMessagePrefix + "\n" + nonceLinePrefix + nonce
}

// messageNonce extracts the nonce line from a signed message.
func messageNonce(message string) (string, bool) {
	for _, line := range strings.Split(message, "\n") {
		if n, ok := strings.CutPrefix(strings.TrimSpace(line), nonceLinePrefix); ok && n != "" {
			return n, true
		}
	}
	return "", false
}

// verifyWalletSignature checks an ed25519 signature over message. Keys and
// signatures use the base58 encoding Solana wallets emit.
func verifyWalletSignature(publicKey, signature, message string) error {
	pub, err := base58.Decode(publicKey)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return domain.NewAppError(domain.CodeValidation, "invalid public key", err)
	}
	sig, err := base58.Decode(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return domain.NewAppError(domain.CodeValidation, "invalid signature encoding", err)
	}
	if !ed25519.Verify(ed25519.PublicKey(pub), []byte(message), sig) {
		return domain.NewAppError(domain.CodeUnauthorized, "signature verification failed", nil)
	}
	return nil
}
