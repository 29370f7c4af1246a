package shared

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

const (
	// CSRFSessionKey holds the issued token in the session.
	CSRFSessionKey = "csrf_token"
	// CSRFFormField is the hidden form input carrying the token.
	CSRFFormField = "csrf_token"
	// CSRFHeader carries the token on fetch requests from app.js.
	CSRFHeader = "X-CSRF-Token"
)

const csrfNonceSize = 16

// CSRFManager issues tokens of the form base64(nonce || HMAC(sessionID, nonce)).
// A token is accepted only for the session it was issued to and only while that
// session still stores it, so signing in (which rotates the ID and drops the
// stored token) invalidates every form rendered before.
type CSRFManager struct {
	secret []byte
}

// NewCSRFManager returns a manager signing with secret.
func NewCSRFManager(secret string) *CSRFManager {
	return &CSRFManager{secret: []byte(secret)}
}

// EnsureToken returns the session's token, issuing one when absent.
func (m *CSRFManager) EnsureToken(sess *Session) string {
	if sess == nil {
		return ""
	}
	if token := sess.Get(CSRFSessionKey); token != "" {
		return token
	}
	nonce := make([]byte, csrfNonceSize)
	_, _ = rand.Read(nonce)
	token := base64.RawURLEncoding.EncodeToString(append(nonce, m.sign(sess.ID, nonce)...))
	sess.Set(CSRFSessionKey, token)
	return token
}

// VerifyToken checks a submitted token against the session.
func (m *CSRFManager) VerifyToken(sess *Session, token string) error {
	if sess == nil || token == "" {
		return ErrCSRFTokenMissing
	}
	stored := sess.Get(CSRFSessionKey)
	if stored == "" {
		return ErrCSRFTokenMissing
	}
	if !hmac.Equal([]byte(stored), []byte(token)) || !m.signedFor(sess.ID, token) {
		return ErrCSRFTokenMismatch
	}
	return nil
}

func (m *CSRFManager) signedFor(sessionID, token string) bool {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil || len(raw) != csrfNonceSize+sha256.Size {
		return false
	}
	nonce, mac := raw[:csrfNonceSize], raw[csrfNonceSize:]
	return hmac.Equal(mac, m.sign(sessionID, nonce))
}

func (m *CSRFManager) sign(sessionID string, nonce []byte) []byte {
	mac := hmac.New(sha256.New, m.secret)
	_, _ = mac.Write([]byte(sessionID))
	_, _ = mac.Write([]byte{'|'})
	_, _ = mac.Write(nonce)
	return mac.Sum(nil)
}
