package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"
)

// SessionDuration is the lifetime of a login session.
const SessionDuration = 7 * 24 * time.Hour

const sessionCookieName = "nexaweb_session"
const minSecretLen = 32

// ErrInvalidCookie is returned when a session cookie is malformed or its signature does not match.
var ErrInvalidCookie = errors.New("invalid session cookie")

// SessionCookieName はセッションクッキー名
func SessionCookieName() string {
	return sessionCookieName
}

// SessionSecretBytes は文字列からセッション署名用のバイト列を生成する（最低32バイト）
func SessionSecretBytes(s string) []byte {
	b := []byte(s)
	if len(b) < minSecretLen {
		out := make([]byte, minSecretLen)
		copy(out, b)
		return out
	}
	return b
}

// GenerateSessionToken returns a random opaque session token.
func GenerateSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// SignToken binds a session token to the server secret for use as a cookie value.
func SignToken(token string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(token))
	return token + "." + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignedToken checks the signature of a cookie value and returns the token.
func VerifySignedToken(value string, secret []byte) (string, error) {
	i := strings.LastIndexByte(value, '.')
	if i <= 0 || i == len(value)-1 {
		return "", ErrInvalidCookie
	}
	token, sig := value[:i], value[i+1:]

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(token))
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return "", ErrInvalidCookie
	}
	return token, nil
}

// SetSessionCookie writes the signed session cookie.
func SetSessionCookie(w http.ResponseWriter, token string, secret []byte, secure bool, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    SignToken(token, secret),
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		Expires:  time.Unix(0, 0),
	})
}

// TokenFromRequest extracts and verifies the session token carried by the request.
func TokenFromRequest(r *http.Request, secret []byte) (string, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return "", err
	}
	return VerifySignedToken(cookie.Value, secret)
}
