package mockhris

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// tokenService issues and revokes the two token kinds: short-lived access
// tokens carried in the Authorization header and long-lived refresh
// tokens carried in an HTTP-only cookie scoped to the auth routes.
type tokenService struct {
	accessTTL  time.Duration
	refreshTTL time.Duration
	tokenAuth  *jwtauth.JWTAuth
	revoked    map[string]int64
	mu         sync.RWMutex
}

func newTokenService(secret string, accessTTL, refreshTTL time.Duration) *tokenService {
	return &tokenService{
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		tokenAuth:  jwtauth.New("HS256", []byte(secret), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revoked:    make(map[string]int64),
	}
}

func (s *tokenService) jwtAuth() *jwtauth.JWTAuth {
	return s.tokenAuth
}

func (s *tokenService) generateAccessToken(userID, email, role string) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(s.accessTTL).Unix()
	_, tokenString, err := s.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"email":   email,
		"role":    role,
		"type":    "access",
		"exp":     expiresAt,
	})
	return tokenString, expiresAt, err
}

func (s *tokenService) generateRefreshToken(userID string) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(s.refreshTTL).Unix()
	_, tokenString, err := s.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"type":    "refresh",
		"exp":     expiresAt,
	})
	return tokenString, expiresAt, err
}

// refreshTokenCookie scopes the refresh token to the auth routes so it is
// never sent with ordinary API calls.
func (s *tokenService) refreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteStrictMode,
	}
}

func (s *tokenService) clearedRefreshCookie() *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    "",
		Path:     "/api/v1/auth",
		MaxAge:   -1,
		HttpOnly: true,
	}
}

// validateRefreshToken decodes a refresh token and returns the user it
// belongs to. Revoked and mistyped tokens are rejected.
func (s *tokenService) validateRefreshToken(tokenString string) (userID string, err error) {
	if s.isRevoked(tokenString) {
		return "", jwt.ErrTokenExpired()
	}

	token, err := s.tokenAuth.Decode(tokenString)
	if err != nil {
		return "", err
	}
	if err := jwt.Validate(token); err != nil {
		return "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != "refresh" {
		return "", jwt.ErrInvalidJWT()
	}
	userIDVal, ok := token.Get("user_id")
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}
	userID, ok = userIDVal.(string)
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}
	return userID, nil
}

func (s *tokenService) revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[token] = time.Now().Unix()
}

func (s *tokenService) isRevoked(token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, revoked := s.revoked[token]
	return revoked
}
