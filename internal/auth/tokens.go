package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Julz681/KanMind-Backend/internal/apperr"
)

// Token types carried in the "type" claim. An access token cannot be used
// to refresh and a refresh token cannot authenticate a request.
const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

type claims struct {
	UserID string `json:"user_id"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

// TokenPair is what login, signup and guest-login hand to the client.
type TokenPair struct {
	Access  string `json:"access_token"`
	Refresh string `json:"refresh_token"`
}

// TokenService issues and validates HS256-signed access/refresh tokens.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssuePair mints a short-lived access token and a longer-lived refresh
// token for the given user.
func (s *TokenService) IssuePair(userID string) (TokenPair, error) {
	access, err := s.sign(userID, TokenAccess, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.sign(userID, TokenRefresh, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// Resolve maps a bearer access token to a user id.
func (s *TokenService) Resolve(token string) (string, error) {
	return s.parse(token, TokenAccess)
}

// Refresh validates a refresh token and mints a new access token. The
// refresh token's own lifetime is never extended.
func (s *TokenService) Refresh(refreshToken string) (string, error) {
	userID, err := s.parse(refreshToken, TokenRefresh)
	if err != nil {
		return "", err
	}
	return s.sign(userID, TokenAccess, s.accessTTL)
}

func (s *TokenService) sign(userID, typ string, ttl time.Duration) (string, error) {
	now := time.Now()
	c := claims{
		UserID: userID,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

func (s *TokenService) parse(token, wantType string) (string, error) {
	var c claims
	tok, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperr.Unauthorized("token expired")
		}
		return "", apperr.Unauthorized("invalid token")
	}
	if !tok.Valid || c.UserID == "" || c.Type != wantType {
		return "", apperr.Unauthorized("invalid token")
	}
	return c.UserID, nil
}
