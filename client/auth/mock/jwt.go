package mock

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessTokenType  = "access"
	refreshTokenType = "refresh"
)

// createJWT creates a signed JWT for username with the given type and ttl
func (s *Service) createJWT(username, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": username,
		"typ": tokenType,
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.Secret)
}

// parseJWT validates signature, expiry and type, returning subject and token id.
func (s *Service) parseJWT(raw, tokenType string) (subject string, id string, ok bool) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", "", false
	}
	if typ, _ := claims["typ"].(string); typ != tokenType {
		return "", "", false
	}
	subject, _ = claims["sub"].(string)
	id, _ = claims["jti"].(string)
	return subject, id, subject != ""
}

// IssueAccessToken signs an access credential; a negative ttl yields an expired one.
func (s *Service) IssueAccessToken(username string, ttl time.Duration) (string, error) {
	return s.createJWT(username, accessTokenType, ttl)
}

// IssueRefreshToken signs a refresh credential; a negative ttl yields an expired one.
func (s *Service) IssueRefreshToken(username string, ttl time.Duration) (string, error) {
	return s.createJWT(username, refreshTokenType, ttl)
}
