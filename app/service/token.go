package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/vibast-solutions/ms-go-tasks/config"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the closed claim set carried by access and refresh tokens:
// a subject plus the registered time claims, nothing else. Access tokens
// carry the username as subject, refresh tokens the email.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies the stateless bearer tokens. Validity is
// determined entirely by signature and expiry; there is no server-side
// revocation.
type TokenCodec struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenCodec(cfg *config.Config) *TokenCodec {
	return &TokenCodec{
		secret:     []byte(cfg.JWTSecret),
		method:     jwt.GetSigningMethod(cfg.JWTAlgorithm),
		accessTTL:  cfg.JWTAccessTokenTTL,
		refreshTTL: cfg.JWTRefreshTokenTTL,
	}
}

// IssueAccessToken signs a short-lived token for subject. A non-positive ttl
// falls back to the configured access-token TTL.
func (c *TokenCodec) IssueAccessToken(subject string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = c.accessTTL
	}
	return c.sign(subject, ttl)
}

// IssueRefreshToken signs a long-lived token for subject. A non-positive ttl
// falls back to the configured refresh-token TTL.
func (c *TokenCodec) IssueRefreshToken(subject string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = c.refreshTTL
	}
	return c.sign(subject, ttl)
}

func (c *TokenCodec) sign(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
}

// Decode verifies the signature and expiry of a token. It returns
// ErrTokenExpired when only the expiry failed and ErrInvalidToken for every
// other defect (bad signature, wrong algorithm, malformed payload, missing
// subject).
func (c *TokenCodec) Decode(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
