package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ZurcLeo/melzao-sub000/internal/domain"
)

// ErrInvalidToken covers every way a credential can fail verification.
var ErrInvalidToken = errors.New("invalid or expired token")

// Service signs and verifies host tokens. The engine trusts whatever
// Identity comes out of Identify; token issuance here is the demo path, a
// real deployment would verify tokens minted by an identity provider.
type Service struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewService(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		issuer: "melzao-engine",
		ttl:    ttl,
	}
}

// GenerateToken mints a signed token carrying the host id and role.
func (s *Service) GenerateToken(hostID, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  hostID,
		"role": role,
		"iss":  s.issuer,
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Identify verifies a credential and resolves the caller's identity.
func (s *Service) Identify(credential string) (domain.Identity, error) {
	token, err := jwt.Parse(credential, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return domain.Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Identity{}, ErrInvalidToken
	}
	hostID, _ := claims["sub"].(string)
	if hostID == "" {
		return domain.Identity{}, ErrInvalidToken
	}
	role, _ := claims["role"].(string)
	return domain.Identity{HostID: hostID, Role: role}, nil
}
