// Package auth validates the bearer tokens issued by the identity provider
// and turns their claims into an identity.Actor.
package auth

import (
	"errors"
	"time"

	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingTenantID  = errors.New("missing tenant_id in claims")
	ErrMissingUserID    = errors.New("missing user_id in claims")
	ErrInvalidUserType  = errors.New("invalid user_type in claims")
)

// Claims represents custom JWT claims
type Claims struct {
	jwt.RegisteredClaims
	TenantID    string            `json:"tenant_id,omitempty"`
	UserID      string            `json:"user_id"`
	UserType    identity.UserType `json:"user_type"`
	Permissions []string          `json:"permissions,omitempty"`
}

// JWTService signs and validates access tokens
type JWTService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:     []byte(cfg.Secret),
		expiration: cfg.AccessTokenExpiration,
		issuer:     cfg.Issuer,
	}
}

// GenerateAccessToken signs a token for actor. The server never issues
// tokens itself; this backs local tooling and tests.
func (s *JWTService) GenerateAccessToken(actor identity.Actor) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   actor.UserID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:      actor.UserID.String(),
		UserType:    actor.UserType,
		Permissions: actor.Permissions,
	}
	if actor.HasTenant() {
		claims.TenantID = actor.TenantID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateAccessToken validates a token and returns its claims
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if err := claims.validate(); err != nil {
		return nil, err
	}
	return claims, nil
}

// validate checks the CRM specific claims. Tenant users must carry a tenant;
// platform operators may omit it.
func (c *Claims) validate() error {
	if c.UserID == "" {
		return ErrMissingUserID
	}
	if _, err := uuid.Parse(c.UserID); err != nil {
		return ErrInvalidClaims
	}
	if !c.UserType.IsValid() {
		return ErrInvalidUserType
	}
	if c.TenantID == "" {
		if !c.UserType.IsPlatformOperator() {
			return ErrMissingTenantID
		}
		return nil
	}
	if _, err := uuid.Parse(c.TenantID); err != nil {
		return ErrInvalidClaims
	}
	return nil
}

// ToActor converts validated claims into the acting principal
func (c *Claims) ToActor() (identity.Actor, error) {
	userID, err := uuid.Parse(c.UserID)
	if err != nil {
		return identity.Actor{}, ErrInvalidClaims
	}

	var tenantID *uuid.UUID
	if c.TenantID != "" {
		id, err := uuid.Parse(c.TenantID)
		if err != nil {
			return identity.Actor{}, ErrInvalidClaims
		}
		tenantID = &id
	}
	return identity.NewActor(userID, tenantID, c.UserType, c.Permissions...), nil
}

// GetRemainingTTL returns the remaining time until the token expires
func (c *Claims) GetRemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return max(time.Until(c.ExpiresAt.Time), 0)
}
