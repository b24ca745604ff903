package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/restops/backend/internal/domain/identity"
	"github.com/restops/backend/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingRole      = errors.New("missing role in claims")
	ErrTokenBlacklisted = errors.New("token has been revoked")
)

// Claims carries the identity context the back office needs on every
// request: who is acting, their role, and which locations they are assigned
// to. Location assignment travels in the token so the access guard never has
// to call back to the identity provider.
type Claims struct {
	jwt.RegisteredClaims
	Role        string   `json:"role"`
	LocationIDs []string `json:"locations,omitempty"`
}

// JWTService issues and validates access tokens
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

// IssuedToken is a signed token plus its expiry
type IssuedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	TokenType string    `json:"token_type"` // Bearer
}

// GenerateToken signs an access token for the given principal
func (s *JWTService) GenerateToken(principal identity.Principal) (*IssuedToken, error) {
	if principal.IsZero() {
		return nil, ErrInvalidClaims
	}
	if !principal.Role.IsValid() {
		return nil, ErrMissingRole
	}

	now := time.Now()
	locationIDs := make([]string, len(principal.LocationIDs))
	for i, id := range principal.LocationIDs {
		locationIDs[i] = id.String()
	}

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   principal.ID.String(),
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Role:        principal.Role.String(),
		LocationIDs: locationIDs,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &IssuedToken{
		Token:     signed,
		ExpiresAt: now.Add(s.expiration),
		TokenType: "Bearer",
	}, nil
}

// ValidateToken validates an access token and returns its claims
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})

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

	if claims.Subject == "" {
		return nil, ErrInvalidClaims
	}
	if !identity.Role(claims.Role).IsValid() {
		return nil, ErrMissingRole
	}

	return claims, nil
}

// ToPrincipal converts validated claims into the domain principal.
// Unparseable location IDs invalidate the whole token rather than silently
// shrinking the assignment set.
func (c *Claims) ToPrincipal() (identity.Principal, error) {
	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return identity.Principal{}, ErrInvalidClaims
	}

	locationIDs := make([]uuid.UUID, 0, len(c.LocationIDs))
	for _, raw := range c.LocationIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return identity.Principal{}, ErrInvalidClaims
		}
		locationIDs = append(locationIDs, id)
	}

	return identity.NewPrincipal(userID, identity.Role(c.Role), locationIDs), nil
}

// GetRemainingTTL returns the remaining time until the token expires
func (c *Claims) GetRemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	remaining := time.Until(c.ExpiresAt.Time)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// GetAccessTokenExpiration returns the access token expiration duration
func (s *JWTService) GetAccessTokenExpiration() time.Duration {
	return s.expiration
}
