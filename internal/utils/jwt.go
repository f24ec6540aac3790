package utils

import (
	"errors" // Error construction
	"time"   // Time for token expiration

	"taskagotchi/internal/domain" // AuthClaim

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// DefaultTokenTTL is used when the configured lifetime is not positive.
const DefaultTokenTTL = 4 * time.Hour

// Claims is the signed token payload
type Claims struct {
	UserID               uint   `json:"id"`         // User ID
	Email                string `json:"email"`      // Email
	FirstName            string `json:"first_name"` // First name
	LastName             string `json:"last_name"`  // Last name
	jwt.RegisteredClaims        // exp, iat
}

// TokenService issues and verifies HS256 identity tokens with its own secret
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a token service. An empty secret is rejected.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs claim with an expiry of now + TTL
func (s *TokenService) Issue(claim domain.AuthClaim) (string, error) {
	issued := s.now()
	claims := Claims{
		UserID:    claim.UserID,
		Email:     claim.Email,
		FirstName: claim.FirstName,
		LastName:  claim.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issued.Add(s.ttl)), // Token expiry
			IssuedAt:  jwt.NewNumericDate(issued),            // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString(s.secret)                        // Sign the token with the secret
}

// Verify returns the embedded claim when the signature and expiry are valid.
// Malformed, tampered and expired tokens all yield ok == false.
func (s *TokenService) Verify(tokenStr string) (domain.AuthClaim, bool) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil // Return the secret key for validation
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid || claims.UserID == 0 {
		return domain.AuthClaim{}, false
	}
	return domain.AuthClaim{
		UserID:    claims.UserID,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		ExpiresAt: claims.ExpiresAt.Time,
	}, true
}
