package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	apperrors "expensetracker/internal/errors"
)

const (
	// TokenExpiry is the lifetime of an issued bearer token. There is no revocation,
	// so a token stays valid for this long regardless of later account changes.
	TokenExpiry = 7 * 24 * time.Hour
	// MinSecretLength is the minimum HMAC signing secret size in bytes.
	MinSecretLength = 32
)

// ErrWeakSecret is returned when the signing secret is shorter than MinSecretLength.
var ErrWeakSecret = errors.New("jwt secret must be at least 32 bytes")

// Claims represents JWT claims.
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Identity is the caller identity extracted from a validated token.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

// JWTService handles JWT token generation and validation.
type JWTService struct {
	secret []byte
	now    func() time.Time
	parser *jwt.Parser
}

// NewJWTService creates a new JWT service with the given secret.
func NewJWTService(secret string) (*JWTService, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	return &JWTService{
		secret: []byte(secret),
		now:    time.Now,
		// Expiry is checked by hand against s.now so tests can move the clock.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}, nil
}

// WithClock replaces the time source used for issuing and validating tokens.
func (s *JWTService) WithClock(now func() time.Time) *JWTService {
	s.now = now
	return s
}

// Issue signs a token for the user that expires after TokenExpiry.
// Issuer and audience are left unset: there is a single issuer.
func (s *JWTService) Issue(userID uuid.UUID, email string) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: userID.String(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate checks signature and expiry and returns the identity the token carries.
// Expiry is strict: no clock skew is tolerated.
func (s *JWTService) Validate(tokenString string) (*Identity, error) {
	claims := &Claims{}
	token, err := s.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	if !claims.VerifyExpiresAt(s.now(), true) {
		return nil, apperrors.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	return &Identity{UserID: userID, Email: claims.Email}, nil
}
