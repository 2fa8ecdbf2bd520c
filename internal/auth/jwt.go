package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims carries the staff identity embedded in a session token.
type Claims struct {
	StaffID string `json:"staff_id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService issues and validates staff session tokens.
type JWTService struct {
	secretKey     []byte
	sessionExpiry time.Duration
}

// NewJWTService creates a new JWT service
func NewJWTService(secretKey string, sessionExpiry time.Duration) *JWTService {
	return &JWTService{
		secretKey:     []byte(secretKey),
		sessionExpiry: sessionExpiry,
	}
}

// GenerateSessionToken creates a signed session token for a staff member
func (s *JWTService) GenerateSessionToken(staffID, email, role string) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.sessionExpiry)

	claims := Claims{
		StaffID: staffID,
		Email:   email,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   staffID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// ValidateSessionToken validates a session token and returns its claims
func (s *JWTService) ValidateSessionToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// GetSessionExpiry returns the session token expiry duration
func (s *JWTService) GetSessionExpiry() time.Duration {
	return s.sessionExpiry
}
