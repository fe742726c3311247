package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "estoque-motto-api"

// SessionClaims represents the claims in a session token
type SessionClaims struct {
	Mode string `json:"mode"`
	jwt.RegisteredClaims
}

// SessionID is the token subject.
func (c *SessionClaims) SessionID() string {
	return c.Subject
}

// GrantClaims carry a one-shot manager authorization. The JWT id is the
// grant id checked against the used-grant ledger. Scope, when set, pins the
// grant to the exact action the manager approved.
type GrantClaims struct {
	Purpose  string `json:"purpose"`
	Terminal string `json:"terminal"`
	Scope    string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager handles JWT token generation and validation
type JWTManager struct {
	secretKey     []byte
	sessionExpiry time.Duration
	grantExpiry   time.Duration
	now           func() time.Time
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secret string, sessionExpiry, grantExpiry time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secret),
		sessionExpiry: sessionExpiry,
		grantExpiry:   grantExpiry,
		now:           time.Now,
	}
}

// GenerateSessionToken signs a token for a session in the given mode.
func (m *JWTManager) GenerateSessionToken(sessionID, mode string) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.sessionExpiry)
	claims := &SessionClaims{
		Mode: mode,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   sessionID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secretKey)
	return signed, expiresAt, err
}

// ValidateSessionToken validates a session token and returns the claims
func (m *JWTManager) ValidateSessionToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := m.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errors.New("invalid session id in token")
	}
	return claims, nil
}

// GenerateGrant signs a grant for purpose, bound to the terminal that
// passed the challenge and to scope. It returns the token and its id.
func (m *JWTManager) GenerateGrant(purpose, terminal, scope string) (string, string, time.Time, error) {
	now := m.now()
	id := uuid.NewString()
	expiresAt := now.Add(m.grantExpiry)
	claims := &GrantClaims{
		Purpose:  purpose,
		Terminal: terminal,
		Scope:    scope,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   "grant",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secretKey)
	return signed, id, expiresAt, err
}

// ValidateGrant validates a grant token and returns the claims
func (m *JWTManager) ValidateGrant(tokenString string) (*GrantClaims, error) {
	claims := &GrantClaims{}
	if err := m.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.ID == "" || claims.Subject != "grant" {
		return nil, errors.New("invalid grant")
	}
	return claims, nil
}

func (m *JWTManager) parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secretKey, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		return err
	}
	if !token.Valid {
		return errors.New("invalid token")
	}
	return nil
}
