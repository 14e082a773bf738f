package credential

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType is the discriminator embedded in every impersonation credential.
// A token signed with the same key but carrying a different type value must
// never validate as an impersonation credential.
const TokenType = "impersonation"

// MinKeyLength is the minimum accepted signing key length in bytes.
const MinKeyLength = 32

// DefaultTTL is the credential lifetime used when none is configured.
const DefaultTTL = 30 * time.Minute

// ErrInvalidCredential is returned for every validation failure: bad
// signature, expired token, wrong token type, or malformed payload. The
// holder of a token must not be able to tell which check failed.
var ErrInvalidCredential = errors.New("invalid impersonation credential")

// Claims is the signed payload of an impersonation credential.
type Claims struct {
	TokenType      string `json:"token_type"`
	ImpersonatorID string `json:"impersonator_id"`
	TargetID       string `json:"target_id"`
	jwt.RegisteredClaims
}

// Scope is the validated content of an impersonation credential.
type Scope struct {
	ImpersonatorID uuid.UUID
	TargetID       uuid.UUID
	ExpiresAt      time.Time
}

// Issuer signs and validates impersonation credentials.
type Issuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

// NewIssuer creates a new credential issuer. The signing key must be at
// least MinKeyLength bytes; a non-positive ttl falls back to DefaultTTL.
func NewIssuer(secret, issuer, audience string, ttl time.Duration) (*Issuer, error) {
	if len(secret) < MinKeyLength {
		return nil, fmt.Errorf("signing key must be at least %d characters", MinKeyLength)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
	}, nil
}

// TTL returns the configured credential lifetime.
func (g *Issuer) TTL() time.Duration {
	return g.ttl
}

// Issue creates a signed credential authorizing impersonatorID to act as
// targetID until the returned expiry.
func (g *Issuer) Issue(impersonatorID, targetID uuid.UUID) (string, time.Time, error) {
	now := time.Now().UTC()
	claims := Claims{
		TokenType:      TokenType,
		ImpersonatorID: impersonatorID.String(),
		TargetID:       targetID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-1 * time.Minute)),
			Issuer:    g.issuer,
			Subject:   targetID.String(),
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{g.audience},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(g.secret)
	if err != nil {
		slog.Error("Failed to sign impersonation credential", "err", err)
		return "", time.Time{}, err
	}
	return ss, claims.ExpiresAt.Time, nil
}

// Validate verifies the signature, expiry and token type of a credential and
// returns the scope it grants. Every failure collapses to
// ErrInvalidCredential; the reason is only logged.
func (g *Issuer) Validate(tokenStr string) (Scope, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
		return g.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired())
	if err != nil || token == nil || !token.Valid || claims.ExpiresAt == nil {
		slog.Info("Rejected impersonation credential", "reason", err)
		return Scope{}, ErrInvalidCredential
	}

	if claims.TokenType != TokenType {
		slog.Info("Rejected impersonation credential", "reason", "wrong token type")
		return Scope{}, ErrInvalidCredential
	}

	impersonatorID, err := uuid.Parse(claims.ImpersonatorID)
	if err != nil {
		slog.Info("Rejected impersonation credential", "reason", "malformed impersonator id")
		return Scope{}, ErrInvalidCredential
	}
	targetID, err := uuid.Parse(claims.TargetID)
	if err != nil {
		slog.Info("Rejected impersonation credential", "reason", "malformed target id")
		return Scope{}, ErrInvalidCredential
	}

	return Scope{
		ImpersonatorID: impersonatorID,
		TargetID:       targetID,
		ExpiresAt:      claims.ExpiresAt.Time,
	}, nil
}
