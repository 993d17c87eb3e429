package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"

	"questrack/internal/auth/repository"
	pkgerrors "questrack/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated caller behind an access token.
type Identity struct {
	UserID int64
	Role   string
}

// RevocationChecker is the revocation store consulted after signature checks.
type RevocationChecker interface {
	IsTokenRevoked(ctx context.Context, tokenHash string) (bool, error)
	IsUserSuspended(ctx context.Context, userID int64) (bool, error)
}

var _ RevocationChecker = (*repository.RevocationRepository)(nil)

// AuthService validates access tokens issued by the external sign-in service.
type AuthService struct {
	jwtSecret  []byte
	jwtIssuer  string
	revocation RevocationChecker
}

func NewAuthService(jwtSecret, jwtIssuer string, revocation RevocationChecker) *AuthService {
	return &AuthService{
		jwtSecret:  []byte(jwtSecret),
		jwtIssuer:  jwtIssuer,
		revocation: revocation,
	}
}

type tokenClaims struct {
	Role      string `json:"role"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// Authenticate verifies raw and returns its identity. A revocation store
// failure is reported as ServiceUnavailable so callers can tell "not signed in"
// apart from "cannot tell yet".
func (s *AuthService) Authenticate(ctx context.Context, raw string) (Identity, error) {
	if raw == "" {
		return Identity{}, pkgerrors.New(pkgerrors.TokenInvalid)
	}
	claims, err := s.parseToken(raw)
	if err != nil {
		return Identity{}, err
	}
	userID, err := parseUserID(claims.Subject)
	if err != nil {
		return Identity{}, err
	}
	if s.revocation != nil {
		revoked, err := s.revocation.IsTokenRevoked(ctx, hashToken(raw))
		if err != nil {
			return Identity{}, pkgerrors.Wrap(err, pkgerrors.ServiceUnavailable)
		}
		if revoked {
			return Identity{}, pkgerrors.New(pkgerrors.TokenInvalid)
		}
		suspended, err := s.revocation.IsUserSuspended(ctx, userID)
		if err != nil {
			return Identity{}, pkgerrors.Wrap(err, pkgerrors.ServiceUnavailable)
		}
		if suspended {
			return Identity{}, pkgerrors.New(pkgerrors.AccountSuspended)
		}
	}
	return Identity{UserID: userID, Role: claims.Role}, nil
}

func (s *AuthService) parseToken(raw string) (*tokenClaims, error) {
	if len(s.jwtSecret) == 0 {
		return nil, pkgerrors.New(pkgerrors.TokenInvalid)
	}
	parsed, err := jwt.ParseWithClaims(raw, &tokenClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, pkgerrors.New(pkgerrors.TokenExpired)
		}
		return nil, pkgerrors.New(pkgerrors.TokenInvalid)
	}
	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, pkgerrors.New(pkgerrors.TokenInvalid)
	}
	if s.jwtIssuer != "" && claims.Issuer != s.jwtIssuer {
		return nil, pkgerrors.New(pkgerrors.TokenInvalid)
	}
	if claims.TokenType != "access" || claims.Subject == "" {
		return nil, pkgerrors.New(pkgerrors.TokenInvalid)
	}
	return claims, nil
}

func parseUserID(subject string) (int64, error) {
	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, pkgerrors.New(pkgerrors.TokenInvalid)
	}
	return userID, nil
}

// HashToken is the blacklist key of a raw token.
func HashToken(raw string) string {
	return hashToken(raw)
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
