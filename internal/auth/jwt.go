package auth

import (
	"crypto/rand"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token-use claim values. A token is only accepted for the purpose it was
// minted for.
const (
	TokenUseAccess  = "access"
	TokenUseRefresh = "refresh"
	TokenUseReset   = "reset"
)

const ephemeralSecretLength = 32

// Claims is the decoded, verified payload of a session token.
type Claims struct {
	Role     string `json:"role"`
	TokenUse string `json:"token_use"`
	jwt.RegisteredClaims
}

// Email returns the subject of the claim, which is the user's email.
func (c *Claims) Email() string {
	return c.Subject
}

// TokenPair is an access token plus the refresh token that renews it.
type TokenPair struct {
	JWT     string `json:"jwt"`
	Refresh string `json:"refresh"`
}

// TokenService issues and verifies signed, time-limited session tokens.
type TokenService struct {
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	now           func() time.Time
}

func NewTokenService(secret []byte, accessExpiry, refreshExpiry time.Duration) *TokenService {
	return &TokenService{
		secret:        secret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
		now:           time.Now,
	}
}

// GenerateEphemeralSecret returns a process-local random signing key.
// Tokens signed with it cannot be validated after a restart, so this is
// only suitable when the configuration explicitly opts into ephemeral keys.
func GenerateEphemeralSecret() ([]byte, error) {
	secret := make([]byte, ephemeralSecretLength)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate ephemeral signing key: %w", err)
	}
	return secret, nil
}

// Issue mints an access/refresh token pair for the given identity.
func (s *TokenService) Issue(email, role string) (TokenPair, error) {
	access, err := s.sign(email, role, TokenUseAccess, s.accessExpiry)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := s.sign(email, role, TokenUseRefresh, s.refreshExpiry)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{JWT: access, Refresh: refresh}, nil
}

// IssueResetToken mints a short-lived password-recovery token.
func (s *TokenService) IssueResetToken(email string, ttl time.Duration) (string, error) {
	return s.sign(email, "", TokenUseReset, ttl)
}

func (s *TokenService) sign(email, role, use string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		Role:     role,
		TokenUse: use,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Validate verifies an access token and returns its claims. Any failure
// (malformed token, bad signature, missing expiry or subject, expired,
// wrong token use) yields false; the reason is logged, never returned.
func (s *TokenService) Validate(token string) (*Claims, bool) {
	return s.ValidateUse(token, TokenUseAccess)
}

// ValidateUse verifies a token minted for the given purpose.
func (s *TokenService) ValidateUse(token, use string) (*Claims, bool) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		log.Printf("auth: token rejected: %v", err)
		return nil, false
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		log.Printf("auth: token rejected: invalid claims")
		return nil, false
	}

	if claims.Subject == "" {
		log.Printf("auth: token rejected: missing subject")
		return nil, false
	}

	if claims.TokenUse != use {
		log.Printf("auth: token rejected: token use %q where %q required", claims.TokenUse, use)
		return nil, false
	}

	return claims, true
}
