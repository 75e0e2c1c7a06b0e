package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenTTL is how long an issued identity token stays valid.
//
// Tokens are stateless — nothing is stored server-side and there is no
// revocation, so the TTL is the only bound on a token's lifetime.
const tokenTTL = 30 * 24 * time.Hour

const issuer = "jobtrack"

// Sentinel errors returned (wrapped) by Validate. Both map to 401 at the
// HTTP boundary; they're distinct so logs and tests can tell expiry from
// tampering.
var (
	ErrTokenExpired = errors.New("auth: token expired")
	ErrTokenInvalid = errors.New("auth: invalid token")
)

// Identity is the verified content of a token: who the bearer is.
// This is what the middleware places in the request context.
type Identity struct {
	UserID string
	Name   string
}

// TokenService issues and validates HS256-signed identity tokens.
//
// The secret is symmetric: the same key signs and verifies. It's held here
// and nowhere else — it is never logged and never appears in a response.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// Secrets shorter than 16 characters are rejected; in production use at
// least 32 bytes of randomness (openssl rand -hex 32).
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the token payload: the standard registered claims plus the
// user's display name. The user ID rides in "sub", the standard claim for
// the token's principal.
type claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// Issue creates and signs a token for the given user, valid for 30 days.
func (s *TokenService) Issue(userID, name string) (string, error) {
	return s.IssueWithDuration(userID, name, tokenTTL)
}

// IssueWithDuration creates a token with a custom expiry. Tests use this to
// mint already-expired tokens (negative duration) without touching clocks.
func (s *TokenService) IssueWithDuration(userID, name string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string and returns the Identity it
// encodes.
//
// Checks performed: signature, expiry (required), issuer, and that the
// algorithm is HS256. Pinning the algorithm with jwt.WithValidMethods closes
// the classic "alg confusion" hole where a forged token declares alg=none.
//
// Expired tokens wrap ErrTokenExpired; every other failure (bad signature,
// malformed string, missing parts, wrong issuer, empty subject) wraps
// ErrTokenInvalid.
func (s *TokenService) Validate(tokenStr string) (Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return Identity{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("%w: bad claims", ErrTokenInvalid)
	}

	if c.Subject == "" {
		return Identity{}, fmt.Errorf("%w: token has no subject", ErrTokenInvalid)
	}

	return Identity{UserID: c.Subject, Name: c.Name}, nil
}
