package service

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/secureqr/secureqr/internal/models"
)

// Claims is the JWT claim set for issued tokens: the registered claims plus
// the subject user ID.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// TokenService issues and verifies signed, time-bounded identity tokens.
// It is stateless and safe for concurrent use.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	// now is the clock used for issue and expiry checks, replaceable in tests.
	now func() time.Time
}

// NewTokenService constructs a TokenService signing with the given secret and
// issuing tokens valid for ttl.
func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	return &TokenService{secret: secret, ttl: ttl, now: time.Now}
}

// Issue creates a signed HS256 token for the given user ID, valid from now
// until now plus the configured TTL.
func (s *TokenService) Issue(userID string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: userID,
	})
	return token.SignedString(s.secret)
}

// Verify checks the token's signature, algorithm, and expiry, and returns the
// subject user ID. Every failure mode collapses to models.ErrInvalidToken so
// callers cannot distinguish a bad signature from an expired or malformed
// token.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid || claims.UserID == "" {
		return "", models.ErrInvalidToken
	}
	return claims.UserID, nil
}

// ExtractBearer parses an Authorization header value of the form
// "Bearer <token>". The scheme keyword is matched case-insensitively; any
// other shape yields an empty string.
func ExtractBearer(header string) string {
	fields := strings.Fields(header)
	if len(fields) != 2 || !strings.EqualFold(fields[0], "bearer") {
		return ""
	}
	return fields[1]
}
