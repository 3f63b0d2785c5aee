package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL is the session lifetime when none is configured.
const DefaultTokenTTL = time.Hour

// Claims is the payload of a staffgate session token.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// TokenConfig configures a TokenService.
type TokenConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration

	// Now overrides the clock. Nil means time.Now.
	Now func() time.Time
}

// TokenService signs and verifies HS256 session tokens. It holds no
// mutable state and is safe for concurrent use.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService. The secret is copied; changing
// it later invalidates every outstanding token.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token signing secret is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTokenTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &TokenService{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    cfg.TTL,
		now:    cfg.Now,
	}, nil
}

// TTL returns the default token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for the account. A ttl of zero or less uses the
// service default.
func (s *TokenService) Issue(accountID, email string, ttl time.Duration) (string, time.Time, error) {
	if accountID == "" || email == "" {
		return "", time.Time{}, errors.New("token subject and email are required")
	}
	if ttl <= 0 {
		ttl = s.ttl
	}

	// JWT NumericDate has second precision; truncate so ExpiresAt matches
	// what Verify will report.
	now := s.now().UTC().Truncate(time.Second)
	expiresAt := now.Add(ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
		Email: email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing session token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks the token's signature, algorithm, issuer and expiry.
// Every failure wraps ErrTokenInvalid plus one reason error
// (ErrTokenExpired, ErrTokenMalformed, ErrTokenSignature, ErrTokenClaims).
func (s *TokenService) Verify(tokenString string) (*Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, classifyJWTError(err))
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, ErrTokenClaims)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: %w: missing subject", ErrTokenInvalid, ErrTokenClaims)
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("%w: %w: missing email", ErrTokenInvalid, ErrTokenClaims)
	}

	return &Identity{
		AccountID: claims.Subject,
		Email:     claims.Email,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// classifyJWTError maps jwt library errors onto staffgate reason errors,
// keeping the library error in the chain for logging.
func classifyJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %w", ErrTokenSignature, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", ErrTokenMalformed, err)
	default:
		return fmt.Errorf("%w: %w", ErrTokenClaims, err)
	}
}
