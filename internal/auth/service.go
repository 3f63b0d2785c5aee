package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// dummyPassword is hashed once at start-up. Login verifies against that
// hash when the email is unknown so both failure paths cost the same.
const dummyPassword = "staffgate-timing-equaliser"

// Service implements registration and login.
type Service struct {
	accounts  AccountRepository
	hasher    PasswordHasher
	tokens    *TokenService
	logger    *slog.Logger
	dummyHash string
}

// NewService wires the registration and login flows.
func NewService(accounts AccountRepository, hasher PasswordHasher, tokens *TokenService, logger *slog.Logger) (*Service, error) {
	if accounts == nil || hasher == nil || tokens == nil {
		return nil, errors.New("auth service requires an account repository, hasher and token service")
	}
	if logger == nil {
		logger = slog.Default()
	}

	dummyHash, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("preparing dummy hash: %w", err)
	}

	return &Service{
		accounts:  accounts,
		hasher:    hasher,
		tokens:    tokens,
		logger:    logger,
		dummyHash: dummyHash,
	}, nil
}

// Tokens returns the token service used for issuing sessions.
func (s *Service) Tokens() *TokenService {
	return s.tokens
}

// Register validates input, hashes the password and creates the account.
// Validation errors are returned before the store is touched. A concurrent
// registration of the same email loses with ErrDuplicateEmail.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Account, error) {
	if err := validateRegistration(in, s.hasher.MaxPasswordBytes()); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	account := &Account{
		Username:     strings.TrimSpace(in.Username),
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	if err := validateLogin(email, password); err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if errors.Is(err, ErrAccountNotFound) {
		_, _ = s.hasher.Verify(password, s.dummyHash) //nolint:errcheck // timing only
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("looking up account: %w", err)
	}

	ok, err := s.hasher.Verify(password, account.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verifying password for %s: %w", account.ID, err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if s.hasher.NeedsRehash(account.PasswordHash) {
		s.upgradeHash(ctx, account, password)
	}

	token, expiresAt, err := s.tokens.Issue(account.ID, account.Email, 0)
	if err != nil {
		return nil, fmt.Errorf("issuing session token: %w", err)
	}

	return &Session{
		Token:     token,
		TokenType: TokenTypeBearer,
		ExpiresAt: expiresAt,
		Account:   account,
	}, nil
}

// Authenticate verifies a session token.
func (s *Service) Authenticate(token string) (*Identity, error) {
	if token == "" {
		return nil, ErrMissingCredential
	}
	return s.tokens.Verify(token)
}

// upgradeHash re-hashes with current parameters. Failure keeps the old hash.
func (s *Service) upgradeHash(ctx context.Context, account *Account, password string) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Warn("password rehash failed", "account_id", account.ID, "error", err)
		return
	}
	if err := s.accounts.UpdatePasswordHash(ctx, account.ID, hash); err != nil {
		s.logger.Warn("storing upgraded password hash failed", "account_id", account.ID, "error", err)
		return
	}
	account.PasswordHash = hash
	account.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	s.logger.Info("password hash upgraded", "account_id", account.ID)
}
