package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and verifies passwords. Implementations embed the
// salt and cost parameters in the encoded hash.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
	NeedsRehash(encodedHash string) bool
	MaxPasswordBytes() int
}

// Argon2idParams are the Argon2id cost parameters.
type Argon2idParams struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

// DefaultArgon2idParams follows the OWASP recommendation (64 MiB, t=3).
func DefaultArgon2idParams() Argon2idParams {
	return Argon2idParams{
		Time:    3,
		Memory:  64 * 1024,
		Threads: 1,
		KeyLen:  32,
		SaltLen: 16,
	}
}

// bcryptMaxPasswordBytes is bcrypt's input limit; longer inputs are rejected
// rather than silently truncated.
const bcryptMaxPasswordBytes = 72

const (
	prefixArgon2id = "$argon2id$"
	algArgon2id    = "argon2id"
	algBcrypt      = "bcrypt"
)

var errUnknownHashFormat = errors.New("unrecognised password hash format")

// Hasher creates new hashes with one algorithm and verifies hashes of any
// supported algorithm, so switching the configured algorithm never locks
// out existing accounts.
type Hasher struct {
	algorithm  string
	argon      Argon2idParams
	bcryptCost int
}

// NewArgon2idHasher returns a Hasher producing Argon2id PHC strings.
func NewArgon2idHasher(params Argon2idParams) *Hasher {
	return &Hasher{algorithm: algArgon2id, argon: params, bcryptCost: bcrypt.DefaultCost}
}

// NewBcryptHasher returns a Hasher producing bcrypt hashes at the given cost.
func NewBcryptHasher(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &Hasher{algorithm: algBcrypt, argon: DefaultArgon2idParams(), bcryptCost: cost}, nil
}

// NewHasherForAlgorithm builds a Hasher from configuration values.
func NewHasherForAlgorithm(algorithm string, bcryptCost int) (*Hasher, error) {
	switch algorithm {
	case algArgon2id, "":
		return NewArgon2idHasher(DefaultArgon2idParams()), nil
	case algBcrypt:
		return NewBcryptHasher(bcryptCost)
	default:
		return nil, fmt.Errorf("unsupported password algorithm %q", algorithm)
	}
}

// Hash hashes password with the configured algorithm.
func (h *Hasher) Hash(password string) (string, error) {
	if h.algorithm == algBcrypt {
		if len(password) > bcryptMaxPasswordBytes {
			return "", &ValidationError{Field: "password", Message: "is too long"}
		}
		b, err := bcrypt.GenerateFromPassword([]byte(password), h.bcryptCost)
		if err != nil {
			return "", fmt.Errorf("hashing password: %w", err)
		}
		return string(b), nil
	}
	return hashArgon2id(password, h.argon)
}

// Verify checks password against encodedHash. A false result with a nil
// error means the password does not match.
func (h *Hasher) Verify(password, encodedHash string) (bool, error) {
	switch {
	case strings.HasPrefix(encodedHash, prefixArgon2id):
		return verifyArgon2id(password, encodedHash)
	case isBcryptHash(encodedHash):
		err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("verifying bcrypt hash: %w", err)
		}
		return true, nil
	default:
		return false, errUnknownHashFormat
	}
}

// NeedsRehash reports whether encodedHash was made with a different
// algorithm or weaker parameters than the configured ones.
func (h *Hasher) NeedsRehash(encodedHash string) bool {
	if h.algorithm == algBcrypt {
		if !isBcryptHash(encodedHash) {
			return true
		}
		cost, err := bcrypt.Cost([]byte(encodedHash))
		return err != nil || cost < h.bcryptCost
	}

	_, hash, params, err := decodePHC(encodedHash)
	if err != nil {
		return true
	}
	return params.time < h.argon.Time ||
		params.memory < h.argon.Memory ||
		params.threads != h.argon.Threads ||
		uint32(len(hash)) < h.argon.KeyLen //nolint:gosec // G115: hash length always fits uint32
}

// MaxPasswordBytes is the longest password Hash accepts.
func (h *Hasher) MaxPasswordBytes() int {
	if h.algorithm == algBcrypt {
		return bcryptMaxPasswordBytes
	}
	return maxPasswordBytes
}

func isBcryptHash(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") ||
		strings.HasPrefix(encoded, "$2b$") ||
		strings.HasPrefix(encoded, "$2y$")
}

// hashArgon2id returns a PHC string: $argon2id$v=19$m=65536,t=3,p=1$<salt>$<hash>
func hashArgon2id(password string, p Argon2idParams) (string, error) {
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, p.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.Memory, p.Time, p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

func verifyArgon2id(password, encodedHash string) (bool, error) {
	salt, hash, params, err := decodePHC(encodedHash)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(password), salt, params.time, params.memory, params.threads, uint32(len(hash))) //nolint:gosec // G115: hash length always fits uint32

	return subtle.ConstantTimeCompare(hash, candidate) == 1, nil
}

type argonParams struct {
	time    uint32
	memory  uint32
	threads uint8
}

// decodePHC parses an Argon2id PHC string into its components.
func decodePHC(encoded string) (salt, hash []byte, params argonParams, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 { //nolint:mnd // PHC format has exactly 6 $-delimited parts
		return nil, nil, params, fmt.Errorf("invalid PHC hash format")
	}

	if parts[1] != algArgon2id {
		return nil, nil, params, fmt.Errorf("unsupported algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil { //nolint:govet // shadow
		return nil, nil, params, fmt.Errorf("parsing version: %w", err)
	}
	if version != argon2.Version {
		return nil, nil, params, fmt.Errorf("unsupported argon2 version %d", version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.memory, &params.time, &params.threads); err != nil { //nolint:govet // shadow
		return nil, nil, params, fmt.Errorf("parsing parameters: %w", err)
	}
	if params.time == 0 || params.memory == 0 || params.threads == 0 {
		return nil, nil, params, fmt.Errorf("invalid argon2 parameters")
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, params, fmt.Errorf("decoding salt: %w", err)
	}

	hash, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, params, fmt.Errorf("decoding hash: %w", err)
	}
	if len(hash) == 0 {
		return nil, nil, params, fmt.Errorf("empty hash")
	}

	return salt, hash, params, nil
}
