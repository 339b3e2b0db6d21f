// Package cryptox holds the key derivation and AEAD primitives behind the
// native container format: argon2id turns a password into a 256-bit key,
// a SHA-256 verifier lets a container reject a wrong password before any
// decryption is attempted, and AES-GCM seals the payload.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/invkeeper/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	// KeySize is the AES-256 key size produced by DeriveKey.
	KeySize = 32
	// SaltSize is the salt length written into new containers.
	SaltSize = 16
	// NonceSize is the GCM nonce length.
	NonceSize = 12
)

// ErrInvalidParams is returned when argon2 parameters are zero.
var ErrInvalidParams = errors.New("invalid key derivation parameters")

// Params are the argon2id cost parameters. They are stored alongside every
// container so old files stay readable if the defaults change.
type Params struct {
	Time    uint32 `json:"time"`
	Memory  uint32 `json:"memory"`
	Threads uint8  `json:"threads"`
}

// DefaultParams is what new containers are written with.
var DefaultParams = Params{Time: 1, Memory: 64 * 1024, Threads: 4}

// Validate rejects parameter sets argon2 would panic on or that make the
// derivation meaningless.
func (p Params) Validate() error {
	if p.Time == 0 || p.Memory == 0 || p.Threads == 0 {
		return ErrInvalidParams
	}
	return nil
}

func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

// DeriveKey runs argon2id with p. Callers validate p first.
func DeriveKey(password, salt []byte, p Params) []byte {
	return argon2.IDKey(password, salt, p.Time, p.Memory, p.Threads, KeySize)
}

// Seal encrypts plaintext under key with a fresh random nonce.
func Seal(key, plaintext []byte) (ciphertext, nonce []byte, err error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce = common.GenerateRandByteArray(aesgcm.NonceSize())
	ciphertext = aesgcm.Seal(nil, nonce, plaintext, nil)

	return ciphertext, nonce, nil
}

// Open authenticates and decrypts ciphertext. Any tampering surfaces as an
// error from the GCM tag check.
func Open(key, nonce, ciphertext []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != aesgcm.NonceSize() {
		return nil, fmt.Errorf("nonce size %d", len(nonce))
	}

	return aesgcm.Open(nil, nonce, ciphertext, nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
