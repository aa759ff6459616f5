// Package encryption seals short secrets with AES-256-GCM.
//
// A sealed value is "v1." followed by the unpadded base64url encoding of
// nonce||ciphertext. Each value is bound to a label through the GCM
// additional data, so a ciphertext copied into another column or profile
// fails to open.
package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// KDFIterations is the PBKDF2-SHA256 iteration count used by DeriveKey.
const KDFIterations = 600_000

// SaltSize is the length in bytes of a salt returned by NewSalt.
const SaltSize = 16

const sealPrefix = "v1."

var (
	// ErrDecrypt is returned when a sealed value fails authentication:
	// the key or passphrase is wrong, or the label does not match.
	ErrDecrypt = errors.New("decryption failed")

	// ErrFormat is returned for input that is not a sealed value.
	ErrFormat = errors.New("not a sealed value")
)

var b64 = base64.RawURLEncoding

// Key is an AES-256 key.
type Key [32]byte

// RandomKey returns a key read from crypto/rand.
func RandomKey() (Key, error) {
	var k Key
	if _, err := rand.Read(k[:]); err != nil {
		return Key{}, fmt.Errorf("generating key: %w", err)
	}
	return k, nil
}

// DeriveKey stretches passphrase into a Key with PBKDF2-SHA256.
func DeriveKey(passphrase string, salt []byte) (Key, error) {
	if passphrase == "" {
		return Key{}, errors.New("passphrase must not be empty")
	}
	if len(salt) < SaltSize {
		return Key{}, fmt.Errorf("salt must be at least %d bytes, got %d", SaltSize, len(salt))
	}
	var k Key
	copy(k[:], pbkdf2.Key([]byte(passphrase), salt, KDFIterations, len(k), sha256.New))
	return k, nil
}

// NewSalt returns SaltSize random bytes.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generating salt: %w", err)
	}
	return salt, nil
}

// Sealer seals and opens values under one key. It is safe for concurrent use.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer returns a Sealer for key.
func NewSealer(key Key) (*Sealer, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("creating AES cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// NewPassphraseSealer derives a key from passphrase and salt.
func NewPassphraseSealer(passphrase string, salt []byte) (*Sealer, error) {
	key, err := DeriveKey(passphrase, salt)
	if err != nil {
		return nil, err
	}
	return NewSealer(key)
}

// Seal encrypts plaintext under label.
func (s *Sealer) Seal(plaintext, label string) (string, error) {
	buf := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}
	buf = s.aead.Seal(buf, buf, []byte(plaintext), []byte(label))
	return sealPrefix + b64.EncodeToString(buf), nil
}

// Open decrypts a value produced by Seal with the same label.
func (s *Sealer) Open(sealed, label string) (string, error) {
	encoded, ok := strings.CutPrefix(sealed, sealPrefix)
	if !ok {
		return "", ErrFormat
	}
	raw, err := b64.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFormat, err)
	}
	n := s.aead.NonceSize()
	if len(raw) < n+s.aead.Overhead() {
		return "", fmt.Errorf("%w: too short", ErrFormat)
	}
	plaintext, err := s.aead.Open(nil, raw[:n], raw[n:], []byte(label))
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plaintext), nil
}
