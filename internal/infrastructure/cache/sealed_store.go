package cache

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/retailops/backend/internal/domain/credential"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// sealedPrefix marks values written by SealedStore
const sealedPrefix = "sealed:v1:"

// hkdfInfo binds derived keys to this use
const hkdfInfo = "retailops credential store v1"

// ErrUnsealFailed is returned when a sealed value cannot be decrypted, for
// example after the encryption key changed
var ErrUnsealFailed = errors.New("cache: failed to unseal credential")

// SealedStore encrypts values with XChaCha20-Poly1305 before they reach the
// wrapped store. The secret key is the associated data, so a value copied to
// another key does not open. Values without the sealed prefix are returned
// as stored, which lets existing plaintext rows be read until rewritten.
type SealedStore struct {
	inner credential.Store
	aead  cipher.AEAD
}

// NewSealedStore derives a 256-bit key from passphrase with HKDF-SHA256
func NewSealedStore(inner credential.Store, passphrase string) (*SealedStore, error) {
	if strings.TrimSpace(passphrase) == "" {
		return nil, errors.New("cache: encryption key is empty")
	}
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(passphrase), nil, []byte(hkdfInfo)), key); err != nil {
		return nil, fmt.Errorf("derive credential key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return &SealedStore{inner: inner, aead: aead}, nil
}

// Get opens the stored value
func (s *SealedStore) Get(ctx context.Context, key string) (string, error) {
	stored, err := s.inner.Get(ctx, key)
	if err != nil {
		return "", err
	}
	return s.open(key, stored)
}

// Put seals value and writes it with the same expiry
func (s *SealedStore) Put(ctx context.Context, key, value string, expiresAt *time.Time) error {
	sealed, err := s.seal(key, value)
	if err != nil {
		return err
	}
	return s.inner.Put(ctx, key, sealed, expiresAt)
}

// Describe never reads the value, so it passes through
func (s *SealedStore) Describe(ctx context.Context, key string) (credential.Metadata, error) {
	return s.inner.Describe(ctx, key)
}

func (s *SealedStore) seal(key, value string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	out := s.aead.Seal(nonce, nonce, []byte(value), []byte(key))
	return sealedPrefix + base64.RawStdEncoding.EncodeToString(out), nil
}

func (s *SealedStore) open(key, stored string) (string, error) {
	encoded, ok := strings.CutPrefix(stored, sealedPrefix)
	if !ok {
		return stored, nil
	}
	raw, err := base64.RawStdEncoding.DecodeString(encoded)
	if err != nil || len(raw) < s.aead.NonceSize() {
		return "", ErrUnsealFailed
	}
	nonce, ciphertext := raw[:s.aead.NonceSize()], raw[s.aead.NonceSize():]
	plain, err := s.aead.Open(nil, nonce, ciphertext, []byte(key))
	if err != nil {
		return "", ErrUnsealFailed
	}
	return string(plain), nil
}

var _ credential.Store = (*SealedStore)(nil)
