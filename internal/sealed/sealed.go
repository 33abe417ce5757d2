// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// ErrBadPassphrase is returned when the body cannot be authenticated with the
// key derived from the passphrase.
var ErrBadPassphrase = errors.New("bad passphrase")

// ProviderPrefix prefixes the meta key holding the key provider description.
const ProviderPrefix = "key_provider.pbkdf2."

type envelope struct {
	Meta          map[string]string `json:"meta"`
	EncryptedData string            `json:"encrypted_data"`
}

type keyProvider struct {
	Salt       string `json:"salt"`
	Iterations int    `json:"iterations"`
	HashFunc   string `json:"hash_function"`
	KeyLength  int    `json:"key_length"`
}

// IsSealed reports whether data looks like a sealed collection.
func IsSealed(data []byte) bool {
	var peek map[string]json.RawMessage
	if err := json.Unmarshal(data, &peek); err != nil {
		return false
	}
	_, ok := peek["encrypted_data"]
	return ok
}

// Open decrypts a sealed collection with passphrase.
func Open(data []byte, passphrase string) ([]byte, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse sealed collection: %w", err)
	}

	var encoded string
	for k, v := range env.Meta {
		if strings.HasPrefix(k, ProviderPrefix) {
			encoded = v
			break
		}
	}
	if encoded == "" {
		return nil, fmt.Errorf("no %s* key provider in meta", ProviderPrefix)
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode key provider config: %w", err)
	}

	var kp keyProvider
	if err = json.Unmarshal(raw, &kp); err != nil {
		return nil, fmt.Errorf("failed to parse key provider config: %w", err)
	}

	salt, err := base64.StdEncoding.DecodeString(kp.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}

	h, err := hashFunc(kp.HashFunc)
	if err != nil {
		return nil, err
	}

	key := pbkdf2.Key([]byte(passphrase), salt, kp.Iterations, kp.KeyLength, h)

	return decrypt(env.EncryptedData, key)
}

// SealOption adjusts the key provider used by Seal.
type SealOption func(*keyProvider)

// WithIterations sets the PBKDF2 iteration count.
func WithIterations(n int) SealOption {
	return func(kp *keyProvider) { kp.Iterations = n }
}

// WithHash selects the PBKDF2 hash, sha256 or sha512.
func WithHash(name string) SealOption {
	return func(kp *keyProvider) { kp.HashFunc = name }
}

// Seal encrypts plaintext with a key derived from passphrase and returns the
// sealed collection document.
func Seal(plaintext []byte, passphrase string, options ...SealOption) ([]byte, error) {
	kp := keyProvider{Iterations: 600000, HashFunc: "sha512", KeyLength: 32}
	for _, opt := range options {
		opt(&kp)
	}

	h, err := hashFunc(kp.HashFunc)
	if err != nil {
		return nil, err
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	kp.Salt = base64.StdEncoding.EncodeToString(salt)

	key := pbkdf2.Key([]byte(passphrase), salt, kp.Iterations, kp.KeyLength, h)

	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aesGCM.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	ciphertext := aesGCM.Seal(nonce, nonce, plaintext, nil)

	kpJSON, err := json.Marshal(kp)
	if err != nil {
		return nil, err
	}

	return json.Marshal(envelope{
		Meta:          map[string]string{ProviderPrefix + "lorectl": base64.StdEncoding.EncodeToString(kpJSON)},
		EncryptedData: base64.StdEncoding.EncodeToString(ciphertext),
	})
}

func hashFunc(name string) (func() hash.Hash, error) {
	switch strings.ToLower(name) {
	case "", "sha512":
		return sha512.New, nil
	case "sha256":
		return sha256.New, nil
	default:
		return nil, fmt.Errorf("unsupported hash function: %s", name)
	}
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}

func decrypt(encryptedData string, derivedKey []byte) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(encryptedData)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}

	aesGCM, err := newGCM(derivedKey)
	if err != nil {
		return nil, err
	}

	// Nonce is prepended to the ciphertext.
	nonceSize := aesGCM.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf(
			"ciphertext too short: expected at least %d bytes, got %d",
			nonceSize,
			len(ciphertext),
		)
	}

	plaintext, err := aesGCM.Open(nil, ciphertext[:nonceSize], ciphertext[nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", ErrBadPassphrase)
	}

	return plaintext, nil
}
