// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package keys

import (
	"context"
	"crypto"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/argon2"

	"github.com/MKhiriev/go-doc-ledger/internal/config"
	"github.com/MKhiriev/go-doc-ledger/internal/logger"
)

// localKeyService is the in-process implementation of [KeyService]. It stands
// in for a managed KMS in single-node deployments and in tests.
//
// Wrapping uses AES-256-GCM under a key-encryption key derived from the
// configured master passphrase and salt via Argon2id. The key reference is
// bound into the GCM additional data, so a blob wrapped under one keyRef will
// not unwrap under another. Signing uses RSA PKCS#1 v1.5 over a SHA-256
// digest, matching the digest-based signing contract of managed KMS APIs.
type localKeyService struct {
	kek        []byte
	signingKey *rsa.PrivateKey

	logger *logger.Logger
}

// Argon2id parameters for the KEK derivation, per OWASP (2024):
// 1 iteration, 64 MiB memory, 4 threads, 256-bit output.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// NewLocalKeyService constructs a [KeyService] backed by in-process key
// material.
//
// The key-encryption key is derived from cfg.MasterPassphrase and the base64
// cfg.KEKSalt; both must be set and must stay stable across restarts or
// previously wrapped data keys become unrecoverable. The RSA signing key is
// loaded from cfg.SigningKeyPath (PEM, PKCS#1 or PKCS#8); when the path is
// empty an ephemeral 2048-bit key is generated, which is acceptable only for
// development since signatures will not survive a restart.
func NewLocalKeyService(cfg config.Keys, log *logger.Logger) (KeyService, error) {
	if cfg.MasterPassphrase == "" || cfg.KEKSalt == "" {
		return nil, ErrMissingKeyMaterial
	}

	salt, err := base64.StdEncoding.DecodeString(cfg.KEKSalt)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding kek salt: %w", ErrMissingKeyMaterial, err)
	}

	kek := argon2.IDKey(
		[]byte(cfg.MasterPassphrase),
		salt,
		argonTime,
		argonMemory,
		argonThreads,
		argonKeyLen,
	)

	signingKey, err := loadSigningKey(cfg.SigningKeyPath, log)
	if err != nil {
		return nil, err
	}

	return &localKeyService{
		kek:        kek,
		signingKey: signingKey,
		logger:     log,
	}, nil
}

// loadSigningKey reads an RSA private key from a PEM file, accepting both
// PKCS#1 and PKCS#8 encodings. An empty path generates an ephemeral key.
func loadSigningKey(path string, log *logger.Logger) (*rsa.PrivateKey, error) {
	if path == "" {
		log.Warn().
			Str("func", "loadSigningKey").
			Msg("no signing key path configured, generating ephemeral RSA key")
		return rsa.GenerateKey(rand.Reader, 2048)
	}

	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading signing key: %w", err)
	}

	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errors.New("signing key file contains no PEM block")
	}

	if key, parseErr := x509.ParsePKCS1PrivateKey(block.Bytes); parseErr == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parsing signing key: %w", err)
	}

	rsaKey, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("signing key is not an RSA private key")
	}

	return rsaKey, nil
}

// WrapKey implements [KeyService]. It seals plaintext with AES-256-GCM under
// the derived KEK. A random 12-byte nonce is prepended to the ciphertext so
// that UnwrapKey can locate it: blob = nonce ‖ ciphertext. The keyRef is
// passed as GCM additional data.
func (k *localKeyService) WrapKey(ctx context.Context, keyRef string, plaintext []byte) ([]byte, error) {
	gcm, err := k.newGCM()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWrapFailed, err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("%w: generating nonce: %w", ErrWrapFailed, err)
	}

	wrapped := gcm.Seal(nil, nonce, plaintext, []byte(keyRef))
	return append(nonce, wrapped...), nil
}

// UnwrapKey implements [KeyService]. It unwraps a blob produced by
// [localKeyService.WrapKey]. The blob must be at least as long as the GCM
// nonce. An authentication-tag mismatch — wrong KEK, wrong keyRef, or a
// corrupted blob — surfaces as [ErrUnwrapFailed].
func (k *localKeyService) UnwrapKey(ctx context.Context, keyRef string, ciphertext []byte) ([]byte, error) {
	gcm, err := k.newGCM()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnwrapFailed, err)
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrUnwrapFailed)
	}

	nonce, sealed := ciphertext[:nonceSize], ciphertext[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, sealed, []byte(keyRef))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnwrapFailed, err)
	}

	return plaintext, nil
}

// Sign implements [KeyService]. digest must be a 32-byte SHA-256 digest; the
// keyVersion parameter is accepted for interface parity with managed key
// services, the local implementation holds a single signing key.
func (k *localKeyService) Sign(ctx context.Context, keyVersion string, digest []byte) ([]byte, error) {
	if len(digest) != 32 {
		return nil, ErrInvalidDigest
	}

	signature, err := rsa.SignPKCS1v15(rand.Reader, k.signingKey, crypto.SHA256, digest)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSignFailed, err)
	}

	return signature, nil
}

// Verify implements [KeyService]. A signature mismatch is an expected
// outcome and is reported as (false, nil).
func (k *localKeyService) Verify(ctx context.Context, keyVersion string, digest, signature []byte) (bool, error) {
	if len(digest) != 32 {
		return false, ErrInvalidDigest
	}

	if err := rsa.VerifyPKCS1v15(&k.signingKey.PublicKey, crypto.SHA256, digest, signature); err != nil {
		return false, nil
	}

	return true, nil
}

func (k *localKeyService) newGCM() (cipher.AEAD, error) {
	block, err := aes.NewCipher(k.kek)
	if err != nil {
		return nil, err
	}

	return cipher.NewGCM(block)
}
