// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-doc-ledger/internal/config"
	"github.com/MKhiriev/go-doc-ledger/internal/keys"
	"github.com/MKhiriev/go-doc-ledger/internal/logger"
	"github.com/MKhiriev/go-doc-ledger/internal/store"
	"github.com/MKhiriev/go-doc-ledger/models"
)

const (
	dataKeySize       = 32
	envelopeAlgorithm = "AES-256-GCM"
	blobNameSuffix    = ".enc"
)

type envelopeService struct {
	blobs store.BlobStorage
	keys  keys.KeyService

	keyRef string

	logger *logger.Logger
}

// NewEnvelopeService constructs the [EnvelopeService]. cfg.KeyRef names the
// key-service key used to wrap data keys for all new blobs.
func NewEnvelopeService(blobs store.BlobStorage, keySvc keys.KeyService, cfg config.Keys, logger *logger.Logger) EnvelopeService {
	return &envelopeService{
		blobs:  blobs,
		keys:   keySvc,
		keyRef: cfg.KeyRef,
		logger: logger,
	}
}

// Encrypt implements [EnvelopeService]. A transient blob write failure is
// retried exactly once after reconnecting the storage session; no other
// operation in the service auto-retries.
func (s *envelopeService) Encrypt(ctx context.Context, data []byte, meta models.DocumentMeta) (*models.EnvelopeMetadata, error) {
	log := logger.FromContext(ctx)

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
	}

	dataKey := make([]byte, dataKeySize)
	if _, err := rand.Read(dataKey); err != nil {
		log.Err(err).Str("func", "envelopeService.Encrypt").Msg("failed to generate data key")
		return nil, fmt.Errorf("%w: %w", ErrEncryptFailed, err)
	}

	ciphertext, err := sealGCM(dataKey, data)
	if err != nil {
		log.Err(err).Str("func", "envelopeService.Encrypt").Msg("failed to encrypt document")
		return nil, fmt.Errorf("%w: %w", ErrEncryptFailed, err)
	}

	wrappedKey, err := s.keys.WrapKey(ctx, s.keyRef, dataKey)
	zero(dataKey)
	if err != nil {
		log.Err(err).
			Str("func", "envelopeService.Encrypt").
			Str("key_ref", s.keyRef).
			Msg("failed to wrap data key")
		return nil, fmt.Errorf("%w: %w", ErrEncryptFailed, err)
	}

	blobName := uuid.NewString() + blobNameSuffix
	attrs := models.BlobAttributes{
		OriginalFilename: meta.FileName,
		MimeType:         meta.MimeType,
		UserID:           meta.UserID,
		EncryptedWith:    models.EncryptedWithEnvelope,
		KeyRef:           s.keyRef,
		WrappedKey:       base64.StdEncoding.EncodeToString(wrappedKey),
		OriginalSize:     int64(len(data)),
		EncryptedSize:    int64(len(ciphertext)),
	}

	if putErr := s.blobs.Put(ctx, blobName, ciphertext, attrs); putErr != nil {
		log.Warn().
			Err(putErr).
			Str("func", "envelopeService.Encrypt").
			Str("blob_name", blobName).
			Msg("blob write failed, reconnecting and retrying once")

		if reconnectErr := s.blobs.Reconnect(ctx); reconnectErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncryptFailed, putErr)
		}
		if retryErr := s.blobs.Put(ctx, blobName, ciphertext, attrs); retryErr != nil {
			log.Err(retryErr).
				Str("func", "envelopeService.Encrypt").
				Str("blob_name", blobName).
				Msg("blob write retry failed")
			return nil, fmt.Errorf("%w: %w", ErrEncryptFailed, retryErr)
		}
	}

	log.Info().
		Str("func", "envelopeService.Encrypt").
		Str("blob_name", blobName).
		Int64("original_size", attrs.OriginalSize).
		Int64("encrypted_size", attrs.EncryptedSize).
		Msg("document encrypted and stored")

	return &models.EnvelopeMetadata{
		BlobName:      blobName,
		KeyRef:        s.keyRef,
		WrappedKey:    attrs.WrappedKey,
		Algorithm:     envelopeAlgorithm,
		OriginalSize:  attrs.OriginalSize,
		EncryptedSize: attrs.EncryptedSize,
	}, nil
}

// Decrypt implements [EnvelopeService].
func (s *envelopeService) Decrypt(ctx context.Context, blobName string) ([]byte, models.BlobAttributes, error) {
	log := logger.FromContext(ctx)

	ciphertext, attrs, err := s.blobs.Get(ctx, blobName)
	if err != nil {
		return nil, attrs, err
	}

	if attrs.EncryptedWith != models.EncryptedWithEnvelope {
		return s.decryptLegacy(ctx, blobName, ciphertext, attrs)
	}

	wrappedKey, decodeErr := base64.StdEncoding.DecodeString(attrs.WrappedKey)
	if decodeErr != nil {
		log.Err(decodeErr).
			Str("func", "envelopeService.Decrypt").
			Str("blob_name", blobName).
			Msg("malformed wrapped key in blob attributes")
		return nil, attrs, fmt.Errorf("%w: %w", ErrDecryptFailed, decodeErr)
	}

	dataKey, unwrapErr := s.keys.UnwrapKey(ctx, attrs.KeyRef, wrappedKey)
	if unwrapErr != nil {
		log.Err(unwrapErr).
			Str("func", "envelopeService.Decrypt").
			Str("blob_name", blobName).
			Str("key_ref", attrs.KeyRef).
			Msg("failed to unwrap data key")
		return nil, attrs, fmt.Errorf("%w: %w", ErrDecryptFailed, unwrapErr)
	}

	plaintext, openErr := openGCM(dataKey, ciphertext)
	zero(dataKey)
	if openErr != nil {
		log.Err(openErr).
			Str("func", "envelopeService.Decrypt").
			Str("blob_name", blobName).
			Msg("failed to decrypt document")
		return nil, attrs, fmt.Errorf("%w: %w", ErrDecryptFailed, openErr)
	}

	return plaintext, attrs, nil
}

// decryptLegacy handles blobs written before envelope encryption: the whole
// payload was encrypted directly by the key service, so the whole payload
// goes back through UnwrapKey.
func (s *envelopeService) decryptLegacy(ctx context.Context, blobName string, ciphertext []byte, attrs models.BlobAttributes) ([]byte, models.BlobAttributes, error) {
	log := logger.FromContext(ctx)

	keyRef := attrs.KeyRef
	if keyRef == "" {
		keyRef = s.keyRef
	}

	log.Debug().
		Str("func", "envelopeService.decryptLegacy").
		Str("blob_name", blobName).
		Msg("blob has no envelope tag, using legacy decryption")

	plaintext, err := s.keys.UnwrapKey(ctx, keyRef, ciphertext)
	if err != nil {
		log.Err(err).
			Str("func", "envelopeService.decryptLegacy").
			Str("blob_name", blobName).
			Str("key_ref", keyRef).
			Msg("legacy decryption failed")
		return nil, attrs, fmt.Errorf("%w: %w", ErrDecryptFailed, err)
	}

	return plaintext, attrs, nil
}

// sealGCM encrypts plaintext with AES-256-GCM under key, prepending the nonce
// to the ciphertext.
func sealGCM(key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// openGCM reverses sealGCM.
func openGCM(key, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext shorter than nonce")
	}

	nonce, sealed := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]

	return gcm.Open(nil, nonce, sealed, nil)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
