// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package keys

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-doc-ledger/internal/config"
	"github.com/MKhiriev/go-doc-ledger/internal/logger"
)

// remoteKeyService is the HTTP implementation of [KeyService], used when the
// key material lives in an external key-management service. Every call is
// bounded by the configured request timeout and fails closed: a non-2xx
// response or transport error maps onto the package's sentinel errors, and no
// partial output is ever returned.
type remoteKeyService struct {
	client *resty.Client

	logger *logger.Logger
}

const defaultKeysTimeout = 5 * time.Second

// Wire shapes of the remote key service API. Binary values travel as base64
// (standard encoding) strings.
type (
	wrapRequest struct {
		Plaintext string `json:"plaintext"`
	}
	wrapResponse struct {
		Ciphertext string `json:"ciphertext"`
	}
	unwrapRequest struct {
		Ciphertext string `json:"ciphertext"`
	}
	unwrapResponse struct {
		Plaintext string `json:"plaintext"`
	}
	signRequest struct {
		Digest string `json:"digest"`
	}
	signResponse struct {
		Signature string `json:"signature"`
	}
	verifyRequest struct {
		Digest    string `json:"digest"`
		Signature string `json:"signature"`
	}
	verifyResponse struct {
		Valid bool `json:"valid"`
	}
)

// NewRemoteKeyService constructs a [KeyService] that forwards all operations
// to an external key service over HTTP.
//
// cfg.RemoteAddress is the base URL; cfg.RequestTimeout bounds each call and
// defaults to 5s when unset, so a key-service outage surfaces as a timeout
// error instead of a hung request.
func NewRemoteKeyService(cfg config.Keys, log *logger.Logger) KeyService {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultKeysTimeout
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.RemoteAddress, "/")).
		SetTimeout(timeout)

	return &remoteKeyService{client: cli, logger: log}
}

// WrapKey implements [KeyService].
func (r *remoteKeyService) WrapKey(ctx context.Context, keyRef string, plaintext []byte) ([]byte, error) {
	log := logger.FromContext(ctx)

	var result wrapResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(wrapRequest{Plaintext: base64.StdEncoding.EncodeToString(plaintext)}).
		SetResult(&result).
		Post(fmt.Sprintf("/api/keys/%s/wrap", keyRef))
	if err != nil {
		log.Err(err).
			Str("func", "remoteKeyService.WrapKey").
			Str("key_ref", keyRef).
			Msg("wrap call failed")
		return nil, fmt.Errorf("%w: %w", ErrKeyServiceUnavailable, err)
	}

	if resp.StatusCode() != http.StatusOK {
		log.Error().
			Str("func", "remoteKeyService.WrapKey").
			Str("key_ref", keyRef).
			Int("status", resp.StatusCode()).
			Msg("wrap call rejected")
		return nil, fmt.Errorf("%w: status %d", ErrWrapFailed, resp.StatusCode())
	}

	ciphertext, err := base64.StdEncoding.DecodeString(result.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding response: %w", ErrWrapFailed, err)
	}

	return ciphertext, nil
}

// UnwrapKey implements [KeyService].
func (r *remoteKeyService) UnwrapKey(ctx context.Context, keyRef string, ciphertext []byte) ([]byte, error) {
	log := logger.FromContext(ctx)

	var result unwrapResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(unwrapRequest{Ciphertext: base64.StdEncoding.EncodeToString(ciphertext)}).
		SetResult(&result).
		Post(fmt.Sprintf("/api/keys/%s/unwrap", keyRef))
	if err != nil {
		log.Err(err).
			Str("func", "remoteKeyService.UnwrapKey").
			Str("key_ref", keyRef).
			Msg("unwrap call failed")
		return nil, fmt.Errorf("%w: %w", ErrKeyServiceUnavailable, err)
	}

	if resp.StatusCode() != http.StatusOK {
		log.Error().
			Str("func", "remoteKeyService.UnwrapKey").
			Str("key_ref", keyRef).
			Int("status", resp.StatusCode()).
			Msg("unwrap call rejected")
		return nil, fmt.Errorf("%w: status %d", ErrUnwrapFailed, resp.StatusCode())
	}

	plaintext, err := base64.StdEncoding.DecodeString(result.Plaintext)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding response: %w", ErrUnwrapFailed, err)
	}

	return plaintext, nil
}

// Sign implements [KeyService].
func (r *remoteKeyService) Sign(ctx context.Context, keyVersion string, digest []byte) ([]byte, error) {
	log := logger.FromContext(ctx)

	if len(digest) != 32 {
		return nil, ErrInvalidDigest
	}

	var result signResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(signRequest{Digest: base64.StdEncoding.EncodeToString(digest)}).
		SetResult(&result).
		Post(fmt.Sprintf("/api/keys/%s/sign", keyVersion))
	if err != nil {
		log.Err(err).
			Str("func", "remoteKeyService.Sign").
			Str("key_version", keyVersion).
			Msg("sign call failed")
		return nil, fmt.Errorf("%w: %w", ErrKeyServiceUnavailable, err)
	}

	if resp.StatusCode() != http.StatusOK {
		log.Error().
			Str("func", "remoteKeyService.Sign").
			Str("key_version", keyVersion).
			Int("status", resp.StatusCode()).
			Msg("sign call rejected")
		return nil, fmt.Errorf("%w: status %d", ErrSignFailed, resp.StatusCode())
	}

	signature, err := base64.StdEncoding.DecodeString(result.Signature)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding response: %w", ErrSignFailed, err)
	}

	return signature, nil
}

// Verify implements [KeyService].
func (r *remoteKeyService) Verify(ctx context.Context, keyVersion string, digest, signature []byte) (bool, error) {
	log := logger.FromContext(ctx)

	if len(digest) != 32 {
		return false, ErrInvalidDigest
	}

	var result verifyResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(verifyRequest{
			Digest:    base64.StdEncoding.EncodeToString(digest),
			Signature: base64.StdEncoding.EncodeToString(signature),
		}).
		SetResult(&result).
		Post(fmt.Sprintf("/api/keys/%s/verify", keyVersion))
	if err != nil {
		log.Err(err).
			Str("func", "remoteKeyService.Verify").
			Str("key_version", keyVersion).
			Msg("verify call failed")
		return false, fmt.Errorf("%w: %w", ErrKeyServiceUnavailable, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return false, fmt.Errorf("%w: status %d", ErrKeyServiceUnavailable, resp.StatusCode())
	}

	return result.Valid, nil
}
