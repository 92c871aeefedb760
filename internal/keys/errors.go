package keys

import "errors"

// Sentinel errors returned by key service implementations. Callers should
// use [errors.Is] to match against these values; the distinction between
// wrap/unwrap failures and provider unavailability lets them tell key-service
// outages from corrupted payloads.
var (
	// ErrKeyServiceUnavailable is returned when the key provider cannot be
	// reached or refuses the request for infrastructure reasons.
	ErrKeyServiceUnavailable = errors.New("key service unavailable")

	// ErrWrapFailed is returned when wrapping a data key fails.
	ErrWrapFailed = errors.New("failed to wrap data key")

	// ErrUnwrapFailed is returned when unwrapping a data key fails, most
	// commonly because the ciphertext is corrupted or was wrapped under a
	// different key.
	ErrUnwrapFailed = errors.New("failed to unwrap data key")

	// ErrSignFailed is returned when producing a signature fails.
	ErrSignFailed = errors.New("failed to sign digest")

	// ErrInvalidDigest is returned when the digest passed to Sign or Verify
	// is not a SHA-256 digest (32 bytes).
	ErrInvalidDigest = errors.New("digest must be 32 bytes (SHA-256)")

	// ErrMissingKeyMaterial is returned by the local implementation when the
	// configuration lacks the passphrase or salt needed to derive the
	// key-encryption key.
	ErrMissingKeyMaterial = errors.New("missing key material in configuration")
)
