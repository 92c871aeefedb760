package keys

import "context"

// KeyService is the client-side contract of the external key provider.
// The service holds the long-lived keys; callers only ever see wrapped data
// keys and detached signatures.
//
// All methods are blocking and fail closed: any provider-side problem is
// surfaced as an error, never as silently corrupted output.
type KeyService interface {
	// WrapKey encrypts a small plaintext (a data key, never a document)
	// under the key identified by keyRef.
	WrapKey(ctx context.Context, keyRef string, plaintext []byte) ([]byte, error)

	// UnwrapKey recovers the plaintext of a previously wrapped data key.
	UnwrapKey(ctx context.Context, keyRef string, ciphertext []byte) ([]byte, error)

	// Sign produces an asymmetric signature over a SHA-256 digest using the
	// signing key identified by keyVersion.
	Sign(ctx context.Context, keyVersion string, digest []byte) ([]byte, error)

	// Verify reports whether signature is a valid signature over digest for
	// the signing key identified by keyVersion. A signature mismatch is
	// reported as (false, nil); only provider failures return an error.
	Verify(ctx context.Context, keyVersion string, digest, signature []byte) (bool, error)
}
