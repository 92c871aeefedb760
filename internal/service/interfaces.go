package service

import (
	"context"

	"github.com/MKhiriev/go-doc-ledger/internal/cache"
	"github.com/MKhiriev/go-doc-ledger/models"
)

// EnvelopeService encrypts documents with per-document data keys and stores
// the ciphertext in blob storage. Only the wrapped form of a data key ever
// leaves the process.
type EnvelopeService interface {
	// Encrypt generates a fresh data key, encrypts data with it, wraps the
	// key through the key service and stores the ciphertext as a new blob.
	Encrypt(ctx context.Context, data []byte, meta models.DocumentMeta) (*models.EnvelopeMetadata, error)

	// Decrypt loads a blob, unwraps its data key and returns the plaintext.
	// Blobs without the envelope tag are decrypted through the legacy path.
	Decrypt(ctx context.Context, blobName string) ([]byte, models.BlobAttributes, error)
}

// ChainService owns the append-only hash ledger: signed hash records plus the
// hash chain linking them. It is the only writer of chain blocks.
type ChainService interface {
	// CreateHashRecord signs and persists a hash record for the document and
	// links it into the chain with a new block.
	CreateHashRecord(ctx context.Context, documentID, fileHash, contentHash string, meta models.DocumentMeta) (*models.HashRecord, error)

	// VerifyChain walks the full chain and re-derives every block hash.
	// Corruption is reported as data in the returned [models.ChainCheck];
	// an error means the chain could not be read at all.
	VerifyChain(ctx context.Context) (*models.ChainCheck, error)
}

// IntegrityService is the facade the transport layer talks to. It composes
// envelope encryption, the hash ledger, the verification cache and the
// throttle gate into the operations the API exposes.
type IntegrityService interface {
	// StoreDocument encrypts and stores the document, then records its hashes
	// in the ledger. extractedText is the text layer of the document; when
	// empty, the content hash falls back to the hash of the raw bytes.
	StoreDocument(ctx context.Context, documentID string, data []byte, extractedText string, meta models.DocumentMeta) (*models.EnvelopeMetadata, *models.HashRecord, error)

	// RetrieveDocument decrypts and returns a previously stored document.
	RetrieveDocument(ctx context.Context, blobName string) ([]byte, models.BlobAttributes, error)

	// RecordHash records document hashes in the ledger without storing any
	// content, for callers that keep the document elsewhere.
	RecordHash(ctx context.Context, documentID, fileHash, contentHash string, meta models.DocumentMeta) (*models.HashRecord, error)

	// Verify checks content against the document's most recent hash record.
	// All outcomes including infrastructure failures are returned as data in
	// the result status; the error return is reserved for invalid input.
	Verify(ctx context.Context, documentID string, content []byte) (models.VerificationResult, error)

	// AuditTrail returns the document's hash history plus the most recent
	// chain blocks overall. A non-empty userID narrows the history to one
	// uploader; a non-zero limit caps the number of records returned.
	AuditTrail(ctx context.Context, documentID string, userID string, limit uint64) (*models.AuditTrail, error)

	// VerifyChain re-derives the full hash chain.
	VerifyChain(ctx context.Context) (*models.ChainCheck, error)

	// CacheStats reports verification cache occupancy.
	CacheStats() cache.Stats
}
