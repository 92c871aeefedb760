package store

import (
	"context"

	"github.com/MKhiriev/go-doc-ledger/models"
)

// LedgerRepository is the append-only system of record for hash records and
// chain blocks. Rows are inserted once and never mutated or deleted; reads
// are plain snapshot queries.
type LedgerRepository interface {
	// SaveHashRecord inserts one hash record.
	SaveHashRecord(ctx context.Context, record *models.HashRecord) error

	// LatestHashRecordByDocument returns the most recent hash record for the
	// document, or [ErrHashRecordNotFound] when none exists.
	LatestHashRecordByDocument(ctx context.Context, documentID string) (*models.HashRecord, error)

	// HashRecordsByDocument returns hash records for the document in
	// ascending timestamp order. A non-empty userID narrows the result to
	// records created by that user; a non-zero limit caps the row count.
	// An empty slice is not an error.
	HashRecordsByDocument(ctx context.Context, documentID string, userID string, limit uint64) ([]models.HashRecord, error)

	// SaveChainBlock inserts one chain block.
	SaveChainBlock(ctx context.Context, block *models.ChainBlock) error

	// LatestChainBlock returns the block with the highest block number, or
	// [ErrChainEmpty] when no block exists yet (genesis case).
	LatestChainBlock(ctx context.Context) (*models.ChainBlock, error)

	// LatestChainBlocks returns up to limit blocks in descending block-number
	// order, a global tail of the chain used by the audit trail.
	LatestChainBlocks(ctx context.Context, limit int) ([]models.ChainBlock, error)

	// ChainBlocksAscending returns every block in ascending block-number
	// order, used by the chain corruption walker.
	ChainBlocksAscending(ctx context.Context) ([]models.ChainBlock, error)
}

// BlobStorage is the content store for encrypted document payloads. Each blob
// carries a set of attributes persisted next to the ciphertext.
type BlobStorage interface {
	// Put stores data under name with the given attributes.
	Put(ctx context.Context, name string, data []byte, attrs models.BlobAttributes) error

	// Get loads a blob and its attributes, or [ErrBlobNotFound].
	Get(ctx context.Context, name string) ([]byte, models.BlobAttributes, error)

	// Exists reports whether a blob with the given name is stored.
	Exists(ctx context.Context, name string) (bool, error)

	// Reconnect re-establishes the storage client/session. It is called
	// before the single documented write retry of the envelope codec.
	Reconnect(ctx context.Context) error
}

// ErrorClassificator classifies low-level database errors as retryable or
// not. The ledger never retries on its own (callers decide), but the
// classification is logged so operators can tell transient failures from
// permanent ones.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
