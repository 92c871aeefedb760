package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-doc-ledger/internal/logger"
	"github.com/MKhiriev/go-doc-ledger/models"
)

// ledgerRepository is the PostgreSQL-backed implementation of
// [LedgerRepository]. It executes all hash-record and chain-block operations
// against the "document_hashes" and "hash_chain" tables using the embedded
// [*DB] connection. Both tables are append-only: the repository exposes no
// update or delete path.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that all database interactions are traced with
// structured fields (document_id, block_number, etc.).
type ledgerRepository struct {
	*DB
	logger *logger.Logger
}

// NewLedgerRepository constructs a [LedgerRepository] backed by the provided
// database connection and logger.
//
// The logger parameter is stored for fallback logging; most methods prefer
// the context-scoped logger obtained via [logger.FromContext].
func NewLedgerRepository(db *DB, logger *logger.Logger) LedgerRepository {
	return &ledgerRepository{
		DB:     db,
		logger: logger,
	}
}

// SaveHashRecord inserts a single hash record. Records are immutable; there
// is no corresponding update path.
func (l *ledgerRepository) SaveHashRecord(ctx context.Context, record *models.HashRecord) error {
	log := logger.FromContext(ctx)

	log.Debug().
		Str("func", "ledgerRepository.SaveHashRecord").
		Str("hash_id", record.HashID).
		Str("document_id", record.DocumentID).
		Msg("saving hash record")

	_, err := l.DB.ExecContext(ctx, saveHashRecord,
		record.HashID,
		record.DocumentID,
		record.FileHash,
		record.ContentHash,
		record.KeyVersion,
		record.Signature,
		record.Timestamp,
		record.UserID,
		record.FileSize,
		record.MimeType,
		record.Metadata,
		string(record.VerificationStatus),
	)
	if err != nil {
		log.Err(err).
			Str("func", "ledgerRepository.SaveHashRecord").
			Str("hash_id", record.HashID).
			Str("document_id", record.DocumentID).
			Str("classification", l.errorClassificator.Classify(err).String()).
			Msg("failed to save hash record")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// LatestHashRecordByDocument returns the most recent hash record for the
// given document, determined by creation timestamp. Returns
// [ErrHashRecordNotFound] when the document has no records.
func (l *ledgerRepository) LatestHashRecordByDocument(ctx context.Context, documentID string) (*models.HashRecord, error) {
	log := logger.FromContext(ctx)

	row := l.DB.QueryRowContext(ctx, latestHashRecordByDocument, documentID)

	record, err := scanHashRecord(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHashRecordNotFound
		}
		log.Err(err).
			Str("func", "ledgerRepository.LatestHashRecordByDocument").
			Str("document_id", documentID).
			Msg("failed to load latest hash record")
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return record, nil
}

// HashRecordsByDocument returns hash records for the document in ascending
// timestamp order, optionally narrowed to one user and capped at limit rows.
// An empty slice is returned when nothing matches.
func (l *ledgerRepository) HashRecordsByDocument(ctx context.Context, documentID string, userID string, limit uint64) ([]models.HashRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildHashRecordsQuery(documentID, userID, limit)
	if err != nil {
		log.Err(err).
			Str("func", "ledgerRepository.HashRecordsByDocument").
			Str("document_id", documentID).
			Msg("failed to build query")
		return nil, err
	}

	rows, queryErr := l.DB.QueryContext(ctx, query, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "ledgerRepository.HashRecordsByDocument").
			Str("document_id", documentID).
			Msg("failed to execute query for document hash records")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	records := make([]models.HashRecord, 0, 8)

	for rows.Next() {
		record, scanErr := scanHashRecord(rows.Scan)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "ledgerRepository.HashRecordsByDocument").
				Str("document_id", documentID).
				Msg("failed to scan hash record row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		records = append(records, *record)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "ledgerRepository.HashRecordsByDocument").
			Str("document_id", documentID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return records, nil
}

// SaveChainBlock inserts a single chain block. Blocks are immutable; there
// is no corresponding update or delete path. The genesis block stores NULL
// for previous_hash.
func (l *ledgerRepository) SaveChainBlock(ctx context.Context, block *models.ChainBlock) error {
	log := logger.FromContext(ctx)

	log.Debug().
		Str("func", "ledgerRepository.SaveChainBlock").
		Str("chain_id", block.ChainID).
		Int64("block_number", block.BlockNumber).
		Msg("saving chain block")

	hashes, err := json.Marshal(block.DocumentHashes)
	if err != nil {
		log.Err(err).
			Str("func", "ledgerRepository.SaveChainBlock").
			Str("chain_id", block.ChainID).
			Msg("failed to marshal document hashes")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	// previous_hash is NULL for genesis; everywhere else the model carries
	// the empty string only for block 0.
	var previousHash sql.NullString
	if block.BlockNumber > 0 {
		previousHash = sql.NullString{String: block.PreviousHash, Valid: true}
	}

	_, execErr := l.DB.ExecContext(ctx, saveChainBlock,
		block.ChainID,
		block.BlockNumber,
		previousHash,
		block.CurrentHash,
		hashes,
		block.MerkleRoot,
		block.Signature,
		block.Timestamp,
	)
	if execErr != nil {
		log.Err(execErr).
			Str("func", "ledgerRepository.SaveChainBlock").
			Str("chain_id", block.ChainID).
			Int64("block_number", block.BlockNumber).
			Str("classification", l.errorClassificator.Classify(execErr).String()).
			Msg("failed to save chain block")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, execErr)
	}

	return nil
}

// LatestChainBlock returns the block with the highest block number, or
// [ErrChainEmpty] when the chain has no blocks yet.
func (l *ledgerRepository) LatestChainBlock(ctx context.Context) (*models.ChainBlock, error) {
	log := logger.FromContext(ctx)

	row := l.DB.QueryRowContext(ctx, latestChainBlock)

	block, err := scanChainBlock(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChainEmpty
		}
		log.Err(err).
			Str("func", "ledgerRepository.LatestChainBlock").
			Msg("failed to load latest chain block")
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return block, nil
}

// LatestChainBlocks returns up to limit blocks in descending block-number
// order. The result is a global tail of the chain, not filtered by document.
func (l *ledgerRepository) LatestChainBlocks(ctx context.Context, limit int) ([]models.ChainBlock, error) {
	log := logger.FromContext(ctx)

	rows, queryErr := l.DB.QueryContext(ctx, latestChainBlocks, limit)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "ledgerRepository.LatestChainBlocks").
			Int("limit", limit).
			Msg("failed to execute query for latest chain blocks")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	return collectChainBlocks(log, rows, "ledgerRepository.LatestChainBlocks")
}

// ChainBlocksAscending returns every chain block ordered by block number,
// starting at genesis. Used by the corruption walker, which must visit the
// chain in link order.
func (l *ledgerRepository) ChainBlocksAscending(ctx context.Context) ([]models.ChainBlock, error) {
	log := logger.FromContext(ctx)

	rows, queryErr := l.DB.QueryContext(ctx, chainBlocksAscending)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "ledgerRepository.ChainBlocksAscending").
			Msg("failed to execute query for chain walk")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	return collectChainBlocks(log, rows, "ledgerRepository.ChainBlocksAscending")
}

// collectChainBlocks drains rows into chain block models.
func collectChainBlocks(log *logger.Logger, rows *sql.Rows, funcName string) ([]models.ChainBlock, error) {
	blocks := make([]models.ChainBlock, 0, 8)

	for rows.Next() {
		block, scanErr := scanChainBlock(rows.Scan)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", funcName).
				Msg("failed to scan chain block row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		blocks = append(blocks, *block)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", funcName).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return blocks, nil
}

// scanHashRecord scans one document_hashes row through the provided scan
// function, which lets the same code serve both QueryRow and Rows.
func scanHashRecord(scan func(dest ...any) error) (*models.HashRecord, error) {
	var record models.HashRecord
	var status string
	var metadata sql.NullString

	err := scan(
		&record.HashID,
		&record.DocumentID,
		&record.FileHash,
		&record.ContentHash,
		&record.KeyVersion,
		&record.Signature,
		&record.Timestamp,
		&record.UserID,
		&record.FileSize,
		&record.MimeType,
		&metadata,
		&status,
	)
	if err != nil {
		return nil, err
	}

	record.Metadata = metadata.String
	record.VerificationStatus = models.VerificationStatus(status)

	return &record, nil
}

// scanChainBlock scans one hash_chain row. The document_hashes column holds
// a JSON array of hash-record IDs; previous_hash is NULL for genesis and
// maps onto the empty string.
func scanChainBlock(scan func(dest ...any) error) (*models.ChainBlock, error) {
	var block models.ChainBlock
	var previousHash sql.NullString
	var documentHashes []byte

	err := scan(
		&block.ChainID,
		&block.BlockNumber,
		&previousHash,
		&block.CurrentHash,
		&documentHashes,
		&block.MerkleRoot,
		&block.Signature,
		&block.Timestamp,
	)
	if err != nil {
		return nil, err
	}

	block.PreviousHash = previousHash.String

	if len(documentHashes) > 0 {
		if unmarshalErr := json.Unmarshal(documentHashes, &block.DocumentHashes); unmarshalErr != nil {
			return nil, fmt.Errorf("unmarshal document hashes: %w", unmarshalErr)
		}
	}

	return &block, nil
}
