package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

const (
	saveHashRecord = `INSERT INTO document_hashes (
			hash_id,
			document_id,
			file_hash,
			content_hash,
			key_version,
			signature,
			created_at,
			user_id,
			file_size,
			mime_type,
			metadata,
			verification_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`

	latestHashRecordByDocument = `SELECT hash_id, document_id, file_hash, content_hash, key_version,
			signature, created_at, user_id, file_size, mime_type, metadata, verification_status
		FROM document_hashes
		WHERE document_id = $1
		ORDER BY created_at DESC
		LIMIT 1;`

	saveChainBlock = `INSERT INTO hash_chain (
			chain_id,
			block_number,
			previous_hash,
			current_hash,
			document_hashes,
			merkle_root,
			signature,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`

	latestChainBlock = `SELECT chain_id, block_number, previous_hash, current_hash,
			document_hashes, merkle_root, signature, created_at
		FROM hash_chain
		ORDER BY block_number DESC
		LIMIT 1;`

	latestChainBlocks = `SELECT chain_id, block_number, previous_hash, current_hash,
			document_hashes, merkle_root, signature, created_at
		FROM hash_chain
		ORDER BY block_number DESC
		LIMIT $1;`

	chainBlocksAscending = `SELECT chain_id, block_number, previous_hash, current_hash,
			document_hashes, merkle_root, signature, created_at
		FROM hash_chain
		ORDER BY block_number ASC;`
)

// buildHashRecordsQuery builds the audit-trail query for a document's hash
// records. squirrel keeps the statement readable while allowing optional
// narrowing (user filter, row limit) without string surgery.
func buildHashRecordsQuery(documentID string, userID string, limit uint64) (string, []any, error) {
	builder := sq.
		Select(
			"hash_id", "document_id", "file_hash", "content_hash", "key_version",
			"signature", "created_at", "user_id", "file_size", "mime_type",
			"metadata", "verification_status",
		).
		From("document_hashes").
		Where(sq.Eq{"document_id": documentID}).
		OrderBy("created_at ASC").
		PlaceholderFormat(sq.Dollar)

	if userID != "" {
		builder = builder.Where(sq.Eq{"user_id": userID})
	}
	if limit > 0 {
		builder = builder.Limit(limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}
