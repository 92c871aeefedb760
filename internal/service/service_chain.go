// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-doc-ledger/internal/config"
	"github.com/MKhiriev/go-doc-ledger/internal/keys"
	"github.com/MKhiriev/go-doc-ledger/internal/logger"
	"github.com/MKhiriev/go-doc-ledger/internal/store"
	"github.com/MKhiriev/go-doc-ledger/models"
)

type chainService struct {
	ledger store.LedgerRepository
	keys   keys.KeyService

	signingKeyVersion string

	// appendMu serializes block appends. Reading the latest block and
	// inserting its successor must be atomic, otherwise two concurrent
	// appends race for the same block number.
	appendMu sync.Mutex

	now func() time.Time

	logger *logger.Logger
}

// NewChainService constructs the [ChainService]. cfg.SigningKeyVersion names
// the key-service signing key recorded on every hash record and block.
func NewChainService(ledger store.LedgerRepository, keySvc keys.KeyService, cfg config.Keys, logger *logger.Logger) ChainService {
	return &chainService{
		ledger:            ledger,
		keys:              keySvc,
		signingKeyVersion: cfg.SigningKeyVersion,
		now:               time.Now,
		logger:            logger,
	}
}

// CreateHashRecord implements [ChainService]. The signing payload is the
// exact string "fileHash:contentHash:documentID"; existing records were
// signed over this framing and must stay verifiable, so it never changes.
func (s *chainService) CreateHashRecord(ctx context.Context, documentID, fileHash, contentHash string, meta models.DocumentMeta) (*models.HashRecord, error) {
	log := logger.FromContext(ctx)

	if documentID == "" || fileHash == "" || contentHash == "" {
		return nil, fmt.Errorf("%w: document ID and hashes are required", ErrInvalidDocument)
	}

	payload := fileHash + ":" + contentHash + ":" + documentID
	digest := sha256.Sum256([]byte(payload))

	signature, err := s.keys.Sign(ctx, s.signingKeyVersion, digest[:])
	if err != nil {
		log.Err(err).
			Str("func", "chainService.CreateHashRecord").
			Str("document_id", documentID).
			Str("key_version", s.signingKeyVersion).
			Msg("failed to sign hash record")
		return nil, fmt.Errorf("%w: %w", ErrLedgerWriteFailed, err)
	}

	record := &models.HashRecord{
		HashID:             uuid.NewString(),
		DocumentID:         documentID,
		FileHash:           fileHash,
		ContentHash:        contentHash,
		KeyVersion:         s.signingKeyVersion,
		Signature:          signature,
		Timestamp:          s.now().UTC(),
		UserID:             meta.UserID,
		FileSize:           meta.FileSize,
		MimeType:           meta.MimeType,
		VerificationStatus: models.StatusVerified,
	}

	if len(meta.Extra) > 0 {
		extra, marshalErr := json.Marshal(meta.Extra)
		if marshalErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, marshalErr)
		}
		record.Metadata = string(extra)
	}

	if saveErr := s.ledger.SaveHashRecord(ctx, record); saveErr != nil {
		log.Err(saveErr).
			Str("func", "chainService.CreateHashRecord").
			Str("document_id", documentID).
			Msg("failed to save hash record")
		return nil, fmt.Errorf("%w: %w", ErrLedgerWriteFailed, saveErr)
	}

	if appendErr := s.appendBlock(ctx, []string{record.HashID}); appendErr != nil {
		return nil, appendErr
	}

	log.Info().
		Str("func", "chainService.CreateHashRecord").
		Str("document_id", documentID).
		Str("hash_id", record.HashID).
		Msg("hash record created and chained")

	return record, nil
}

// appendBlock links hashIDs into the chain with a new block. It holds
// appendMu across the latest-block read and the insert, making this instance
// the single writer of the chain.
func (s *chainService) appendBlock(ctx context.Context, hashIDs []string) error {
	log := logger.FromContext(ctx)

	s.appendMu.Lock()
	defer s.appendMu.Unlock()

	var blockNumber int64
	previousHash := ""

	last, err := s.ledger.LatestChainBlock(ctx)
	switch {
	case err == nil:
		blockNumber = last.BlockNumber + 1
		previousHash = last.CurrentHash
	case errors.Is(err, store.ErrChainEmpty):
		// genesis
	default:
		log.Err(err).Str("func", "chainService.appendBlock").Msg("failed to read latest chain block")
		return fmt.Errorf("%w: %w", ErrLedgerReadFailed, err)
	}

	merkleRoot := merkleRootOf(hashIDs)
	currentHash := blockHash(blockNumber, previousHash, merkleRoot)

	digest := sha256.Sum256([]byte(currentHash))
	signature, signErr := s.keys.Sign(ctx, s.signingKeyVersion, digest[:])
	if signErr != nil {
		log.Err(signErr).
			Str("func", "chainService.appendBlock").
			Int64("block_number", blockNumber).
			Msg("failed to sign chain block")
		return fmt.Errorf("%w: %w", ErrLedgerWriteFailed, signErr)
	}

	block := &models.ChainBlock{
		ChainID:        uuid.NewString(),
		BlockNumber:    blockNumber,
		PreviousHash:   previousHash,
		CurrentHash:    currentHash,
		DocumentHashes: hashIDs,
		MerkleRoot:     merkleRoot,
		Signature:      signature,
		Timestamp:      s.now().UTC(),
	}

	if saveErr := s.ledger.SaveChainBlock(ctx, block); saveErr != nil {
		log.Err(saveErr).
			Str("func", "chainService.appendBlock").
			Int64("block_number", blockNumber).
			Msg("failed to save chain block")
		return fmt.Errorf("%w: %w", ErrLedgerWriteFailed, saveErr)
	}

	log.Debug().
		Str("func", "chainService.appendBlock").
		Int64("block_number", blockNumber).
		Str("current_hash", currentHash).
		Msg("chain block appended")

	return nil
}

// VerifyChain implements [ChainService].
func (s *chainService) VerifyChain(ctx context.Context) (*models.ChainCheck, error) {
	log := logger.FromContext(ctx)

	blocks, err := s.ledger.ChainBlocksAscending(ctx)
	if err != nil {
		log.Err(err).Str("func", "chainService.VerifyChain").Msg("failed to read chain")
		return nil, fmt.Errorf("%w: %w", ErrLedgerReadFailed, err)
	}

	check := &models.ChainCheck{Valid: true}

	for i, block := range blocks {
		if block.BlockNumber != int64(i) {
			return s.corrupt(log, check, block.BlockNumber,
				fmt.Sprintf("expected block number %d, found %d", i, block.BlockNumber)), nil
		}

		wantPrevious := ""
		if i > 0 {
			wantPrevious = blocks[i-1].CurrentHash
		}
		if block.PreviousHash != wantPrevious {
			return s.corrupt(log, check, block.BlockNumber, "previous hash does not match predecessor"), nil
		}

		if merkleRootOf(block.DocumentHashes) != block.MerkleRoot {
			return s.corrupt(log, check, block.BlockNumber, "merkle root does not match member hashes"), nil
		}

		if blockHash(block.BlockNumber, block.PreviousHash, block.MerkleRoot) != block.CurrentHash {
			return s.corrupt(log, check, block.BlockNumber, "block hash does not re-derive from stored fields"), nil
		}

		check.BlocksChecked++
	}

	log.Info().
		Str("func", "chainService.VerifyChain").
		Int("blocks_checked", check.BlocksChecked).
		Msg("chain verified")

	return check, nil
}

func (s *chainService) corrupt(log *logger.Logger, check *models.ChainCheck, blockNumber int64, reason string) *models.ChainCheck {
	check.Valid = false
	check.CorruptBlock = blockNumber
	check.Reason = reason

	log.Error().
		Str("func", "chainService.VerifyChain").
		Int64("corrupt_block", blockNumber).
		Str("reason", reason).
		Msg("chain corruption detected")

	return check
}

// merkleRootOf aggregates hash-record IDs into the simplified block root:
// the SHA-256 of their plain concatenation in order. Historical blocks were
// produced with this framing, so it is frozen.
func merkleRootOf(hashIDs []string) string {
	sum := sha256.Sum256([]byte(strings.Join(hashIDs, "")))
	return hex.EncodeToString(sum[:])
}

// blockHash derives a block's hash from its framing string
// "{blockNumber}:{previousHash}:{merkleRoot}"; genesis uses an empty
// previous hash.
func blockHash(blockNumber int64, previousHash, merkleRoot string) string {
	framing := fmt.Sprintf("%d:%s:%s", blockNumber, previousHash, merkleRoot)
	sum := sha256.Sum256([]byte(framing))
	return hex.EncodeToString(sum[:])
}
