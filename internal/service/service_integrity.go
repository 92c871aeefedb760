// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-doc-ledger/internal/cache"
	"github.com/MKhiriev/go-doc-ledger/internal/logger"
	"github.com/MKhiriev/go-doc-ledger/internal/store"
	"github.com/MKhiriev/go-doc-ledger/models"
)

const (
	hashAlgorithm = "SHA-256"

	// auditChainTail is how many of the most recent chain blocks an audit
	// trail includes. The blocks are global, not per-document.
	auditChainTail = 5
)

type integrityService struct {
	envelope EnvelopeService
	chain    ChainService
	ledger   store.LedgerRepository
	cache    *cache.VerificationCache

	logger *logger.Logger
}

// NewIntegrityService constructs the [IntegrityService] facade over the
// envelope codec, the chain engine and the verification cache.
func NewIntegrityService(envelope EnvelopeService, chain ChainService, ledger store.LedgerRepository, verCache *cache.VerificationCache, logger *logger.Logger) IntegrityService {
	return &integrityService{
		envelope: envelope,
		chain:    chain,
		ledger:   ledger,
		cache:    verCache,
		logger:   logger,
	}
}

// StoreDocument implements [IntegrityService]. Encryption happens before the
// ledger write: a document whose hash is recorded must already be retrievable.
func (s *integrityService) StoreDocument(ctx context.Context, documentID string, data []byte, extractedText string, meta models.DocumentMeta) (*models.EnvelopeMetadata, *models.HashRecord, error) {
	log := logger.FromContext(ctx)

	if documentID == "" {
		return nil, nil, fmt.Errorf("%w: document ID is required", ErrInvalidDocument)
	}
	if len(data) == 0 {
		return nil, nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
	}

	fileHash := sha256Hex(data)
	contentHash := fileHash
	if extractedText != "" {
		contentHash = sha256Hex([]byte(extractedText))
	}

	meta.FileSize = int64(len(data))

	envelope, err := s.envelope.Encrypt(ctx, data, meta)
	if err != nil {
		return nil, nil, err
	}

	record, err := s.chain.CreateHashRecord(ctx, documentID, fileHash, contentHash, meta)
	if err != nil {
		return nil, nil, err
	}

	s.cache.Invalidate(documentID)

	log.Info().
		Str("func", "integrityService.StoreDocument").
		Str("document_id", documentID).
		Str("blob_name", envelope.BlobName).
		Str("hash_id", record.HashID).
		Msg("document stored and recorded")

	return envelope, record, nil
}

// RetrieveDocument implements [IntegrityService].
func (s *integrityService) RetrieveDocument(ctx context.Context, blobName string) ([]byte, models.BlobAttributes, error) {
	return s.envelope.Decrypt(ctx, blobName)
}

// RecordHash implements [IntegrityService].
func (s *integrityService) RecordHash(ctx context.Context, documentID, fileHash, contentHash string, meta models.DocumentMeta) (*models.HashRecord, error) {
	record, err := s.chain.CreateHashRecord(ctx, documentID, fileHash, contentHash, meta)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(documentID)

	return record, nil
}

// Verify implements [IntegrityService]. Order matters: the throttle gate is
// consulted before anything else, so a caller cannot hammer the ledger for a
// single document. A throttled request may still be answered from the cache;
// it is only the ledger read that the gate protects.
func (s *integrityService) Verify(ctx context.Context, documentID string, content []byte) (models.VerificationResult, error) {
	log := logger.FromContext(ctx)

	if documentID == "" {
		return models.VerificationResult{}, fmt.Errorf("%w: document ID is required", ErrInvalidDocument)
	}

	actualHash := sha256Hex(content)

	if s.cache.IsThrottled(documentID) {
		if cached, ok := s.cache.Get(documentID, actualHash); ok {
			log.Debug().
				Str("func", "integrityService.Verify").
				Str("document_id", documentID).
				Msg("throttled request served from cache")
			return cached, nil
		}
		return models.VerificationResult{
			Status:     models.StatusThrottled,
			ActualHash: actualHash,
			Algorithm:  hashAlgorithm,
			Throttled:  true,
			Message:    "verification requests for this document are rate limited",
		}, nil
	}

	if cached, ok := s.cache.Get(documentID, actualHash); ok {
		log.Debug().
			Str("func", "integrityService.Verify").
			Str("document_id", documentID).
			Msg("verification served from cache")
		return cached, nil
	}

	record, err := s.ledger.LatestHashRecordByDocument(ctx, documentID)
	if err != nil {
		if errors.Is(err, store.ErrHashRecordNotFound) {
			result := models.VerificationResult{
				Status:     models.StatusNotFound,
				ActualHash: actualHash,
				Algorithm:  hashAlgorithm,
				Message:    "no hash record exists for this document",
			}
			s.cache.Set(documentID, result, actualHash)
			return result, nil
		}

		// infrastructure failure: reported as data, never cached
		log.Err(err).
			Str("func", "integrityService.Verify").
			Str("document_id", documentID).
			Msg("failed to read hash record")
		return models.VerificationResult{
			Status:     models.StatusError,
			ActualHash: actualHash,
			Algorithm:  hashAlgorithm,
			Message:    "ledger is unavailable",
		}, nil
	}

	// The presented bytes are checked against the recorded file hash: that is
	// the digest of what was originally uploaded. The content hash covers the
	// extracted text layer and is compared only by text-level tooling.
	result := models.VerificationResult{
		Status:           models.StatusTampered,
		HashID:           record.HashID,
		ExpectedHash:     record.FileHash,
		ActualHash:       actualHash,
		SignaturePresent: len(record.Signature) > 0,
		Algorithm:        hashAlgorithm,
		Message:          "document hash does not match the recorded file hash",
	}
	if record.FileHash == actualHash {
		result.Verified = true
		result.Status = models.StatusVerified
		result.Message = ""
	}

	s.cache.Set(documentID, result, actualHash)

	log.Info().
		Str("func", "integrityService.Verify").
		Str("document_id", documentID).
		Str("status", string(result.Status)).
		Msg("document verified against ledger")

	return result, nil
}

// AuditTrail implements [IntegrityService].
func (s *integrityService) AuditTrail(ctx context.Context, documentID string, userID string, limit uint64) (*models.AuditTrail, error) {
	log := logger.FromContext(ctx)

	if documentID == "" {
		return nil, fmt.Errorf("%w: document ID is required", ErrInvalidDocument)
	}

	records, err := s.ledger.HashRecordsByDocument(ctx, documentID, userID, limit)
	if err != nil {
		log.Err(err).
			Str("func", "integrityService.AuditTrail").
			Str("document_id", documentID).
			Msg("failed to read hash records")
		return nil, fmt.Errorf("%w: %w", ErrLedgerReadFailed, err)
	}

	blocks, err := s.ledger.LatestChainBlocks(ctx, auditChainTail)
	if err != nil {
		log.Err(err).
			Str("func", "integrityService.AuditTrail").
			Str("document_id", documentID).
			Msg("failed to read chain blocks")
		return nil, fmt.Errorf("%w: %w", ErrLedgerReadFailed, err)
	}

	trail := &models.AuditTrail{
		DocumentID:   documentID,
		HashRecords:  make([]models.AuditHashEntry, 0, len(records)),
		ChainBlocks:  make([]models.AuditChainEntry, 0, len(blocks)),
		TotalRecords: len(records),
	}

	for _, record := range records {
		trail.HashRecords = append(trail.HashRecords, models.AuditHashEntry{
			HashID:             record.HashID,
			FileHash:           record.FileHash,
			ContentHash:        record.ContentHash,
			Timestamp:          record.Timestamp,
			VerificationStatus: record.VerificationStatus,
			HasSignature:       len(record.Signature) > 0,
		})
	}

	for _, block := range blocks {
		trail.ChainBlocks = append(trail.ChainBlocks, models.AuditChainEntry{
			ChainID:     block.ChainID,
			BlockNumber: block.BlockNumber,
			BlockHash:   block.CurrentHash,
			Timestamp:   block.Timestamp,
		})
	}

	return trail, nil
}

// VerifyChain implements [IntegrityService].
func (s *integrityService) VerifyChain(ctx context.Context) (*models.ChainCheck, error) {
	return s.chain.VerifyChain(ctx)
}

// CacheStats implements [IntegrityService].
func (s *integrityService) CacheStats() cache.Stats {
	return s.cache.GetStats()
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
