// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// AuditHashEntry is the display form of a hash record inside an audit trail.
type AuditHashEntry struct {
	HashID             string             `json:"hash_id"`
	FileHash           string             `json:"file_hash"`
	ContentHash        string             `json:"content_hash"`
	Timestamp          time.Time          `json:"timestamp"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	HasSignature       bool               `json:"has_signature"`
}

// AuditChainEntry is the display form of a chain block inside an audit trail.
// The blocks are a global tail of the chain, not filtered by document: a
// document's hash may be linked into a block alongside other documents'.
type AuditChainEntry struct {
	ChainID     string    `json:"chain_id"`
	BlockNumber int64     `json:"block_number"`
	BlockHash   string    `json:"block_hash"`
	Timestamp   time.Time `json:"timestamp"`
}

// AuditTrail is a read-only snapshot of a document's ledger history: all of
// its hash records in ascending timestamp order plus the most recent chain
// blocks overall.
type AuditTrail struct {
	DocumentID   string            `json:"document_id"`
	HashRecords  []AuditHashEntry  `json:"hash_records"`
	ChainBlocks  []AuditChainEntry `json:"chain_blocks"`
	TotalRecords int               `json:"total_records"`
}
