// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// VerificationStatus enumerates the outcomes a hash record or verification
// request can carry. The values are stored verbatim in the database and
// returned verbatim over the API, so they must never be renamed.
type VerificationStatus string

const (
	// StatusVerified means the current content hash matches the recorded one.
	StatusVerified VerificationStatus = "VERIFIED"

	// StatusTampered means a hash record exists but the current content hash
	// differs from the recorded one.
	StatusTampered VerificationStatus = "TAMPERED"

	// StatusNotFound means no hash record exists for the document.
	StatusNotFound VerificationStatus = "NOT_FOUND"

	// StatusThrottled means the verification request was rejected by the
	// throttle gate and no ledger read was performed.
	StatusThrottled VerificationStatus = "THROTTLED"

	// StatusError means the ledger could not be read. Error results are
	// returned as data, never cached.
	StatusError VerificationStatus = "ERROR"
)

// HashRecord is one immutable ledger entry binding a document to the SHA-256
// hashes of its raw bytes and of its extracted text at upload time.
//
// A document may accumulate several hash records over its lifetime
// (re-uploads); the record with the latest Timestamp is the authoritative one
// for verification. Records are inserted once and never mutated.
type HashRecord struct {
	// HashID is the unique identifier of this record (UUID).
	HashID string `json:"hash_id"`

	// DocumentID identifies the document this record belongs to.
	DocumentID string `json:"document_id"`

	// FileHash is the lowercase hex SHA-256 of the raw document bytes.
	FileHash string `json:"file_hash"`

	// ContentHash is the lowercase hex SHA-256 of the extracted text (UTF-8).
	ContentHash string `json:"content_hash"`

	// KeyVersion references the signing key version used to produce Signature.
	KeyVersion string `json:"key_version"`

	// Signature is the asymmetric signature over
	// SHA-256(FileHash + ":" + ContentHash + ":" + DocumentID).
	Signature []byte `json:"signature"`

	// Timestamp is the record creation instant (UTC).
	Timestamp time.Time `json:"timestamp"`

	// UserID is the user who uploaded the document.
	UserID string `json:"user_id"`

	// FileSize is the size of the raw document in bytes.
	FileSize int64 `json:"file_size"`

	// MimeType is the declared content type of the document.
	MimeType string `json:"mime_type"`

	// Metadata holds the open-ended upload metadata serialized as JSON.
	// Typed fields live in [DocumentMeta]; only truly free-form extension
	// data ends up here.
	Metadata string `json:"metadata,omitempty"`

	// VerificationStatus is always [StatusVerified] at creation time.
	VerificationStatus VerificationStatus `json:"verification_status"`
}
