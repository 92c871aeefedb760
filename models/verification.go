// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// VerificationResult is the outcome of checking a document's current content
// against its most recent hash record. NOT_FOUND, TAMPERED and THROTTLED are
// expected, frequent outcomes and are therefore modelled as data rather than
// errors; only infrastructure failures surface as [StatusError].
type VerificationResult struct {
	// Verified is true only when Status is [StatusVerified].
	Verified bool `json:"verified"`

	// Status classifies the outcome.
	Status VerificationStatus `json:"status"`

	// HashID is the matched hash record, when one was found.
	HashID string `json:"hash_id,omitempty"`

	// ExpectedHash is the recorded file hash, when a record was found. For
	// NOT_FOUND results it is deliberately empty (omitted from JSON) rather
	// than a placeholder string: there is no recorded hash to report.
	ExpectedHash string `json:"expected_hash,omitempty"`

	// ActualHash is the SHA-256 of the content presented for verification.
	ActualHash string `json:"actual_hash,omitempty"`

	// SignaturePresent reports whether the matched record carries a signature.
	SignaturePresent bool `json:"signature_present,omitempty"`

	// Algorithm names the digest algorithm; always "SHA-256".
	Algorithm string `json:"algorithm"`

	// Throttled is true when the throttle gate rejected the request before
	// any ledger read.
	Throttled bool `json:"throttled,omitempty"`

	// Message carries a human-readable detail for non-verified outcomes.
	Message string `json:"message,omitempty"`
}

// ChainCheck is the result of walking the full hash chain and re-deriving
// every block hash. A zero CorruptBlock with Valid == true means the whole
// chain links and reproduces correctly.
type ChainCheck struct {
	// Valid is true when every block re-derives and links correctly.
	Valid bool `json:"valid"`

	// BlocksChecked is the number of blocks walked.
	BlocksChecked int `json:"blocks_checked"`

	// CorruptBlock is the block number of the first failure, when Valid is
	// false.
	CorruptBlock int64 `json:"corrupt_block,omitempty"`

	// Reason describes the first failure, when Valid is false.
	Reason string `json:"reason,omitempty"`
}
