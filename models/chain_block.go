// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// ChainBlock is one link of the append-only hash chain. Blocks are inserted
// by a single writer, never mutated, never deleted.
//
// Invariants:
//   - BlockNumber is 0-based, strictly increasing and gapless.
//   - BlockNumber == 0 implies PreviousHash == "" (genesis).
//   - BlockNumber == n > 0 implies PreviousHash equals the CurrentHash of
//     block n-1.
//   - CurrentHash is reproducible from the stored fields:
//     SHA256("{BlockNumber}:{PreviousHash}:{MerkleRoot}").
type ChainBlock struct {
	// ChainID is the unique identifier of this block (UUID).
	ChainID string `json:"chain_id"`

	// BlockNumber is the position of the block in the chain, starting at 0.
	BlockNumber int64 `json:"block_number"`

	// PreviousHash is the CurrentHash of the predecessor block, or the empty
	// string for the genesis block. Stored as NULL in the database for genesis.
	PreviousHash string `json:"previous_hash"`

	// CurrentHash is the lowercase hex SHA-256 of the block framing string
	// "{BlockNumber}:{PreviousHash}:{MerkleRoot}".
	CurrentHash string `json:"current_hash"`

	// DocumentHashes lists the hash-record IDs aggregated into this block,
	// in insertion order. The order is part of the MerkleRoot contract.
	DocumentHashes []string `json:"document_hashes"`

	// MerkleRoot is the simplified aggregate hash of the member records:
	// SHA256 of the plain concatenation of DocumentHashes. Deliberately not
	// a tree; historical blocks were produced with this framing and must
	// remain verifiable.
	MerkleRoot string `json:"merkle_root"`

	// Signature is the asymmetric signature over SHA-256(CurrentHash).
	Signature []byte `json:"signature"`

	// Timestamp is the block creation instant (UTC).
	Timestamp time.Time `json:"timestamp"`
}
