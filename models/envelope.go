// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// EncryptedWithEnvelope is the attribute tag marking a blob as produced by
// envelope encryption. Blobs without the tag are treated as legacy payloads
// that were encrypted directly by the key service.
const EncryptedWithEnvelope = "envelope-encryption-v1"

// BlobAttributes is the metadata persisted next to an encrypted blob.
// It carries everything needed to later unwrap the data key and decrypt
// the payload, plus descriptive fields for audit display.
type BlobAttributes struct {
	// OriginalFilename is the file name supplied at upload time.
	OriginalFilename string `json:"original_filename"`

	// MimeType is the declared content type of the original document.
	MimeType string `json:"mime_type"`

	// UserID is the user who uploaded the document.
	UserID string `json:"user_id"`

	// EncryptedWith tags the encoding of the blob. Envelope-encrypted blobs
	// carry [EncryptedWithEnvelope]; its absence selects the legacy path.
	EncryptedWith string `json:"encrypted_with,omitempty"`

	// KeyRef references the key-service key that wrapped the data key.
	KeyRef string `json:"key_ref"`

	// WrappedKey is the base64 (standard encoding) of the wrapped data key.
	WrappedKey string `json:"wrapped_key,omitempty"`

	// OriginalSize is the plaintext size in bytes.
	OriginalSize int64 `json:"original_size"`

	// EncryptedSize is the ciphertext size in bytes.
	EncryptedSize int64 `json:"encrypted_size"`
}

// EnvelopeMetadata is returned to the caller after a successful encrypt-and-
// store operation. It is a persistable receipt: the caller keeps it alongside
// its own document metadata, the service itself stores nothing beyond the
// blob and its attributes.
type EnvelopeMetadata struct {
	// BlobName is the name under which the ciphertext was stored.
	BlobName string `json:"blob_name"`

	// KeyRef references the key-service key that wrapped the data key.
	KeyRef string `json:"key_ref"`

	// WrappedKey is the base64 of the wrapped data key.
	WrappedKey string `json:"wrapped_key"`

	// Algorithm tags the bulk cipher + wrap scheme used.
	Algorithm string `json:"algorithm"`

	// OriginalSize and EncryptedSize mirror the blob attributes.
	OriginalSize  int64 `json:"original_size"`
	EncryptedSize int64 `json:"encrypted_size"`
}

// DocumentMeta is the typed upload metadata passed from the transport layer
// into the integrity service. Free-form extension data goes into Extra and is
// persisted as JSON on the hash record; everything with known semantics has a
// named field.
type DocumentMeta struct {
	// FileName is the original file name of the uploaded document.
	FileName string `json:"file_name"`

	// MimeType is the declared content type.
	MimeType string `json:"mime_type"`

	// UserID is the uploading user.
	UserID string `json:"user_id"`

	// FileSize is the size of the raw document in bytes, when known.
	FileSize int64 `json:"file_size,omitempty"`

	// Extra holds open-ended extension metadata.
	Extra map[string]string `json:"extra,omitempty"`
}
