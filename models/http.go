package models

// UploadDocumentRequest is the JSON body of POST /api/documents. Content is
// base64-encoded on the wire (standard encoding/json []byte handling).
type UploadDocumentRequest struct {
	// DocumentID identifies the document being uploaded.
	DocumentID string `json:"document_id"`

	// Content is the raw document bytes.
	Content []byte `json:"content"`

	// ExtractedText is the text layer of the document, when the caller has
	// one. Empty means the content hash falls back to the file hash.
	ExtractedText string `json:"extracted_text,omitempty"`

	// FileName and MimeType describe the original file.
	FileName string `json:"file_name,omitempty"`
	MimeType string `json:"mime_type,omitempty"`

	// Metadata is open-ended extension metadata stored on the hash record.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// UploadDocumentResponse is the JSON body returned after a successful upload.
type UploadDocumentResponse struct {
	Envelope *EnvelopeMetadata `json:"envelope"`
	Record   *HashRecord       `json:"record"`
}

// RetrieveDocumentResponse is the JSON body of GET /api/documents/{blobName}.
type RetrieveDocumentResponse struct {
	Content  []byte `json:"content"`
	FileName string `json:"file_name,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
}

// RecordHashRequest is the JSON body of POST /api/hashes, for callers that
// store the document elsewhere and only anchor its hashes in the ledger.
type RecordHashRequest struct {
	DocumentID  string            `json:"document_id"`
	FileHash    string            `json:"file_hash"`
	ContentHash string            `json:"content_hash"`
	MimeType    string            `json:"mime_type,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// VerifyDocumentRequest is the JSON body of
// POST /api/documents/{documentID}/verify.
type VerifyDocumentRequest struct {
	// Content is the bytes to check against the latest recorded hash,
	// usually the document's extracted text.
	Content []byte `json:"content"`
}
