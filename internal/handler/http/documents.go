package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-doc-ledger/internal/logger"
	"github.com/MKhiriev/go-doc-ledger/internal/utils"
	"github.com/MKhiriev/go-doc-ledger/models"
)

func (h *Handler) uploadDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.UploadDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.uploadDocument").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	meta := models.DocumentMeta{
		FileName: req.FileName,
		MimeType: req.MimeType,
		Extra:    req.Metadata,
	}
	if userID, ok := utils.GetUserIDFromContext(ctx); ok {
		meta.UserID = userID
	}

	envelope, record, err := h.services.Integrity.StoreDocument(ctx, req.DocumentID, req.Content, req.ExtractedText, meta)
	if err != nil {
		log.Err(err).Str("func", "*Handler.uploadDocument").Msg("error storing document")
		http.Error(w, "error storing document", statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.UploadDocumentResponse{Envelope: envelope, Record: record}, http.StatusCreated)
}

func (h *Handler) retrieveDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	blobName := chi.URLParam(r, "blobName")
	if blobName == "" {
		http.Error(w, "blob name is required", http.StatusBadRequest)
		return
	}

	content, attrs, err := h.services.Integrity.RetrieveDocument(ctx, blobName)
	if err != nil {
		log.Err(err).Str("func", "*Handler.retrieveDocument").Str("blob_name", blobName).Msg("error retrieving document")
		http.Error(w, "error retrieving document", statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.RetrieveDocumentResponse{
		Content:  content,
		FileName: attrs.OriginalFilename,
		MimeType: attrs.MimeType,
	}, http.StatusOK)
}

func (h *Handler) recordHash(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.RecordHashRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.recordHash").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	meta := models.DocumentMeta{
		MimeType: req.MimeType,
		Extra:    req.Metadata,
	}
	if userID, ok := utils.GetUserIDFromContext(ctx); ok {
		meta.UserID = userID
	}

	record, err := h.services.Integrity.RecordHash(ctx, req.DocumentID, req.FileHash, req.ContentHash, meta)
	if err != nil {
		log.Err(err).Str("func", "*Handler.recordHash").Str("document_id", req.DocumentID).Msg("error recording hash")
		http.Error(w, "error recording hash", statusFromError(err))
		return
	}

	utils.WriteJSON(w, record, http.StatusCreated)
}
