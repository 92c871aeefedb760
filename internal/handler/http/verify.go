package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-doc-ledger/internal/logger"
	"github.com/MKhiriev/go-doc-ledger/internal/utils"
	"github.com/MKhiriev/go-doc-ledger/models"
)

func (h *Handler) verifyDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	documentID := chi.URLParam(r, "documentID")

	var req models.VerifyDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.verifyDocument").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	result, err := h.services.Integrity.Verify(ctx, documentID, req.Content)
	if err != nil {
		log.Err(err).Str("func", "*Handler.verifyDocument").Str("document_id", documentID).Msg("error verifying document")
		http.Error(w, "error verifying document", statusFromError(err))
		return
	}

	status := http.StatusOK
	if result.Status == models.StatusThrottled {
		status = http.StatusTooManyRequests
	}

	utils.WriteJSON(w, result, status)
}

func (h *Handler) auditTrail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	documentID := chi.URLParam(r, "documentID")
	userID := r.URL.Query().Get("user_id")

	var limit uint64
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		parsed, parseErr := strconv.ParseUint(rawLimit, 10, 64)
		if parseErr != nil {
			http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	trail, err := h.services.Integrity.AuditTrail(ctx, documentID, userID, limit)
	if err != nil {
		log.Err(err).Str("func", "*Handler.auditTrail").Str("document_id", documentID).Msg("error building audit trail")
		http.Error(w, "error building audit trail", statusFromError(err))
		return
	}

	utils.WriteJSON(w, trail, http.StatusOK)
}

func (h *Handler) verifyChain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	check, err := h.services.Integrity.VerifyChain(ctx)
	if err != nil {
		log.Err(err).Str("func", "*Handler.verifyChain").Msg("error verifying chain")
		http.Error(w, "error verifying chain", statusFromError(err))
		return
	}

	utils.WriteJSON(w, check, http.StatusOK)
}

func (h *Handler) cacheStats(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, h.services.Integrity.CacheStats(), http.StatusOK)
}
