package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-doc-ledger/internal/service"
	"github.com/MKhiriev/go-doc-ledger/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDocument: http.StatusBadRequest,

	service.ErrEncryptFailed:     http.StatusInternalServerError,
	service.ErrDecryptFailed:     http.StatusInternalServerError,
	service.ErrLedgerWriteFailed: http.StatusInternalServerError,
	service.ErrLedgerReadFailed:  http.StatusInternalServerError,

	store.ErrHashRecordNotFound: http.StatusNotFound,
	store.ErrBlobNotFound:       http.StatusNotFound,
	store.ErrChainEmpty:         http.StatusNotFound,

	store.ErrBlobWrite:        http.StatusInternalServerError,
	store.ErrBlobRead:         http.StatusInternalServerError,
	store.ErrBuildingSQLQuery: http.StatusInternalServerError,
	store.ErrExecutingQuery:   http.StatusInternalServerError,
	store.ErrScanningRow:      http.StatusInternalServerError,
	store.ErrScanningRows:     http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
