package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(middleware.Compress(5, "application/json"))

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/api/version", h.getServerVersion)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/api/documents", h.uploadDocument)
		r.Get("/api/documents/{blobName}", h.retrieveDocument)

		r.Post("/api/hashes", h.recordHash)
		r.Post("/api/documents/{documentID}/verify", h.verifyDocument)
		r.Get("/api/documents/{documentID}/audit", h.auditTrail)

		r.Get("/api/chain/verify", h.verifyChain)
		r.Get("/api/cache/stats", h.cacheStats)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
