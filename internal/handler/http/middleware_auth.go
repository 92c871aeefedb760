package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MKhiriev/go-doc-ledger/internal/logger"
	"github.com/MKhiriev/go-doc-ledger/internal/utils"
)

// auth is an HTTP middleware that enforces JWT-based authentication.
//
// It inspects the incoming "Authorization" header, extracts the bearer token,
// validates it against the configured sign key and issuer, and — on success —
// stores the authenticated caller's ID in the request context under
// [utils.UserIDCtxKey] before delegating to the next handler.
//
// The middleware rejects requests with HTTP 401 Unauthorized in the following cases:
//   - The "Authorization" header is absent ([ErrEmptyAuthorizationHeader]).
//   - The header value cannot be parsed as a bearer token
//     ([ErrInvalidAuthorizationHeader] or [ErrEmptyToken]).
//   - The token has expired or is otherwise invalid.
//
// All rejection events are logged using the context-scoped logger obtained
// via [logger.FromRequest].
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			http.Error(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			log.Err(err).Send()
			http.Error(w, ErrInvalidAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		token, err := utils.ValidateAndParseJWTToken(tokenString, h.app.TokenSignKey, h.app.TokenIssuer)
		if err != nil {
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				log.Err(err).Msg("token expired")
				http.Error(w, "token is expired", http.StatusUnauthorized)
				return
			default:
				log.Err(err).Msg("error occurred during parsing token")
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
		}

		// Store the authenticated caller's ID in the context so that
		// downstream handlers can retrieve it without re-parsing the token.
		ctx := context.WithValue(r.Context(), utils.UserIDCtxKey, token.UserID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
