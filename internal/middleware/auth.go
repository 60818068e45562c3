package middleware

import (
	"net/http"
	"strings"

	"github.com/josh-kwaku/rentbook/internal/auth"
	"github.com/josh-kwaku/rentbook/internal/handler"
	"github.com/josh-kwaku/rentbook/internal/logging"
)

// Auth requires a valid bearer token. The operator id is stored on the
// context and added to the request logger.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				handler.RespondAppError(w, handler.ErrMissingToken, nil)
				return
			}

			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				handler.RespondAppError(w, handler.ErrInvalidToken, nil)
				return
			}

			claims, err := auth.ValidateToken(token, secret)
			if err != nil {
				handler.RespondAppError(w, handler.ErrInvalidToken, nil)
				return
			}

			ctx := auth.ContextWithOperatorID(r.Context(), claims.OperatorID)
			ctx = logging.WithLogger(ctx, logging.FromContext(ctx).With("operator_id", claims.OperatorID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
