package middleware

import (
	"net/http"
	"strings"

	"whats-poppin/internal/data/entity"
	"whats-poppin/internal/data/repository"
	"whats-poppin/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FailFunc writes an auth failure in the caller's preferred response shape.
type FailFunc func(w http.ResponseWriter, code int, message string)

func envelopeFail(w http.ResponseWriter, code int, message string) {
	utils.ResponseJSON(w, code, false, message, nil, nil)
}

// AuthSession validates the bearer access token and its backing session and
// stores the caller's Identity on the request context.
func AuthSession(sessionRepo repository.SessionRepository, secret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return AuthSessionWith(sessionRepo, secret, logger, envelopeFail)
}

// AuthSessionWith is AuthSession with a custom failure writer.
func AuthSessionWith(sessionRepo repository.SessionRepository, secret string, logger *zap.Logger, fail FailFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				fail(w, http.StatusUnauthorized, "Missing authorization token")
				return
			}

			raw, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				fail(w, http.StatusUnauthorized, "Invalid token format. Use: Bearer <token>")
				return
			}

			claims, err := utils.ParseAccessToken(secret, strings.TrimSpace(raw))
			if err != nil {
				logger.Warn("Rejected access token", zap.Error(err))
				fail(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				fail(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			session, err := sessionRepo.FindValidSession(r.Context(), claims.ID)
			if err != nil {
				logger.Error("Failed to validate session",
					zap.String("session", claims.ID),
					zap.Error(err))
				fail(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			if session == nil || session.UserID != userID {
				logger.Warn("Invalid or revoked session", zap.String("session", claims.ID))
				fail(w, http.StatusUnauthorized, "Invalid or expired session")
				return
			}

			ctx := utils.SetIdentity(r.Context(), utils.Identity{
				UserID: userID,
				Email:  claims.Email,
				Role:   claims.Role,
			})
			ctx = utils.SetTokenContext(ctx, claims.ID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Admin rejects callers whose stored role is not admin. Must run after AuthSession.
func Admin(userRepo repository.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := utils.GetIdentityFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			user, err := userRepo.FindByID(r.Context(), identity.UserID)
			if err != nil {
				logger.Error("Admin check: failed to get user",
					zap.Error(err), zap.String("user_id", identity.UserID.String()))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			if user == nil || user.Role != entity.RoleAdmin {
				logger.Warn("Admin check: non-admin access attempt",
					zap.String("user_id", identity.UserID.String()),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
