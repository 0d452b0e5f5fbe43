package http

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/medgate/internal/auth/domain"
	authService "github.com/allisson/medgate/internal/auth/service"
	apperrors "github.com/allisson/medgate/internal/errors"
	"github.com/allisson/medgate/internal/httputil"
)

// Authenticator resolves a session token hash to an authenticated user.
// Satisfied by the access gateway, which records failed attempts in the
// audit log before returning the error.
type Authenticator interface {
	Authenticate(ctx context.Context, tokenHash string) (*authDomain.User, error)
}

// AuthenticationMiddleware provides authentication via Bearer token in the
// Authorization header.
//
// The middleware:
// 1. Extracts the Bearer token from the Authorization header (case-insensitive)
// 2. Hashes the token using tokenService.HashToken()
// 3. Resolves the hash to a user via the Authenticator
// 4. Stores the user and token hash in the request context for handlers
//
// Error handling:
//   - Missing or malformed Authorization header → 401 Unauthorized
//   - Invalid/expired/revoked session → 401 Unauthorized
//   - Inactive user → 403 Forbidden
func AuthenticationMiddleware(
	authenticator Authenticator,
	tokenService authService.TokenService,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		// Parse Bearer token (case-insensitive)
		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		plainToken := authHeader[len(bearerPrefix):]
		if plainToken == "" {
			logger.Debug("authentication failed: empty bearer token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		tokenHash := tokenService.HashToken(plainToken)

		user, err := authenticator.Authenticate(c.Request.Context(), tokenHash)
		if err != nil {
			logger.Debug("authentication failed",
				slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		ctx := WithUser(c.Request.Context(), user)
		ctx = WithTokenHash(ctx, tokenHash)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authentication successful",
			slog.String("user_id", user.ID.String()),
			slog.String("role", string(user.Role)))

		c.Next()
	}
}
