package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/restops/backend/internal/domain/shared"
	"github.com/restops/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader carries the client-chosen key that makes a mutating
// request safe to retry.
const IdempotencyKeyHeader = "X-Idempotency-Key"

const maxIdempotencyKeyLength = 128

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	// Store remembers processed keys
	Store shared.IdempotencyStore
	// TTL bounds how long a processed key is remembered
	TTL time.Duration
	// Logger for middleware logging
	Logger *zap.Logger
}

// Idempotency rejects a mutating request whose idempotency key was already
// processed. The key is claimed before the handler runs: of two concurrent
// retries carrying the same key, exactly one reaches the handler. Requests
// without the header pass through unguarded; clients opt in per request.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.ErrCodeBadRequest, "Idempotency key is too long"))
			return
		}

		ctx := c.Request.Context()
		firstUse, err := cfg.Store.MarkProcessed(ctx, key, cfg.TTL)
		if err != nil {
			// Fail open: losing replay protection is better than refusing
			// every shift close while the store is down.
			if cfg.Logger != nil {
				cfg.Logger.Error("Failed to claim idempotency key",
					zap.String("key", key),
					zap.Error(err))
			}
			c.Next()
			return
		}
		if !firstUse {
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponse(
				dto.ErrCodeAlreadyExists, "Request with this idempotency key was already processed"))
			return
		}

		c.Next()
	}
}
