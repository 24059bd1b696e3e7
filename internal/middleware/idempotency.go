package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	idempotencyLockTTL  = 30 * time.Second
	idempotencyCacheTTL = 24 * time.Hour

	ctxIdempotencyCacheKey = "idempotency_cache_key"
	ctxIdempotencyLockKey  = "idempotency_lock_key"
)

type cachedResponse struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// Idempotency replays the first successful response for a repeated
// Idempotency-Key within the same company, user and route. The handler
// calls StoreIdempotentResponse on success and ReleaseIdempotencyLock always.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		cacheKey := fmt.Sprintf("idemp:%s:%s:%s:%s",
			c.GetString("company_id"), c.GetString("user_id_validated"), c.FullPath(), idempKey)
		lockKey := cacheKey + ":lock"
		ctx := c.Request.Context()

		val, err := rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var cached cachedResponse
			if err := json.Unmarshal([]byte(val), &cached); err != nil {
				zap.L().Warn("idempotency cache corrupt", zap.String("key", cacheKey), zap.Error(err))
			} else {
				c.Header("Idempotent-Replayed", "true")
				response.Success(c, cached.Status, cached.Data, nil)
				c.Abort()
				return
			}
		}

		// lock pendek supaya kalau server crash lock hilang sendiri
		isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			zap.L().Warn("idempotency lock unavailable", zap.String("key", lockKey), zap.Error(err))
			c.Next()
			return
		}

		if !isNew {
			response.Error(c, http.StatusConflict, "PROCESSING", "Permintaan yang sama sedang diproses, mohon tunggu sebentar.", nil)
			c.Abort()
			return
		}

		c.Set(ctxIdempotencyCacheKey, cacheKey)
		c.Set(ctxIdempotencyLockKey, lockKey)

		c.Next()
	}
}

func StoreIdempotentResponse(c *gin.Context, rdb *redis.Client, status int, data any) {
	cacheKey := c.GetString(ctxIdempotencyCacheKey)
	if rdb == nil || cacheKey == "" {
		return
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	entry, err := json.Marshal(cachedResponse{Status: status, Data: payload})
	if err != nil {
		return
	}
	if err := rdb.Set(c.Request.Context(), cacheKey, entry, idempotencyCacheTTL).Err(); err != nil {
		zap.L().Warn("idempotency cache write failed", zap.String("key", cacheKey), zap.Error(err))
	}
}

func ReleaseIdempotencyLock(c *gin.Context, rdb *redis.Client) {
	lockKey := c.GetString(ctxIdempotencyLockKey)
	if rdb == nil || lockKey == "" {
		return
	}
	// request context mungkin sudah dibatalkan
	rdb.Del(context.WithoutCancel(c.Request.Context()), lockKey)
}
