package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports liveness of the service and its two backing stores. Each
// dependency gets its own up/down flag so an operator can tell which one is
// failing; no addresses or error text leak into the response.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbUp := false
		if sqlDB, err := db.DB(); err == nil {
			dbUp = sqlDB.PingContext(ctx) == nil
		}
		redisUp := rdb.Ping(ctx).Err() == nil

		code, status := http.StatusOK, "up"
		if !dbUp || !redisUp {
			code, status = http.StatusServiceUnavailable, "degraded"
		}

		c.JSON(code, gin.H{
			"service":  "pharmatrack",
			"status":   status,
			"postgres": dbUp,
			"redis":    redisUp,
		})
	}
}
