package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health responde às probes de deploy: 200 com o estado de cada dependência,
// 503 assim que Postgres ou Redis deixam de responder.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		banco := "ok"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			banco = "indisponivel"
		}

		fila := "ok"
		if rdb.Ping(ctx).Err() != nil {
			fila = "indisponivel"
		}

		code := http.StatusOK
		estado := "ok"
		if banco != "ok" || fila != "ok" {
			code = http.StatusServiceUnavailable
			estado = "degradado"
		}

		c.JSON(code, gin.H{
			"status": estado,
			"banco":  banco,
			"redis":  fila,
		})
	}
}
