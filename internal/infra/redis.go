package infra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis abre o cliente a partir da URL de conexão (redis://...). A fila de
// jobs e o cache do dashboard dependem dele, então a conexão é verificada já
// no boot em vez de falhar só no primeiro uso.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}
