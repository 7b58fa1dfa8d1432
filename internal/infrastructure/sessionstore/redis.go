package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gestrack/gestrack-web/internal/domain"
)

const redisKeyPrefix = "gestrack:session:"

// RedisStore persiste las sesiones en redis, para despliegues con más de una
// instancia del gateway. ttl=0 significa sin expiración (la expiración real
// del token la gobierna el backend).
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore construye el store y verifica la conexión.
func NewRedisStore(ctx context.Context, addr string, db int, ttl time.Duration) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageDegraded, err)
	}
	return &RedisStore{rdb: rdb, ttl: ttl}, nil
}

// Get devuelve el registro o (nil, nil) si no existe. Un valor que no
// decodifica se trata como sesión inexistente.
func (s *RedisStore) Get(ctx context.Context, sid string) (*Record, error) {
	raw, err := s.rdb.Get(ctx, redisKeyPrefix+sid).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, nil
	}
	return &rec, nil
}

// Put guarda el registro con el TTL configurado.
func (s *RedisStore) Put(ctx context.Context, sid string, rec Record) error {
	buf, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, redisKeyPrefix+sid, buf, s.ttl).Err()
}

// Delete elimina la sesión.
func (s *RedisStore) Delete(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, redisKeyPrefix+sid).Err()
}
