package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-movements/internal/application/inventory"
	"github.com/jhoicas/stock-movements/internal/domain/entity"
)

var (
	_ inventory.CatalogProvider    = (*CatalogCache)(nil)
	_ inventory.CatalogInvalidator = (*CatalogCache)(nil)
)

const (
	defaultKey    = "stock:catalog:snapshot"
	generationKey = "stock:catalog:generation"
)

// RedisConfig configuración de conexión a Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient crea el cliente y verifica la conexión.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

// store es lo que la caché necesita de Redis. get devuelve errMiss si la clave no existe.
type store interface {
	get(ctx context.Context, key string) ([]byte, error)
	set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	incr(ctx context.Context, key string) (int64, error)
}

var errMiss = errors.New("cache miss")

type redisStore struct {
	client redis.Cmdable
}

func (s redisStore) get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errMiss
	}
	return b, err
}

func (s redisStore) set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s redisStore) incr(ctx context.Context, key string) (int64, error) {
	return s.client.Incr(ctx, key).Result()
}

// CatalogCache guarda la foto de catálogo en Redis con TTL (read-through).
// Si Redis falla se lee directo de la fuente: la caché nunca bloquea una validación.
// La clave lleva la generación vigente; Invalidate la incrementa, así una lectura que cargó
// la foto antes del envío la guarda bajo la generación vieja y nadie vuelve a leerla.
type CatalogCache struct {
	source inventory.CatalogProvider
	store  store
	key    string
	ttl    time.Duration
	log    zerolog.Logger
}

// NewCatalogCache envuelve source con una caché en Redis.
func NewCatalogCache(source inventory.CatalogProvider, client redis.Cmdable, ttl time.Duration, log zerolog.Logger) *CatalogCache {
	return newCatalogCache(source, redisStore{client: client}, ttl, log)
}

func newCatalogCache(source inventory.CatalogProvider, s store, ttl time.Duration, log zerolog.Logger) *CatalogCache {
	return &CatalogCache{
		source: source,
		store:  s,
		key:    defaultKey,
		ttl:    ttl,
		log:    log.With().Str("component", "catalog_cache").Logger(),
	}
}

// Snapshot devuelve la foto cacheada o la carga de la fuente y la guarda.
func (c *CatalogCache) Snapshot(ctx context.Context) (*entity.CatalogSnapshot, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("redis generation read failed")
		return c.source.Snapshot(ctx)
	}
	key := c.snapshotKey(gen)

	raw, err := c.store.get(ctx, key)
	switch {
	case err == nil:
		var snap entity.CatalogSnapshot
		if err := json.Unmarshal(raw, &snap); err == nil {
			return &snap, nil
		}
		c.log.Warn().Msg("cached snapshot is corrupt, reloading")
	case !errors.Is(err, errMiss):
		c.log.Warn().Err(err).Msg("redis get failed")
	}

	snap, err := c.source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(snap); err == nil {
		if err := c.store.set(ctx, key, raw, c.ttl); err != nil {
			c.log.Warn().Err(err).Msg("redis set failed")
		}
	}
	return snap, nil
}

// Invalidate pasa a la generación siguiente; la siguiente lectura va a la fuente.
// Las fotos de generaciones anteriores vencen por TTL.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	if _, err := c.store.incr(ctx, generationKey); err != nil {
		return fmt.Errorf("invalidate catalog cache: %w", err)
	}
	return nil
}

// generation lee el contador de generación; sin contador es la 0.
func (c *CatalogCache) generation(ctx context.Context) (int64, error) {
	raw, err := c.store.get(ctx, generationKey)
	if errors.Is(err, errMiss) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	gen, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse catalog generation: %w", err)
	}
	return gen, nil
}

func (c *CatalogCache) snapshotKey(gen int64) string {
	return c.key + ":" + strconv.FormatInt(gen, 10)
}
