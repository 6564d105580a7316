package rediscache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/sakhihealth/sakhi-backend/internal/platform/envutil"
	"github.com/sakhihealth/sakhi-backend/internal/platform/logger"
)

// EmbeddingCache keeps query embeddings across requests so repeated retrieval
// queries (the template/guideline queries barely vary per user) skip the
// embedding call. All methods are nil-safe; a nil cache is simply a miss.
type EmbeddingCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// New returns (nil, nil) when REDIS_ADDR is unset; callers treat a nil
// cache as disabled.
func New(log *logger.Logger) (*EmbeddingCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	ttl := time.Duration(envutil.Int("EMBEDDING_CACHE_TTL_SECONDS", 6*3600)) * time.Second

	return &EmbeddingCache{
		log: log.With("service", "EmbeddingCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func (c *EmbeddingCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func (c *EmbeddingCache) Get(ctx context.Context, query string) ([]float32, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, embeddingKey(query)).Bytes()
	if err != nil {
		return nil, false
	}
	var vec []float32
	if err := json.Unmarshal(raw, &vec); err != nil || len(vec) == 0 {
		return nil, false
	}
	return vec, true
}

func (c *EmbeddingCache) Set(ctx context.Context, query string, vec []float32) {
	if c == nil || c.rdb == nil || len(vec) == 0 {
		return
	}
	raw, err := json.Marshal(vec)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, embeddingKey(query), raw, c.ttl).Err(); err != nil {
		c.log.Debug("embedding cache set failed", "error", err)
	}
}

func embeddingKey(query string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(strings.ToLower(query))))
	return "emb:" + hex.EncodeToString(sum[:16])
}
