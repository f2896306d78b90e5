package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/atlaspay/go-dbpool/db/dbexec"
	"github.com/atlaspay/go-dbpool/logger"
)

// QueryCache is an optional read-through JSON cache in front of executor
// reads. Callers opt in per call site via Many/One; the executor itself
// never caches. Cache failures degrade to a plain query.
type QueryCache struct {
	client goredis.UniversalClient
	prefix string
	ttl    time.Duration
	log    logger.Interface
}

type CacheOption func(*QueryCache)

func WithCacheLogger(l logger.Interface) CacheOption {
	return func(c *QueryCache) { c.log = l }
}

func NewQueryCache(client goredis.UniversalClient, prefix string, ttl time.Duration, options ...CacheOption) *QueryCache {
	c := &QueryCache{client: client, prefix: prefix, ttl: ttl, log: logger.Nop()}
	for _, o := range options {
		o(c)
	}
	return c
}

// Key derives a cache key from the statement and its bound arguments.
func (c *QueryCache) Key(query string, args []any) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%v", query, args))
	return c.prefix + ":" + hex.EncodeToString(sum[:16])
}

// Invalidate drops one cached entry, for callers that just mutated the
// rows behind it.
func (c *QueryCache) Invalidate(ctx context.Context, query string, args []any) error {
	return c.client.Del(ctx, c.Key(query, args)).Err()
}

// Many is dbexec.QueryMany behind the cache: decode on hit, query and
// store on miss.
func Many[T any](ctx context.Context, c *QueryCache, e *dbexec.Executor, query string, mapper dbexec.RowMapper[T], params ...dbexec.Param) ([]T, error) {
	key := c.Key(query, dbexec.Args(params...))

	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var out []T
		if jerr := json.Unmarshal(data, &out); jerr == nil {
			return out, nil
		}
		// unreadable entry: fall through to the database
	}

	out, err := dbexec.QueryMany(ctx, e, query, mapper, params...)
	if err != nil {
		return nil, err
	}

	if data, jerr := json.Marshal(out); jerr == nil {
		if serr := c.client.Set(ctx, key, data, c.ttl).Err(); serr != nil {
			c.log.Warnw("query cache set failed", "error", serr)
		}
	}
	return out, nil
}

// One is dbexec.QueryOne behind the cache. Only found rows are cached;
// a no-row result always goes back to the database.
func One[T any](ctx context.Context, c *QueryCache, e *dbexec.Executor, query string, mapper dbexec.RowMapper[T], params ...dbexec.Param) (T, bool, error) {
	key := c.Key(query, dbexec.Args(params...))

	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var out T
		if jerr := json.Unmarshal(data, &out); jerr == nil {
			return out, true, nil
		}
	}

	out, found, err := dbexec.QueryOne(ctx, e, query, mapper, params...)
	if err != nil || !found {
		return out, found, err
	}

	if data, jerr := json.Marshal(out); jerr == nil {
		if serr := c.client.Set(ctx, key, data, c.ttl).Err(); serr != nil {
			c.log.Warnw("query cache set failed", "error", serr)
		}
	}
	return out, true, nil
}
