package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	form "certform/internal/form/models"
	"certform/internal/template/models"
)

// CacheTTL bounds how long a template version may be served from Redis.
// Versions are immutable once published, so the TTL exists to bound memory,
// not to catch edits.
var CacheTTL = 30 * time.Minute

// Cached decorates a Store with a Redis read-through cache on exact-version
// lookups. Status-based lookups always hit the inner store since "latest
// active" can change under us. Cache failures degrade to the inner store.
type Cached struct {
	inner  Store
	client *redis.Client
	logger *slog.Logger
}

// NewCached wraps a store with a Redis cache.
func NewCached(inner Store, client *redis.Client, logger *slog.Logger) *Cached {
	return &Cached{inner: inner, client: client, logger: logger}
}

func (c *Cached) Create(ctx context.Context, template *models.Template) error {
	return c.inner.Create(ctx, template)
}

func (c *Cached) Find(ctx context.Context, family form.TemplateFamily, name string, version int) (*models.Template, error) {
	key := cacheKey(family, name, version)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var template models.Template
		if err := json.Unmarshal(payload, &template); err == nil {
			return &template, nil
		}
		// Unreadable entry: fall through and repopulate.
		c.client.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) && c.logger != nil {
		c.logger.WarnContext(ctx, "template cache read failed", "key", key, "error", err)
	}

	template, err := c.inner.Find(ctx, family, name, version)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(template); err == nil {
		if err := c.client.Set(ctx, key, payload, CacheTTL).Err(); err != nil && c.logger != nil {
			c.logger.WarnContext(ctx, "template cache write failed", "key", key, "error", err)
		}
	}
	return template, nil
}

func (c *Cached) FindLatestByStatus(ctx context.Context, family form.TemplateFamily, name string, status models.Status) (*models.Template, error) {
	return c.inner.FindLatestByStatus(ctx, family, name, status)
}

func cacheKey(family form.TemplateFamily, name string, version int) string {
	return fmt.Sprintf("certform:template:%s:%s:%d", family, name, version)
}
