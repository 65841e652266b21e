package cache

import (
	"context"
	"errors"
)

// ContentCache stores JSON-encoded CMS content under string keys
type ContentCache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

var ErrCacheMiss = errors.New("cache miss")

// NopCache is used when no Redis is configured; every lookup misses
type NopCache struct{}

func (NopCache) Get(context.Context, string, any) error { return ErrCacheMiss }

func (NopCache) Set(context.Context, string, any) error { return nil }

func (NopCache) Delete(context.Context, string) error { return nil }
