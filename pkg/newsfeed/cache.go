// Package newsfeed 提供头条列表的进程内 TTL 缓存。
package newsfeed

import (
	"context"
	"sync"
	"time"

	"github.com/iWorld-y/research_copilot/pkg/model"
)

// DefaultTTL 缓存有效期
const DefaultTTL = 300 * time.Second

// FetchFunc 拉取一批头条；失败返回 error，空列表同样视为失败由调用方处理
type FetchFunc func(ctx context.Context) ([]model.Headline, error)

// Cache 头条缓存。进程内单例，仅在拉取成功时覆盖写入。
type Cache struct {
	ttl   time.Duration
	fetch FetchFunc
	now   func() time.Time

	mu        sync.Mutex
	headlines []model.Headline
	fetchedAt time.Time
}

// Option 缓存可选配置
type Option func(*Cache)

// WithClock 注入时钟，用于测试
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// NewCache 创建头条缓存
func NewCache(ttl time.Duration, fetch FetchFunc, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		ttl:   ttl,
		fetch: fetch,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get 返回头条列表。缓存未过期且非空时直接命中；
// 否则重新拉取，成功则覆盖缓存，失败则返回固定兜底数据和错误，
// 兜底数据不会写入缓存，下一次调用仍会尝试真实拉取。
func (c *Cache) Get(ctx context.Context) ([]model.Headline, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if len(c.headlines) > 0 && now.Sub(c.fetchedAt) < c.ttl {
		return copyHeadlines(c.headlines), nil
	}

	headlines, err := c.fetch(ctx)
	if err != nil {
		return Fallback(), err
	}

	c.headlines = headlines
	c.fetchedAt = now
	return copyHeadlines(c.headlines), nil
}

func copyHeadlines(src []model.Headline) []model.Headline {
	out := make([]model.Headline, len(src))
	copy(out, src)
	return out
}

// Fallback 返回固定的兜底头条列表
func Fallback() []model.Headline {
	return []model.Headline{
		{Title: "Dummy Headline 1", Source: "Example.com", Timestamp: "2025-07-26T10:00:00Z"},
		{Title: "Dummy Headline 2", Source: "Example.com", Timestamp: "2025-07-26T09:00:00Z"},
		{Title: "Dummy Headline 3", Source: "Example.com", Timestamp: "2025-07-26T08:00:00Z"},
		{Title: "Dummy Headline 4", Source: "Example.com", Timestamp: "2025-07-26T07:00:00Z"},
		{Title: "Dummy Headline 5", Source: "Example.com", Timestamp: "2025-07-26T06:00:00Z"},
	}
}
