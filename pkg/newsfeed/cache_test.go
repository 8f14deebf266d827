package newsfeed

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/iWorld-y/research_copilot/pkg/model"
)

// fakeClock 可手动拨动的时钟
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func headlinesFixture(tag string) []model.Headline {
	return []model.Headline{
		{Title: "headline " + tag, Source: "https://example.com/" + tag, Timestamp: "2025-08-29T10:00:00Z"},
	}
}

func TestGetServesCacheWithinTTL(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_000_000, 0)}
	calls := 0
	fetch := func(context.Context) ([]model.Headline, error) {
		calls++
		return headlinesFixture("a"), nil
	}
	cache := NewCache(300*time.Second, fetch, WithClock(clock.Now))

	first, err := cache.Get(context.Background())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	clock.Advance(299 * time.Second)
	second, err := cache.Get(context.Background())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if calls != 1 {
		t.Errorf("fetch calls = %d, want 1 (TTL 内应命中缓存)", calls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached headlines differ: %v vs %v", first, second)
	}
}

func TestGetRefetchesAfterTTL(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_000_000, 0)}
	calls := 0
	fetch := func(context.Context) ([]model.Headline, error) {
		calls++
		return headlinesFixture("a"), nil
	}
	cache := NewCache(300*time.Second, fetch, WithClock(clock.Now))

	if _, err := cache.Get(context.Background()); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	clock.Advance(300 * time.Second)
	if _, err := cache.Get(context.Background()); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if calls != 2 {
		t.Errorf("fetch calls = %d, want 2 (过期后应重新拉取)", calls)
	}
}

func TestGetFallbackOnFailureIsNotCached(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_000_000, 0)}
	calls := 0
	failing := true
	fetch := func(context.Context) ([]model.Headline, error) {
		calls++
		if failing {
			return nil, errors.New("provider down")
		}
		return headlinesFixture("real"), nil
	}
	cache := NewCache(300*time.Second, fetch, WithClock(clock.Now))

	headlines, err := cache.Get(context.Background())
	if err == nil {
		t.Fatal("expected error on provider failure")
	}
	if !reflect.DeepEqual(headlines, Fallback()) {
		t.Errorf("headlines = %v, want fallback fixture", headlines)
	}
	if len(headlines) != 5 {
		t.Errorf("fallback length = %d, want 5", len(headlines))
	}

	// 兜底数据不落缓存：下一次调用仍会尝试真实拉取
	failing = false
	headlines, err = cache.Get(context.Background())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("fetch calls = %d, want 2", calls)
	}
	if !reflect.DeepEqual(headlines, headlinesFixture("real")) {
		t.Errorf("headlines = %v", headlines)
	}
}

func TestGetDoesNotServeEmptyCache(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_000_000, 0)}
	calls := 0
	fetch := func(context.Context) ([]model.Headline, error) {
		calls++
		return []model.Headline{}, nil
	}
	cache := NewCache(300*time.Second, fetch, WithClock(clock.Now))

	if _, err := cache.Get(context.Background()); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if _, err := cache.Get(context.Background()); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("fetch calls = %d, 空列表不应作为缓存命中", calls)
	}
}
