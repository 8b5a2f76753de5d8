package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fragrancefinder/backend/internal/domain"
)

func newTestCache(t *testing.T, opts Options) *MemoryCache {
	t.Helper()
	c := NewMemoryCache(opts)
	t.Cleanup(c.Close)
	return c
}

func TestMemoryCache_SetAndGet(t *testing.T) {
	cache := newTestCache(t, Options{})
	ctx := context.Background()

	tests := []struct {
		name  string
		key   string
		value []byte
		ttl   time.Duration
	}{
		{
			name:  "store and retrieve result",
			key:   "accords:floral",
			value: []byte(`{"recommendations":[]}`),
			ttl:   1 * time.Minute,
		},
		{
			name:  "store with short TTL",
			key:   "similar:alpha",
			value: []byte("expires-soon"),
			ttl:   1 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := cache.Set(ctx, tt.key, tt.value, tt.ttl); err != nil {
				t.Fatalf("Set() error = %v", err)
			}

			// For short TTL test, wait for expiration
			if tt.ttl < 10*time.Millisecond {
				time.Sleep(10 * time.Millisecond)
				_, err := cache.Get(ctx, tt.key)
				if !errors.Is(err, domain.ErrCacheMiss) {
					t.Errorf("Expected cache miss after expiration, got error = %v", err)
				}
				return
			}

			got, err := cache.Get(ctx, tt.key)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if string(got) != string(tt.value) {
				t.Errorf("Get() = %s, want %s", got, tt.value)
			}
		})
	}
}

func TestMemoryCache_CopiesValues(t *testing.T) {
	cache := newTestCache(t, Options{})
	ctx := context.Background()

	buf := []byte("floral")
	if err := cache.Set(ctx, "k", buf, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	buf[0] = 'X'

	got, _ := cache.Get(ctx, "k")
	if string(got) != "floral" {
		t.Errorf("Get() = %s, want floral (stored value must not alias caller buffer)", got)
	}

	got[0] = 'Y'
	again, _ := cache.Get(ctx, "k")
	if string(again) != "floral" {
		t.Errorf("Get() = %s, want floral (returned value must not alias stored value)", again)
	}
}

func TestMemoryCache_Get_CacheMiss(t *testing.T) {
	cache := newTestCache(t, Options{})

	_, err := cache.Get(context.Background(), "non-existent-key")
	if !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get() error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	cache := newTestCache(t, Options{})
	ctx := context.Background()

	key := "delete-test"
	if err := cache.Set(ctx, key, []byte("value"), 1*time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if err := cache.Delete(ctx, key); err != nil {
		t.Errorf("Delete() error = %v", err)
	}

	_, err := cache.Get(ctx, key)
	if !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get() after delete error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_Exists(t *testing.T) {
	cache := newTestCache(t, Options{})
	ctx := context.Background()

	exists, err := cache.Exists(ctx, "exists-test")
	if err != nil || exists {
		t.Errorf("Exists() = %v, %v, want false, nil for non-existent key", exists, err)
	}

	if err := cache.Set(ctx, "exists-test", []byte("value"), 1*time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	exists, _ = cache.Exists(ctx, "exists-test")
	if !exists {
		t.Errorf("Exists() = false, want true after setting value")
	}

	if err := cache.Set(ctx, "short-ttl", []byte("value"), 1*time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	exists, _ = cache.Exists(ctx, "short-ttl")
	if exists {
		t.Errorf("Exists() = true, want false after expiration")
	}
}

func TestMemoryCache_MaxEntries(t *testing.T) {
	cache := newTestCache(t, Options{MaxEntries: 2})
	ctx := context.Background()

	cache.Set(ctx, "first", []byte("1"), 1*time.Minute)
	cache.Set(ctx, "second", []byte("2"), 2*time.Minute)
	cache.Set(ctx, "third", []byte("3"), 3*time.Minute)

	if size := cache.Size(); size != 2 {
		t.Fatalf("Size() = %d, want 2", size)
	}
	if _, err := cache.Get(ctx, "first"); !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("entry closest to expiry should be evicted, Get(first) error = %v", err)
	}
	if _, err := cache.Get(ctx, "third"); err != nil {
		t.Errorf("Get(third) error = %v", err)
	}

	// Overwriting an existing key never evicts
	cache.Set(ctx, "third", []byte("3b"), 3*time.Minute)
	if size := cache.Size(); size != 2 {
		t.Errorf("Size() = %d, want 2 after overwrite", size)
	}
}

func TestMemoryCache_Stats(t *testing.T) {
	cache := newTestCache(t, Options{})
	ctx := context.Background()

	cache.Set(ctx, "k", []byte("v"), time.Minute)
	cache.Get(ctx, "k")
	cache.Get(ctx, "k")
	cache.Get(ctx, "missing")

	stats := cache.Stats()
	if stats.Entries != 1 || stats.Hits != 2 || stats.Misses != 1 {
		t.Errorf("Stats() = %+v, want {Entries:1 Hits:2 Misses:1}", stats)
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	cache := newTestCache(t, Options{})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := cache.Set(ctx, fmt.Sprintf("key-%d", i), []byte{byte(i)}, 1*time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}
	if size := cache.Size(); size != 5 {
		t.Fatalf("Size() = %d, want 5 before clear", size)
	}

	cache.Clear()

	if size := cache.Size(); size != 0 {
		t.Errorf("Size() = %d, want 0 after clear", size)
	}
}

func TestMemoryCache_Close(t *testing.T) {
	cache := NewMemoryCache(Options{CleanupInterval: time.Millisecond})
	cache.Close()
	cache.Close() // second close is a no-op
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache := newTestCache(t, Options{MaxEntries: 5})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", id)
			if err := cache.Set(ctx, key, []byte(key), 1*time.Minute); err != nil {
				t.Errorf("Concurrent Set() error = %v", err)
			}
			cache.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	if size := cache.Size(); size > 5 {
		t.Errorf("Size() = %d, want <= 5", size)
	}
}
