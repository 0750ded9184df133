package ratelimit

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock drives a limiter's notion of time.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(t *testing.T, cfg *Config) (*Limiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	l := NewLimiter(cfg)
	l.now = clock.Now
	t.Cleanup(l.Stop)
	return l, clock
}

func TestLimiter_Allow(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})

	for i := 0; i < 10; i++ {
		allowed, info := l.Allow("127.0.0.1", "/jobs", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := l.Allow("127.0.0.1", "/jobs", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Equal(t, 6*time.Second, info.RetryAfter, "one token every 6s")
}

func TestLimiter_Refill(t *testing.T) {
	l, clock := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})

	for i := 0; i < 10; i++ {
		l.Allow("c", "/jobs", "GET")
	}
	allowed, _ := l.Allow("c", "/jobs", "GET")
	require.False(t, allowed)

	clock.Advance(7 * time.Second)
	allowed, _ = l.Allow("c", "/jobs", "GET")
	assert.True(t, allowed)
	allowed, _ = l.Allow("c", "/jobs", "GET")
	assert.False(t, allowed)
}

func TestLimiter_ResetTime(t *testing.T) {
	l, clock := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})

	for i := 0; i < 5; i++ {
		l.Allow("c", "/jobs", "GET")
	}
	_, info := l.Allow("c", "/jobs", "GET")

	assert.Equal(t, 4, info.Remaining)
	assert.Equal(t, clock.Now().Add(36*time.Second), info.ResetTime)
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{
		Enabled:      true,
		DefaultLimit: 1,
		Whitelist:    map[string]bool{"10.0.0.1": true},
		Blacklist:    map[string]bool{"10.0.0.2": true},
	})

	for i := 0; i < 5; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/jobs", "GET")
		assert.True(t, allowed)
	}
	allowed, _ := l.Allow("10.0.0.2", "/jobs", "GET")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: false, DefaultLimit: 1})

	for i := 0; i < 5; i++ {
		allowed, info := l.Allow("c", "/jobs", "GET")
		assert.True(t, allowed)
		assert.Zero(t, info.Limit)
	}
}

func TestLimiter_TiersShareBucketAcrossIDs(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{
		Enabled:      true,
		DefaultLimit: 100,
		EndpointConfigs: []EndpointConfig{
			{Path: "/jobs/", Method: "DELETE", Limit: 2, Window: time.Minute},
		},
	})

	a, _ := l.Allow("c", "/jobs/1", "DELETE")
	b, _ := l.Allow("c", "/jobs/2", "DELETE")
	c, _ := l.Allow("c", "/jobs/3", "DELETE")

	assert.True(t, a)
	assert.True(t, b)
	assert.False(t, c, "the tier is limited, not each path")

	other, _ := l.Allow("other", "/jobs/3", "DELETE")
	assert.True(t, other, "clients have separate buckets")
	read, _ := l.Allow("c", "/jobs/3", "GET")
	assert.True(t, read, "reads use the default tier")
}

func TestLimiter_Burst(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{
		Enabled: true,
		EndpointConfigs: []EndpointConfig{
			{Path: "/ai/", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		},
	})

	for i := 0; i < 5; i++ {
		allowed, _ := l.Allow("c", "/ai/job-post", "POST")
		assert.True(t, allowed, "burst request %d", i+1)
	}
	allowed, _ := l.Allow("c", "/ai/job-post", "POST")
	assert.False(t, allowed)
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 1})

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("c", "/health", "GET")
		assert.True(t, allowed)
	}
	assert.Zero(t, l.Len())
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 100, DefaultWindow: time.Minute})

	var allowedCount atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("c", "/jobs", "GET"); ok {
				allowedCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(100), allowedCount.Load())
}

func TestLimiter_RemoveIdle(t *testing.T) {
	l, clock := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, IdleTimeout: time.Hour})

	for i := 0; i < 4; i++ {
		l.Allow(fmt.Sprintf("10.0.0.%d", i), "/jobs", "GET")
	}
	clock.Advance(50 * time.Minute)
	l.Allow("10.0.0.0", "/jobs", "GET")
	clock.Advance(20 * time.Minute)

	l.removeIdle()
	assert.Equal(t, 1, l.Len())
}

func TestNewLimiter_NilConfig(t *testing.T) {
	l, _ := newTestLimiter(t, nil)

	allowed, info := l.Allow("127.0.0.1", "/jobs", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestLimiter_StopTwice(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, CleanupInterval: time.Millisecond})

	assert.NotPanics(t, func() {
		l.Stop()
		l.Stop()
	})
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		path, method string
		wantPath     string
	}{
		{"/ai/contract", "POST", "/ai/"},
		{"/jobs", "POST", "/jobs"},
		{"/jobs/123/apply", "POST", "/jobs/"},
		{"/applications/1/status", "PATCH", "/applications/"},
		{"/health", "GET", "/health"},
		{"/jobs", "GET", ""},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantPath == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantPath, got.Path)
		})
	}
}

func TestParseIPList(t *testing.T) {
	assert.Equal(t, map[string]bool{"1.1.1.1": true, "2.2.2.2": true}, parseIPList(" 1.1.1.1, ,2.2.2.2"))
	assert.Empty(t, parseIPList(""))
}
