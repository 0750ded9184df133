package cache

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KashafDawood/AI-Recruitment-Backend/internal/search"
)

type memBackend struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
	err  error
}

func newMemBackend() *memBackend {
	return &memBackend{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, false, m.err
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memBackend) Incr(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	n, _ := strconv.ParseInt(string(m.data[key]), 10, 64)
	n++
	m.data[key] = []byte(strconv.FormatInt(n, 10))
	return n, nil
}

type page struct {
	Count int      `json:"count"`
	Names []string `json:"names"`
}

func TestPageKey_OrderIndependent(t *testing.T) {
	a := search.ParseParams(map[string]string{"title": "Go", "company": "acme"})
	b := search.ParseParams(map[string]string{"company": "ACME", "title": "go"})

	assert.Equal(t, pageKey(0, a, 1, 10), pageKey(0, b, 1, 10))
	assert.NotEqual(t, pageKey(0, a, 1, 10), pageKey(0, a, 2, 10))
	assert.NotEqual(t, pageKey(0, a, 1, 10), pageKey(0, a, 1, 20))
	assert.NotEqual(t, pageKey(0, a, 1, 10), pageKey(1, a, 1, 10))
	assert.True(t, strings.HasPrefix(pageKey(3, a, 1, 10), "jobs:v3:"))
}

func TestSearchCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := newMemBackend()
	c := NewWithBackend(backend, 0)
	params := search.ParseParams(map[string]string{"title": "go"})

	key, ok := c.Key(ctx, params, 1, 10)
	require.True(t, ok)

	var got page
	assert.False(t, c.Get(ctx, key, &got))

	c.Set(ctx, key, page{Count: 2, Names: []string{"a", "b"}})
	require.True(t, c.Get(ctx, key, &got))
	assert.Equal(t, page{Count: 2, Names: []string{"a", "b"}}, got)
	assert.Equal(t, DefaultTTL, backend.ttls[key])
}

func TestSearchCache_InvalidateChangesKey(t *testing.T) {
	ctx := context.Background()
	c := NewWithBackend(newMemBackend(), time.Minute)
	params := search.Params{}

	before, _ := c.Key(ctx, params, 1, 10)
	c.Set(ctx, before, page{Count: 1})
	c.Invalidate(ctx)
	after, ok := c.Key(ctx, params, 1, 10)

	require.True(t, ok)
	assert.NotEqual(t, before, after)
	var got page
	assert.False(t, c.Get(ctx, after, &got))
}

func TestSearchCache_BackendErrorsAreMisses(t *testing.T) {
	ctx := context.Background()
	backend := newMemBackend()
	c := NewWithBackend(backend, time.Minute)
	backend.err = errors.New("connection refused")

	_, ok := c.Key(ctx, search.Params{}, 1, 10)
	assert.False(t, ok)

	var got page
	assert.False(t, c.Get(ctx, "jobs:v0:x", &got))
	c.Set(ctx, "jobs:v0:x", page{})
	c.Invalidate(ctx)
}

func TestSearchCache_CorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	backend := newMemBackend()
	backend.data["k"] = []byte("{not json")
	c := NewWithBackend(backend, time.Minute)

	var got page
	assert.False(t, c.Get(ctx, "k", &got))
}

func TestSearchCache_NilIsDisabled(t *testing.T) {
	ctx := context.Background()
	var c *SearchCache

	_, ok := c.Key(ctx, search.Params{}, 1, 10)
	assert.False(t, ok)
	var got page
	assert.False(t, c.Get(ctx, "k", &got))
	c.Set(ctx, "k", page{})
	c.Invalidate(ctx)
}
