package user

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	xerrors "github.com/FabiSax12/uniflow-notification-service/internal/pkg/errors"
)

type mapCache struct {
	entries map[string]string
	getErr  error
	setErr  error
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]string)}
}

func (c *mapCache) Get(ctx context.Context, key string) (string, error) {
	if c.getErr != nil {
		return "", c.getErr
	}
	val, ok := c.entries[key]
	if !ok {
		return "", ErrCacheMiss
	}
	return val, nil
}

func (c *mapCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[key] = value
	return nil
}

func (c *mapCache) Del(ctx context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func identityServer(t *testing.T, hits *atomic.Int32, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/students/google/u1", r.URL.Path)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

const studentJSON = `{"id":"u1","email":"ana@estudiantec.cr","name":"Ana","deviceTokens":["tok-1"]}`

func TestGetUserByID_MissFetchesAndPopulatesCache(t *testing.T) {
	var hits atomic.Int32
	srv := identityServer(t, &hits, http.StatusOK, studentJSON)
	cache := newMapCache()
	adapter := NewAdapter(srv.URL, cache, time.Hour, zap.NewNop())

	u, err := adapter.GetUserByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "ana@estudiantec.cr", u.Email)
	assert.True(t, u.HasDeviceTokens())
	assert.Equal(t, int32(1), hits.Load())
	assert.Contains(t, cache.entries, "user:u1")
}

func TestGetUserByID_HitSkipsIdentityService(t *testing.T) {
	var hits atomic.Int32
	srv := identityServer(t, &hits, http.StatusOK, studentJSON)
	cache := newMapCache()
	cache.entries["user:u1"] = studentJSON
	adapter := NewAdapter(srv.URL, cache, time.Hour, zap.NewNop())

	u, err := adapter.GetUserByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name)
	assert.Equal(t, int32(0), hits.Load())
}

func TestGetUserByID_CacheWriteFailureDoesNotFailLookup(t *testing.T) {
	var hits atomic.Int32
	srv := identityServer(t, &hits, http.StatusOK, studentJSON)
	cache := newMapCache()
	cache.setErr = errors.New("redis down")
	adapter := NewAdapter(srv.URL, cache, time.Hour, zap.NewNop())

	u, err := adapter.GetUserByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
}

func TestGetUserByID_CacheReadFailureFallsThrough(t *testing.T) {
	var hits atomic.Int32
	srv := identityServer(t, &hits, http.StatusOK, studentJSON)
	cache := newMapCache()
	cache.getErr = errors.New("redis down")
	adapter := NewAdapter(srv.URL, cache, time.Hour, zap.NewNop())

	_, err := adapter.GetUserByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestGetUserByID_NotFound(t *testing.T) {
	var hits atomic.Int32
	srv := identityServer(t, &hits, http.StatusNotFound, `{"error":"not found"}`)
	adapter := NewAdapter(srv.URL, newMapCache(), time.Hour, zap.NewNop())

	_, err := adapter.GetUserByID(context.Background(), "u1")
	assert.ErrorIs(t, err, xerrors.ErrUserNotFound)
}

func TestGetUserByID_UpstreamErrorWrapped(t *testing.T) {
	var hits atomic.Int32
	srv := identityServer(t, &hits, http.StatusBadGateway, "oops")
	adapter := NewAdapter(srv.URL, newMapCache(), time.Hour, zap.NewNop())

	_, err := adapter.GetUserByID(context.Background(), "u1")
	assert.ErrorIs(t, err, xerrors.ErrLookupFailed)
}

func TestGetUserByID_InvalidEmailRejected(t *testing.T) {
	var hits atomic.Int32
	srv := identityServer(t, &hits, http.StatusOK, `{"id":"u1","email":"not-an-email","name":"Ana"}`)
	adapter := NewAdapter(srv.URL, newMapCache(), time.Hour, zap.NewNop())

	_, err := adapter.GetUserByID(context.Background(), "u1")
	assert.ErrorIs(t, err, xerrors.ErrLookupFailed)
}

func TestGetUserByID_EmptyID(t *testing.T) {
	adapter := NewAdapter("http://unused", newMapCache(), time.Hour, zap.NewNop())

	_, err := adapter.GetUserByID(context.Background(), "")
	assert.ErrorIs(t, err, xerrors.ErrEmptyUserID)
}

func TestInvalidate_ForcesRefetch(t *testing.T) {
	var hits atomic.Int32
	srv := identityServer(t, &hits, http.StatusOK, studentJSON)
	cache := newMapCache()
	adapter := NewAdapter(srv.URL, cache, time.Hour, zap.NewNop())

	_, err := adapter.GetUserByID(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, int32(1), hits.Load())

	// Cached lookup does not touch the server.
	_, err = adapter.GetUserByID(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, int32(1), hits.Load())

	require.NoError(t, adapter.Invalidate(context.Background(), "u1"))

	_, err = adapter.GetUserByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}
