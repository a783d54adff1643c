// internal/service/user/adapter.go
package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/FabiSax12/uniflow-notification-service/internal/domain/user"
	xerrors "github.com/FabiSax12/uniflow-notification-service/internal/pkg/errors"
)

const cacheKeyPrefix = "user:"

// Adapter resolves users from the identity service with a read-through
// cache. Cache population is best-effort: a cache-write failure is
// logged and never fails the lookup.
type Adapter struct {
	baseURL  string
	client   *http.Client
	cache    Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

func NewAdapter(baseURL string, cache Cache, cacheTTL time.Duration, logger *zap.Logger) *Adapter {
	if cacheTTL <= 0 {
		cacheTTL = time.Hour
	}
	return &Adapter{
		baseURL:  baseURL,
		client:   &http.Client{Timeout: 10 * time.Second},
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// GetUserByID checks the cache first and falls back to the identity
// service on a miss.
func (a *Adapter) GetUserByID(ctx context.Context, userID string) (*user.User, error) {
	if userID == "" {
		return nil, xerrors.ErrEmptyUserID
	}

	cacheKey := cacheKeyPrefix + userID

	cached, err := a.cache.Get(ctx, cacheKey)
	if err == nil {
		var u user.User
		if err := json.Unmarshal([]byte(cached), &u); err == nil {
			return &u, nil
		}
		a.logger.Warn("corrupt cache entry, refetching", zap.String("key", cacheKey))
	} else if !errors.Is(err, ErrCacheMiss) {
		a.logger.Warn("cache read failed, falling back to identity service",
			zap.String("key", cacheKey), zap.Error(err))
	}

	u, err := a.fetchUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(u); err == nil {
		if err := a.cache.Set(ctx, cacheKey, string(data), a.cacheTTL); err != nil {
			a.logger.Warn("cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	return u, nil
}

// Invalidate drops the cached entry so the next lookup refetches.
func (a *Adapter) Invalidate(ctx context.Context, userID string) error {
	if err := a.cache.Del(ctx, cacheKeyPrefix+userID); err != nil {
		return fmt.Errorf("failed to invalidate user cache: %w", err)
	}
	return nil
}

func (a *Adapter) fetchUser(ctx context.Context, userID string) (*user.User, error) {
	url := fmt.Sprintf("%s/students/google/%s", a.baseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build user request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", xerrors.ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, xerrors.ErrUserNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: identity service returned %d", xerrors.ErrLookupFailed, resp.StatusCode)
	}

	var u user.User
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("%w: malformed identity response: %v", xerrors.ErrLookupFailed, err)
	}

	if err := user.ValidateEmail(u.Email); err != nil {
		return nil, fmt.Errorf("%w: %v", xerrors.ErrLookupFailed, err)
	}

	return &u, nil
}
