package cached

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"tandem-user-service/internal/adapter/cache"
	domain "tandem-user-service/internal/domain/user"
	"tandem-user-service/internal/usecase/user"
)

// CachedUserRepository implements user.Repository with caching support.
// It wraps a persistent repository (DB) and a cache implementation, keyed
// by email address because every lookup in this service goes through the
// email.
type CachedUserRepository struct {
	dbRepo user.Repository
	cache  cache.UserCache
	log    *zap.Logger
	group  singleflight.Group
}

// NewCachedUserRepository creates a new instance of CachedUserRepository.
func NewCachedUserRepository(dbRepo user.Repository, cache cache.UserCache, log *zap.Logger) user.Repository {
	return &CachedUserRepository{
		dbRepo: dbRepo,
		cache:  cache,
		log:    log,
	}
}

// Add delegates to the DB repository and warms the cache on success.
func (r *CachedUserRepository) Add(ctx context.Context, u *domain.User) (*domain.User, error) {
	stored, err := r.dbRepo.Add(ctx, u)
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		if err := r.cache.Set(ctx, stored); err != nil {
			r.log.Warn("failed to cache user after create", zap.String("email", stored.EmailAddress), zap.Error(err))
		}
	}
	return stored, nil
}

// Update delegates to the DB repository and refreshes the cache entry so
// subsequent reads see the new field values.
func (r *CachedUserRepository) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	stored, err := r.dbRepo.Update(ctx, u)
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		if err := r.cache.Set(ctx, stored); err != nil {
			r.log.Warn("failed to refresh cache after update", zap.String("email", stored.EmailAddress), zap.Error(err))
		}
	}
	return stored, nil
}

// GetByID delegates to the DB repository. Lookups by identifier are not on
// the request path, so they are not cached.
func (r *CachedUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.dbRepo.GetByID(ctx, id)
}

// GetByEmail retrieves a user using the cache-aside pattern. Cache failures
// fall back to the database.
func (r *CachedUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if strings.TrimSpace(email) == "" {
		// Let the DB repository report the argument error
		return r.dbRepo.GetByEmail(ctx, email)
	}

	if r.cache != nil {
		cachedUser, err := r.cache.Get(ctx, email)
		if err != nil {
			r.log.Warn("cache get error, falling back to database", zap.String("email", email), zap.Error(err))
		} else if cachedUser != nil {
			return cachedUser, nil
		}
	}

	// Cache miss or cache disabled - use single-flight to prevent stampede
	key := fmt.Sprintf("user:email:%s", email)
	result, err, _ := r.group.Do(key, func() (any, error) {
		// Double-check cache in case another request populated it while we were waiting
		if r.cache != nil {
			cachedUser, err := r.cache.Get(ctx, email)
			if err == nil && cachedUser != nil {
				return cachedUser, nil
			}
		}

		u, err := r.dbRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}

		// An absent user is not cached; negative caching would delay
		// create-then-get visibility
		if u != nil && r.cache != nil {
			if err := r.cache.Set(ctx, u); err != nil {
				r.log.Warn("failed to cache user", zap.String("email", email), zap.Error(err))
			}
		}
		return u, nil
	})
	if err != nil {
		return nil, err
	}
	u, _ := result.(*domain.User)
	return u, nil
}

// ExistsByEmail answers from the cache when possible, otherwise delegates
// to the DB repository. A cached entry proves existence; absence proves
// nothing, so misses always hit the database.
func (r *CachedUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if strings.TrimSpace(email) == "" {
		return false, nil
	}
	if r.cache != nil {
		cachedUser, err := r.cache.Get(ctx, email)
		if err == nil && cachedUser != nil {
			return true, nil
		}
	}
	return r.dbRepo.ExistsByEmail(ctx, email)
}
