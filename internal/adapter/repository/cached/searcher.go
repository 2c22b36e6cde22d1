package cached

import (
	"context"

	"go.uber.org/zap"

	"ldap-seeder/internal/adapter/cache"
	"ldap-seeder/internal/adapter/ldaptool"
	"ldap-seeder/internal/usecase/directory"
)

// Searcher implements directory.Searcher with a read-through cache.
// Only successful searches are cached; cache errors fall through to the
// wrapped searcher.
type Searcher struct {
	next  directory.Searcher
	cache cache.SearchCache
	log   *zap.Logger
}

// NewSearcher wraps next with cache. A nil cache disables caching.
func NewSearcher(next directory.Searcher, c cache.SearchCache, log *zap.Logger) *Searcher {
	return &Searcher{
		next:  next,
		cache: c,
		log:   log,
	}
}

// Search returns a cached result when present, otherwise runs the search
// and caches a successful result.
func (s *Searcher) Search(ctx context.Context, filter string, attrs ...string) (*ldaptool.Result, error) {
	if s.cache != nil {
		res, err := s.cache.Get(ctx, filter, attrs)
		if err != nil {
			s.log.Warn("cache get error, falling back to ldapsearch", zap.String("filter", filter), zap.Error(err))
		} else if res != nil {
			return res, nil
		}
	}

	res, err := s.next.Search(ctx, filter, attrs...)
	if err != nil || !res.Success() {
		return res, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, filter, attrs, res); err != nil {
			s.log.Warn("failed to cache search", zap.String("filter", filter), zap.Error(err))
		}
	}
	return res, nil
}
