package data

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// evictMovies drops the cached row, aggregate and ranking entries of movies
// that were deleted, directly or through a cascade.
func (d *Data) evictMovies(ctx context.Context, movieIDs []string) {
	if d.rdb == nil || len(movieIDs) == 0 {
		return
	}

	keys := make([]string, 0, 2*len(movieIDs))
	members := make([]interface{}, 0, len(movieIDs))
	for _, id := range movieIDs {
		keys = append(keys, movieCacheKey(id), ratingCacheKey(id))
		members = append(members, id)
	}

	_, err := d.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keys...)
		pipe.ZRem(ctx, rankTopKey, members...)
		pipe.ZRem(ctx, rankPopularKey, members...)
		return nil
	})
	if err != nil {
		d.log.Warnf("failed to evict %d movies from cache: %v", len(movieIDs), err)
	}
}

// evictRatings drops cached aggregates of movies whose ratings were removed
// by a cascade, together with both ranking sets. The sets are rebuilt from
// the rows on the next read.
func (d *Data) evictRatings(ctx context.Context, movieIDs []string) {
	if d.rdb == nil || len(movieIDs) == 0 {
		return
	}

	keys := make([]string, 0, len(movieIDs)+2)
	keys = append(keys, rankTopKey, rankPopularKey)
	for _, id := range movieIDs {
		keys = append(keys, ratingCacheKey(id))
	}
	if err := d.rdb.Del(ctx, keys...).Err(); err != nil {
		d.log.Warnf("failed to evict rating aggregates: %v", err)
	}
}
