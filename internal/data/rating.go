package data

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm/clause"

	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/biz"
)

const (
	rankTopKey     = "rank:movies:top"
	rankPopularKey = "rank:movies:popular"
)

func ratingCacheKey(movieID string) string {
	return fmt.Sprintf("rating:agg:%s", movieID)
}

type ratingRepo struct {
	data *Data
	log  *log.Helper
}

// NewRatingRepo creates a new rating repository
func NewRatingRepo(data *Data, logger log.Logger) biz.RatingRepo {
	return &ratingRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *ratingRepo) GetRating(ctx context.Context, userID, movieID string) (*biz.Rating, error) {
	var dbRating Rating
	err := r.data.DB(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		First(&dbRating).Error
	if err != nil {
		if isNotFound(err) {
			return nil, biz.ErrRatingNotFound
		}
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}

	return &biz.Rating{
		UserID:    dbRating.UserID,
		MovieID:   dbRating.MovieID,
		Rating:    dbRating.Rating,
		CreatedAt: dbRating.CreatedAt,
		UpdatedAt: dbRating.UpdatedAt,
	}, nil
}

func (r *ratingRepo) UpsertRating(ctx context.Context, rating *biz.Rating) error {
	dbRating := &Rating{
		UserID:  rating.UserID,
		MovieID: rating.MovieID,
		Rating:  rating.Rating,
	}

	// ON CONFLICT turns a concurrent duplicate insert into an update
	err := r.data.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
	}).Create(dbRating).Error
	if err != nil {
		return fmt.Errorf("failed to upsert rating: %w", err)
	}

	rating.UpdatedAt = dbRating.UpdatedAt

	r.data.afterCommit(ctx, func(ctx context.Context) {
		if r.data.rdb == nil {
			return
		}
		r.data.rdb.Del(ctx, ratingCacheKey(rating.MovieID))
		r.updateRankings(ctx, rating.MovieID)
	})
	return nil
}

func (r *ratingRepo) GetRatingAggregate(ctx context.Context, movieID string) (*biz.RatingAggregate, error) {
	// Try cache first if Redis is available
	if r.data.rdb != nil {
		cached, err := r.data.rdb.Get(ctx, ratingCacheKey(movieID)).Result()
		if err == nil {
			var agg biz.RatingAggregate
			if err := json.Unmarshal([]byte(cached), &agg); err == nil {
				r.log.Debugf("cache hit for rating aggregate: %s", movieID)
				return &agg, nil
			}
		}
	}

	agg, err := r.aggregate(ctx, movieID)
	if err != nil {
		return nil, err
	}

	if r.data.rdb != nil {
		if data, err := json.Marshal(agg); err == nil {
			r.data.rdb.Set(ctx, ratingCacheKey(movieID), data, r.data.cacheTTL)
		}
	}

	return agg, nil
}

// aggregate reads average and count from the rows. No rows yields 0 and 0.
func (r *ratingRepo) aggregate(ctx context.Context, movieID string) (*biz.RatingAggregate, error) {
	var result RatingAggregate
	err := r.data.DB(ctx).
		Model(&Rating{}).
		Select("COALESCE(ROUND(AVG(rating)::numeric, 1), 0) AS average, COUNT(*) AS count").
		Where("movie_id = ?", movieID).
		Scan(&result).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get rating aggregate: %w", err)
	}

	return &biz.RatingAggregate{
		Average: result.Average,
		Count:   result.Count,
	}, nil
}

const (
	topScoreExpr     = "ROUND(AVG(rating)::numeric, 1)"
	popularScoreExpr = "COUNT(*)"
)

// zaddIfExists updates a member only while the set is present, so a missing
// set is never mistaken for a complete one.
var zaddIfExists = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return redis.call("ZADD", KEYS[1], ARGV[1], ARGV[2])
end
return 0
`)

func (r *ratingRepo) TopRated(ctx context.Context, limit int) ([]*biz.RankedMovie, error) {
	return r.ranking(ctx, rankTopKey, topScoreExpr, limit)
}

func (r *ratingRepo) MostRated(ctx context.Context, limit int) ([]*biz.RankedMovie, error) {
	return r.ranking(ctx, rankPopularKey, popularScoreExpr, limit)
}

// ranking serves a leaderboard from its ZSet. A missing set is rebuilt from
// the rating rows; without Redis the rows are ranked directly.
func (r *ratingRepo) ranking(ctx context.Context, key, scoreExpr string, limit int) ([]*biz.RankedMovie, error) {
	if r.data.rdb == nil {
		return r.rankFromDB(ctx, scoreExpr, limit)
	}

	if ranked, ok := r.fromRanking(ctx, key, limit); ok {
		return ranked, nil
	}

	all, err := r.rankFromDB(ctx, scoreExpr, 0)
	if err != nil {
		return nil, err
	}
	r.storeRanking(ctx, key, all)

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// fromRanking reads a leaderboard ZSet. ok is false when the set is missing
// or Redis fails.
func (r *ratingRepo) fromRanking(ctx context.Context, key string, limit int) ([]*biz.RankedMovie, bool) {
	var (
		exists *redis.IntCmd
		zs     *redis.ZSliceCmd
	)
	_, err := r.data.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		exists = pipe.Exists(ctx, key)
		zs = pipe.ZRevRangeWithScores(ctx, key, 0, int64(limit-1))
		return nil
	})
	if err != nil {
		r.log.Warnf("failed to read ranking %s: %v", key, err)
		return nil, false
	}
	if exists.Val() == 0 {
		return nil, false
	}

	ranked := make([]*biz.RankedMovie, 0, len(zs.Val()))
	for _, z := range zs.Val() {
		id, ok := z.Member.(string)
		if !ok {
			continue
		}
		ranked = append(ranked, &biz.RankedMovie{MovieID: id, Score: z.Score})
	}
	return ranked, true
}

// storeRanking replaces a leaderboard ZSet with the ranked rows. An empty
// ranking leaves the key absent.
func (r *ratingRepo) storeRanking(ctx context.Context, key string, ranked []*biz.RankedMovie) {
	members := make([]redis.Z, 0, len(ranked))
	for _, m := range ranked {
		members = append(members, redis.Z{Score: m.Score, Member: m.MovieID})
	}

	_, err := r.data.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(members) > 0 {
			pipe.ZAdd(ctx, key, members...)
			pipe.Expire(ctx, key, r.data.cacheTTL)
		}
		return nil
	})
	if err != nil {
		r.log.Warnf("failed to rebuild ranking %s: %v", key, err)
	}
}

// rankFromDB ranks movies by scoreExpr over their rating rows. A
// non-positive limit returns every rated movie.
func (r *ratingRepo) rankFromDB(ctx context.Context, scoreExpr string, limit int) ([]*biz.RankedMovie, error) {
	var rows []struct {
		MovieID string
		Score   float64
	}
	db := r.data.DB(ctx).
		Model(&Rating{}).
		Select("movie_id, " + scoreExpr + " AS score").
		Group("movie_id").
		Order("score DESC").Order("movie_id")
	if limit > 0 {
		db = db.Limit(limit)
	}
	if err := db.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to rank movies: %w", err)
	}

	ranked := make([]*biz.RankedMovie, 0, len(rows))
	for _, row := range rows {
		ranked = append(ranked, &biz.RankedMovie{MovieID: row.MovieID, Score: row.Score})
	}
	return ranked, nil
}

// updateRankings moves a movie within the ranking sets that are present.
// Absent sets are left for the next read to rebuild.
func (r *ratingRepo) updateRankings(ctx context.Context, movieID string) {
	if r.data.rdb == nil {
		return
	}

	agg, err := r.aggregate(ctx, movieID)
	if err != nil {
		r.log.Warnf("failed to get aggregate for ranking update: %v", err)
		return
	}

	if agg.Count == 0 {
		r.data.rdb.ZRem(ctx, rankPopularKey, movieID)
		r.data.rdb.ZRem(ctx, rankTopKey, movieID)
		return
	}

	keys := []string{rankPopularKey}
	if err := zaddIfExists.Run(ctx, r.data.rdb, keys, float64(agg.Count), movieID).Err(); err != nil {
		r.log.Warnf("failed to update ranking %s: %v", rankPopularKey, err)
	}
	keys = []string{rankTopKey}
	if err := zaddIfExists.Run(ctx, r.data.rdb, keys, agg.Average, movieID).Err(); err != nil {
		r.log.Warnf("failed to update ranking %s: %v", rankTopKey, err)
	}
}
