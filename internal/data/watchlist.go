package data

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm/clause"

	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/biz"
)

type watchlistRepo struct {
	data *Data
	log  *log.Helper
}

// NewWatchlistRepo creates a new watchlist repository
func NewWatchlistRepo(data *Data, logger log.Logger) biz.WatchlistRepo {
	return &watchlistRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *watchlistRepo) RemoveEntry(ctx context.Context, userID, movieID string) (bool, error) {
	res := r.data.DB(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Delete(&WatchlistEntry{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to remove watchlist entry: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// AddEntry inserts with ON CONFLICT DO NOTHING so a duplicate leaves an
// enclosing transaction usable; zero affected rows means the pair existed.
func (r *watchlistRepo) AddEntry(ctx context.Context, entry *biz.WatchlistEntry) error {
	dbEntry := &WatchlistEntry{UserID: entry.UserID, MovieID: entry.MovieID}

	res := r.data.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(dbEntry)
	if res.Error != nil {
		return fmt.Errorf("failed to add watchlist entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return biz.ErrAlreadyInWatchlist
	}

	entry.AddedAt = dbEntry.AddedAt
	return nil
}

func (r *watchlistRepo) HasEntry(ctx context.Context, userID, movieID string) (bool, error) {
	var n int64
	err := r.data.DB(ctx).Model(&WatchlistEntry{}).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check watchlist: %w", err)
	}
	return n > 0, nil
}

func (r *watchlistRepo) ListEntries(ctx context.Context, userID string) ([]*biz.WatchlistEntry, error) {
	var rows []WatchlistEntry
	err := r.data.DB(ctx).
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}

	entries := make([]*biz.WatchlistEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, &biz.WatchlistEntry{
			UserID:  row.UserID,
			MovieID: row.MovieID,
			AddedAt: row.AddedAt,
		})
	}
	return entries, nil
}
