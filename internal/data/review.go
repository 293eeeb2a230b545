package data

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm/clause"

	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/biz"
)

type reviewRepo struct {
	data *Data
	log  *log.Helper
}

// NewReviewRepo creates a new review repository
func NewReviewRepo(data *Data, logger log.Logger) biz.ReviewRepo {
	return &reviewRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *reviewRepo) GetReview(ctx context.Context, id string) (*biz.Review, error) {
	var dbReview Review
	if err := r.data.DB(ctx).Where("id = ?", id).First(&dbReview).Error; err != nil {
		if isNotFound(err) {
			return nil, biz.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return reviewToBiz(&dbReview), nil
}

func (r *reviewRepo) FindReview(ctx context.Context, userID, movieID string) (*biz.Review, error) {
	var dbReview Review
	err := r.data.DB(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		First(&dbReview).Error
	if err != nil {
		if isNotFound(err) {
			return nil, biz.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to find review: %w", err)
	}
	return reviewToBiz(&dbReview), nil
}

// UpsertReview keeps the id of an existing row for the pair; review.ID is
// rewritten to the stored id.
func (r *reviewRepo) UpsertReview(ctx context.Context, review *biz.Review) error {
	dbReview := &Review{
		ID:      review.ID,
		UserID:  review.UserID,
		MovieID: review.MovieID,
		Text:    review.Text,
	}

	err := r.data.DB(ctx).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"review_text", "updated_at"}),
		},
		clause.Returning{Columns: []clause.Column{{Name: "id"}, {Name: "created_at"}}},
	).Create(dbReview).Error
	if err != nil {
		return fmt.Errorf("failed to upsert review: %w", err)
	}

	review.ID = dbReview.ID
	review.CreatedAt = dbReview.CreatedAt
	review.UpdatedAt = dbReview.UpdatedAt
	return nil
}

func (r *reviewRepo) DeleteReview(ctx context.Context, id string) error {
	res := r.data.DB(ctx).Where("id = ?", id).Delete(&Review{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete review: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return biz.ErrReviewNotFound
	}
	return nil
}

func (r *reviewRepo) ListReviews(ctx context.Context, movieID string) ([]*biz.Review, error) {
	var dbReviews []Review
	err := r.data.DB(ctx).
		Where("movie_id = ?", movieID).
		Order("created_at DESC").
		Find(&dbReviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	reviews := make([]*biz.Review, 0, len(dbReviews))
	for i := range dbReviews {
		reviews = append(reviews, reviewToBiz(&dbReviews[i]))
	}
	return reviews, nil
}

func reviewToBiz(m *Review) *biz.Review {
	return &biz.Review{
		ID:        m.ID,
		UserID:    m.UserID,
		MovieID:   m.MovieID,
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
