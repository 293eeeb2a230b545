package biz

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/log"
)

const (
	MinRating = 1
	MaxRating = 5
)

// RateResult is returned from RateMovie
type RateResult struct {
	Rating  *Rating
	Created bool
	Average float64
	Total   int32
}

// RatingUseCase handles rating-related business logic
type RatingUseCase struct {
	movieRepo  MovieRepo
	ratingRepo RatingRepo
	tx         Transaction
	events     EventPublisher
	log        *log.Helper
}

// NewRatingUseCase creates a new RatingUseCase instance
func NewRatingUseCase(movieRepo MovieRepo, ratingRepo RatingRepo, tx Transaction, events EventPublisher, logger log.Logger) *RatingUseCase {
	return &RatingUseCase{
		movieRepo:  movieRepo,
		ratingRepo: ratingRepo,
		tx:         tx,
		events:     events,
		log:        log.NewHelper(logger),
	}
}

// RateMovie submits or overwrites the actor's rating for a movie.
func (uc *RatingUseCase) RateMovie(ctx context.Context, actor Actor, movieID string, value int) (*RateResult, error) {
	if value < MinRating || value > MaxRating {
		return nil, ErrRatingOutOfRange
	}
	if err := requireAuth(actor); err != nil {
		return nil, err
	}

	if _, err := uc.movieRepo.GetMovie(ctx, movieID); err != nil {
		return nil, err
	}

	rating := &Rating{
		UserID:  actor.UserID,
		MovieID: movieID,
		Rating:  value,
	}

	var created bool
	err := uc.tx.InTx(ctx, func(ctx context.Context) error {
		_, err := uc.ratingRepo.GetRating(ctx, actor.UserID, movieID)
		switch {
		case err == nil:
			created = false
		case IsNotFound(err):
			created = true
		default:
			return err
		}
		// A concurrent insert for the same pair turns into an overwrite here.
		return uc.ratingRepo.UpsertRating(ctx, rating)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert rating: %w", err)
	}

	agg, err := uc.ratingRepo.GetRatingAggregate(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rating aggregate: %w", err)
	}

	uc.publish(ctx, &Event{Type: EventMovieRated, UserID: actor.UserID, MovieID: movieID, Value: value})

	return &RateResult{
		Rating:  rating,
		Created: created,
		Average: agg.Average,
		Total:   agg.Count,
	}, nil
}

// GetRatingAggregate retrieves the derived average and count for a movie.
// A movie without ratings has Average 0 and Count 0.
func (uc *RatingUseCase) GetRatingAggregate(ctx context.Context, movieID string) (*RatingAggregate, error) {
	if _, err := uc.movieRepo.GetMovie(ctx, movieID); err != nil {
		return nil, err
	}

	aggregate, err := uc.ratingRepo.GetRatingAggregate(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rating aggregate: %w", err)
	}

	return aggregate, nil
}

// AverageRating is the mean rating rounded to one decimal place.
func (uc *RatingUseCase) AverageRating(ctx context.Context, movieID string) (float64, error) {
	agg, err := uc.GetRatingAggregate(ctx, movieID)
	if err != nil {
		return 0, err
	}
	return agg.Average, nil
}

// TotalRatings is the number of rating rows for a movie.
func (uc *RatingUseCase) TotalRatings(ctx context.Context, movieID string) (int32, error) {
	agg, err := uc.GetRatingAggregate(ctx, movieID)
	if err != nil {
		return 0, err
	}
	return agg.Count, nil
}

// UserRating returns the actor's rating for the movie, or 0 when the actor is
// anonymous, has not rated, or the lookup fails.
func (uc *RatingUseCase) UserRating(ctx context.Context, actor Actor, movieID string) int {
	if !actor.Authenticated() {
		return 0
	}
	r, err := uc.ratingRepo.GetRating(ctx, actor.UserID, movieID)
	if err != nil {
		if !IsNotFound(err) {
			uc.log.WithContext(ctx).Warnf("failed to load rating of user %s for movie %s: %v", actor.UserID, movieID, err)
		}
		return 0
	}
	return r.Rating
}

// TopRated returns movies ordered by average rating, best first.
func (uc *RatingUseCase) TopRated(ctx context.Context, limit int) ([]*RankedMovie, error) {
	return uc.ratingRepo.TopRated(ctx, normalizeRankLimit(limit))
}

// MostRated returns movies ordered by number of ratings.
func (uc *RatingUseCase) MostRated(ctx context.Context, limit int) ([]*RankedMovie, error) {
	return uc.ratingRepo.MostRated(ctx, normalizeRankLimit(limit))
}

func (uc *RatingUseCase) publish(ctx context.Context, e *Event) {
	publishEvent(ctx, uc.events, uc.log, e)
}

func normalizeRankLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 10
	}
	return limit
}

func publishEvent(ctx context.Context, events EventPublisher, l *log.Helper, e *Event) {
	if events == nil {
		return
	}
	e.OccurredAt = time.Now().UTC()
	if err := events.Publish(ctx, e); err != nil {
		l.WithContext(ctx).Warnf("failed to publish %s event: %v", e.Type, err)
	}
}
