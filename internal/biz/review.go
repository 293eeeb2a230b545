package biz

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// ReviewUseCase handles reviews. One review per (user, movie); saving again
// edits it in place.
type ReviewUseCase struct {
	movieRepo  MovieRepo
	reviewRepo ReviewRepo
	tx         Transaction
	events     EventPublisher
	log        *log.Helper
}

func NewReviewUseCase(movieRepo MovieRepo, reviewRepo ReviewRepo, tx Transaction, events EventPublisher, logger log.Logger) *ReviewUseCase {
	return &ReviewUseCase{
		movieRepo:  movieRepo,
		reviewRepo: reviewRepo,
		tx:         tx,
		events:     events,
		log:        log.NewHelper(logger),
	}
}

// GetOrInitReview returns the actor's review of the movie with editing=true,
// or an empty draft with editing=false.
func (uc *ReviewUseCase) GetOrInitReview(ctx context.Context, actor Actor, movieID string) (*Review, bool, error) {
	if err := requireAuth(actor); err != nil {
		return nil, false, err
	}
	if _, err := uc.movieRepo.GetMovie(ctx, movieID); err != nil {
		return nil, false, err
	}

	review, err := uc.reviewRepo.FindReview(ctx, actor.UserID, movieID)
	switch {
	case err == nil:
		return review, true, nil
	case IsNotFound(err):
		return &Review{UserID: actor.UserID, MovieID: movieID}, false, nil
	default:
		return nil, false, fmt.Errorf("failed to find review: %w", err)
	}
}

// SaveReview creates or edits the actor's review of the movie.
func (uc *ReviewUseCase) SaveReview(ctx context.Context, actor Actor, movieID, text string) (*Review, bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false, ErrEmptyReview
	}
	if err := requireAuth(actor); err != nil {
		return nil, false, err
	}
	if _, err := uc.movieRepo.GetMovie(ctx, movieID); err != nil {
		return nil, false, err
	}

	var (
		saved   *Review
		created bool
	)
	err := uc.tx.InTx(ctx, func(ctx context.Context) error {
		existing, err := uc.reviewRepo.FindReview(ctx, actor.UserID, movieID)
		switch {
		case err == nil:
			existing.Text = text
			saved = existing
		case IsNotFound(err):
			id, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("failed to generate review ID: %w", err)
			}
			saved = &Review{ID: id.String(), UserID: actor.UserID, MovieID: movieID, Text: text}
			created = true
		default:
			return err
		}
		return uc.reviewRepo.UpsertReview(ctx, saved)
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to save review: %w", err)
	}

	publishEvent(ctx, uc.events, uc.log, &Event{Type: EventReviewSaved, UserID: actor.UserID, MovieID: movieID})
	return saved, created, nil
}

// DeleteReview removes a review. Only its author may delete it.
func (uc *ReviewUseCase) DeleteReview(ctx context.Context, actor Actor, reviewID string) error {
	if err := requireAuth(actor); err != nil {
		return err
	}

	review, err := uc.reviewRepo.GetReview(ctx, reviewID)
	if err != nil {
		return err
	}
	if !CanDeleteReview(review, actor) {
		return ErrCannotDeleteReview
	}

	if err := uc.reviewRepo.DeleteReview(ctx, reviewID); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	publishEvent(ctx, uc.events, uc.log, &Event{Type: EventReviewDeleted, UserID: actor.UserID, MovieID: review.MovieID})
	return nil
}

// ListReviews returns a movie's reviews, newest first.
func (uc *ReviewUseCase) ListReviews(ctx context.Context, movieID string) ([]*Review, error) {
	if _, err := uc.movieRepo.GetMovie(ctx, movieID); err != nil {
		return nil, err
	}
	return uc.reviewRepo.ListReviews(ctx, movieID)
}
