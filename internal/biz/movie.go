package biz

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

const (
	maxTitleLen   = 200
	maxActorsLen  = 500
	maxMovieScore = 10

	DefaultMoviePageSize = 12
	recentLimit          = 5
)

// MovieDetail is everything the movie page shows for one actor.
type MovieDetail struct {
	Movie        *Movie
	Average      float64
	TotalRatings int32
	UserRating   int
	CanEdit      bool
	InWatchlist  bool
	Reviews      []*Review
}

// MovieUseCase handles movie-related business logic
type MovieUseCase struct {
	repo          MovieRepo
	categoryRepo  CategoryRepo
	ratingRepo    RatingRepo
	reviewRepo    ReviewRepo
	watchlistRepo WatchlistRepo
	log           *log.Helper
}

// NewMovieUseCase creates a new MovieUseCase instance
func NewMovieUseCase(repo MovieRepo, categoryRepo CategoryRepo, ratingRepo RatingRepo, reviewRepo ReviewRepo, watchlistRepo WatchlistRepo, logger log.Logger) *MovieUseCase {
	return &MovieUseCase{
		repo:          repo,
		categoryRepo:  categoryRepo,
		ratingRepo:    ratingRepo,
		reviewRepo:    reviewRepo,
		watchlistRepo: watchlistRepo,
		log:           log.NewHelper(logger),
	}
}

// CreateMovie creates a new movie owned by the actor
func (uc *MovieUseCase) CreateMovie(ctx context.Context, actor Actor, in *MovieInput) (*Movie, error) {
	if err := requireAuth(actor); err != nil {
		return nil, err
	}
	if err := uc.validate(ctx, in); err != nil {
		return nil, err
	}

	// UUID v7: time-ordered
	movieID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate movie ID: %w", err)
	}

	movie := &Movie{ID: movieID.String(), AddedBy: actor.UserID}
	applyMovieInput(movie, in)

	if err := uc.repo.CreateMovie(ctx, movie); err != nil {
		return nil, fmt.Errorf("failed to create movie: %w", err)
	}

	uc.log.WithContext(ctx).Infof("movie %s created by %s", movie.ID, actor.UserID)
	return movie, nil
}

// GetMovie retrieves a movie by its id
func (uc *MovieUseCase) GetMovie(ctx context.Context, id string) (*Movie, error) {
	return uc.repo.GetMovie(ctx, id)
}

// GetMovieDetail assembles the movie page for actor. Anonymous actors get
// zero user rating, no edit right and no watchlist membership.
func (uc *MovieUseCase) GetMovieDetail(ctx context.Context, actor Actor, id string) (*MovieDetail, error) {
	movie, err := uc.repo.GetMovie(ctx, id)
	if err != nil {
		return nil, err
	}

	agg, err := uc.ratingRepo.GetRatingAggregate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get rating aggregate: %w", err)
	}

	reviews, err := uc.reviewRepo.ListReviews(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	detail := &MovieDetail{
		Movie:        movie,
		Average:      agg.Average,
		TotalRatings: agg.Count,
		CanEdit:      CanEdit(movie, actor),
		Reviews:      reviews,
	}

	if actor.Authenticated() {
		if r, err := uc.ratingRepo.GetRating(ctx, actor.UserID, id); err == nil {
			detail.UserRating = r.Rating
		} else if !IsNotFound(err) {
			uc.log.WithContext(ctx).Warnf("failed to load user rating for movie %s: %v", id, err)
		}

		in, err := uc.watchlistRepo.HasEntry(ctx, actor.UserID, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check watchlist: %w", err)
		}
		detail.InWatchlist = in
	}

	return detail, nil
}

// ListMovies retrieves a paginated list of movies based on filters
func (uc *MovieUseCase) ListMovies(ctx context.Context, query *MovieListQuery) (*MoviePage, error) {
	if query.Limit <= 0 || query.Limit > 100 {
		query.Limit = DefaultMoviePageSize
	}
	if query.Q != nil {
		q := strings.TrimSpace(*query.Q)
		if q == "" {
			query.Q = nil
		} else {
			query.Q = &q
		}
	}

	page, err := uc.repo.ListMovies(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	return page, nil
}

// UpdateMovie replaces the editable fields of a movie the actor may edit.
func (uc *MovieUseCase) UpdateMovie(ctx context.Context, actor Actor, id string, in *MovieInput) (*Movie, error) {
	if err := requireAuth(actor); err != nil {
		return nil, err
	}

	movie, err := uc.repo.GetMovie(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanEdit(movie, actor) {
		return nil, ErrCannotEditMovie
	}
	if err := uc.validate(ctx, in); err != nil {
		return nil, err
	}

	applyMovieInput(movie, in)
	if err := uc.repo.UpdateMovie(ctx, movie); err != nil {
		return nil, fmt.Errorf("failed to update movie: %w", err)
	}
	return movie, nil
}

// DeleteMovie deletes a movie the actor may edit. Ratings, reviews and
// watchlist rows go with it.
func (uc *MovieUseCase) DeleteMovie(ctx context.Context, actor Actor, id string) error {
	if err := requireAuth(actor); err != nil {
		return err
	}

	movie, err := uc.repo.GetMovie(ctx, id)
	if err != nil {
		return err
	}
	if !CanEdit(movie, actor) {
		return ErrCannotEditMovie
	}

	if err := uc.repo.DeleteMovie(ctx, id); err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}

	uc.log.WithContext(ctx).Infof("movie %s deleted by %s", id, actor.UserID)
	return nil
}

func (uc *MovieUseCase) validate(ctx context.Context, in *MovieInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Actors = strings.TrimSpace(in.Actors)
	in.Description = strings.TrimSpace(in.Description)

	switch {
	case in.Title == "":
		return invalid(ErrInvalidMovie, "title is required")
	case utf8.RuneCountInString(in.Title) > maxTitleLen:
		return invalid(ErrInvalidMovie, fmt.Sprintf("title must be at most %d characters", maxTitleLen))
	case in.Description == "":
		return invalid(ErrInvalidMovie, "description is required")
	case in.ReleaseDate.IsZero():
		return invalid(ErrInvalidMovie, "release date is required")
	case in.Actors == "":
		return invalid(ErrInvalidMovie, "actors are required")
	case utf8.RuneCountInString(in.Actors) > maxActorsLen:
		return invalid(ErrInvalidMovie, fmt.Sprintf("actors must be at most %d characters", maxActorsLen))
	case in.Rating < 0 || in.Rating > maxMovieScore:
		return invalid(ErrInvalidMovie, "rating must be between 0 and 10")
	case in.CategoryID == "":
		return invalid(ErrInvalidMovie, "category is required")
	}

	if _, err := uc.categoryRepo.GetCategory(ctx, in.CategoryID); err != nil {
		if IsNotFound(err) {
			return invalid(ErrInvalidMovie, "category does not exist")
		}
		return err
	}
	return nil
}

func applyMovieInput(m *Movie, in *MovieInput) {
	m.Title = in.Title
	m.Poster = in.Poster
	m.Description = in.Description
	m.ReleaseDate = in.ReleaseDate
	m.Actors = in.Actors
	m.Rating = in.Rating
	m.CategoryID = in.CategoryID
	m.TrailerURL = in.TrailerURL
}
