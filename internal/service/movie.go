package service

import (
	"context"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-playground/validator/v10"

	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/auth"
	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/biz"
)

var ErrInvalidRequest = errors.BadRequest("INVALID_REQUEST", "invalid request")

// MovieService serves movies and everything a user does to one: rating,
// reviewing, and watchlisting. Rankings live here too.
type MovieService struct {
	movieUC     *biz.MovieUseCase
	ratingUC    *biz.RatingUseCase
	reviewUC    *biz.ReviewUseCase
	watchlistUC *biz.WatchlistUseCase
	validate    *validator.Validate
}

// NewMovieService creates a new MovieService
func NewMovieService(movieUC *biz.MovieUseCase, ratingUC *biz.RatingUseCase, reviewUC *biz.ReviewUseCase, watchlistUC *biz.WatchlistUseCase) *MovieService {
	return &MovieService{
		movieUC:     movieUC,
		ratingUC:    ratingUC,
		reviewUC:    reviewUC,
		watchlistUC: watchlistUC,
		validate:    newValidator(),
	}
}

func (s *MovieService) CreateMovie(ctx context.Context, req *MovieRequest) (*CreateMovieReply, error) {
	in, err := s.movieInput(req)
	if err != nil {
		return nil, err
	}

	movie, err := s.movieUC.CreateMovie(ctx, auth.FromContext(ctx), in)
	if err != nil {
		return nil, err
	}
	return &CreateMovieReply{MovieReply: *toMovieReply(movie)}, nil
}

// GetMovie returns the movie page: the movie, its rating summary, the
// caller's own rating and watchlist state, and its reviews.
func (s *MovieService) GetMovie(ctx context.Context, req *IDRequest) (*MovieDetailReply, error) {
	detail, err := s.movieUC.GetMovieDetail(ctx, auth.FromContext(ctx), req.ID)
	if err != nil {
		return nil, err
	}

	reviews := make([]*ReviewReply, 0, len(detail.Reviews))
	for _, r := range detail.Reviews {
		reviews = append(reviews, toReviewReply(r))
	}

	return &MovieDetailReply{
		MovieReply:    *toMovieReply(detail.Movie),
		AverageRating: detail.Average,
		TotalRatings:  detail.TotalRatings,
		UserRating:    detail.UserRating,
		CanEdit:       detail.CanEdit,
		InWatchlist:   detail.InWatchlist,
		Reviews:       reviews,
	}, nil
}

func (s *MovieService) ListMovies(ctx context.Context, req *ListMoviesRequest) (*ListMoviesReply, error) {
	if err := checkRequest(s.validate, req, ErrInvalidRequest); err != nil {
		return nil, err
	}

	page, err := s.movieUC.ListMovies(ctx, &biz.MovieListQuery{
		Q:          req.Q,
		CategoryID: req.CategoryID,
		AddedBy:    req.AddedBy,
		Limit:      req.Limit,
		Cursor:     req.Cursor,
	})
	if err != nil {
		return nil, err
	}

	return &ListMoviesReply{
		Items:      toMovieReplies(page.Items),
		NextCursor: page.NextCursor,
	}, nil
}

func (s *MovieService) UpdateMovie(ctx context.Context, req *MovieRequest) (*MovieReply, error) {
	in, err := s.movieInput(req)
	if err != nil {
		return nil, err
	}

	movie, err := s.movieUC.UpdateMovie(ctx, auth.FromContext(ctx), req.ID, in)
	if err != nil {
		return nil, err
	}
	return toMovieReply(movie), nil
}

func (s *MovieService) DeleteMovie(ctx context.Context, req *IDRequest) (*EmptyReply, error) {
	if err := s.movieUC.DeleteMovie(ctx, auth.FromContext(ctx), req.ID); err != nil {
		return nil, err
	}
	return &EmptyReply{}, nil
}

func (s *MovieService) RateMovie(ctx context.Context, req *RateMovieRequest) (*RateMovieReply, error) {
	result, err := s.ratingUC.RateMovie(ctx, auth.FromContext(ctx), req.ID, req.Rating)
	if err != nil {
		return nil, err
	}

	return &RateMovieReply{
		MovieID:       req.ID,
		Rating:        result.Rating.Rating,
		AverageRating: result.Average,
		TotalRatings:  result.Total,
		created:       result.Created,
	}, nil
}

func (s *MovieService) GetRating(ctx context.Context, req *IDRequest) (*RatingReply, error) {
	agg, err := s.ratingUC.GetRatingAggregate(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	return &RatingReply{
		MovieID:       req.ID,
		AverageRating: agg.Average,
		TotalRatings:  agg.Count,
		UserRating:    s.ratingUC.UserRating(ctx, auth.FromContext(ctx), req.ID),
	}, nil
}

func (s *MovieService) TopRated(ctx context.Context, req *RankingRequest) (*RankingReply, error) {
	if err := checkRequest(s.validate, req, ErrInvalidRequest); err != nil {
		return nil, err
	}
	ranked, err := s.ratingUC.TopRated(ctx, req.Limit)
	if err != nil {
		return nil, err
	}
	return toRankingReply(ranked), nil
}

func (s *MovieService) MostRated(ctx context.Context, req *RankingRequest) (*RankingReply, error) {
	if err := checkRequest(s.validate, req, ErrInvalidRequest); err != nil {
		return nil, err
	}
	ranked, err := s.ratingUC.MostRated(ctx, req.Limit)
	if err != nil {
		return nil, err
	}
	return toRankingReply(ranked), nil
}

// GetReviewDraft returns the caller's review of the movie for editing, or an
// empty draft when there is none yet.
func (s *MovieService) GetReviewDraft(ctx context.Context, req *IDRequest) (*ReviewDraftReply, error) {
	review, editing, err := s.reviewUC.GetOrInitReview(ctx, auth.FromContext(ctx), req.ID)
	if err != nil {
		return nil, err
	}
	return &ReviewDraftReply{Review: toReviewReply(review), Editing: editing}, nil
}

func (s *MovieService) SaveReview(ctx context.Context, req *SaveReviewRequest) (*SaveReviewReply, error) {
	review, created, err := s.reviewUC.SaveReview(ctx, auth.FromContext(ctx), req.ID, req.Text)
	if err != nil {
		return nil, err
	}
	return &SaveReviewReply{ReviewReply: *toReviewReply(review), created: created}, nil
}

func (s *MovieService) DeleteReview(ctx context.Context, req *IDRequest) (*EmptyReply, error) {
	if err := s.reviewUC.DeleteReview(ctx, auth.FromContext(ctx), req.ID); err != nil {
		return nil, err
	}
	return &EmptyReply{}, nil
}

func (s *MovieService) ToggleWatchlist(ctx context.Context, req *IDRequest) (*WatchlistToggleReply, error) {
	state, err := s.watchlistUC.ToggleWatchlist(ctx, auth.FromContext(ctx), req.ID)
	if err != nil {
		return nil, err
	}
	return &WatchlistToggleReply{
		MovieID:     req.ID,
		Status:      string(state),
		InWatchlist: state == biz.WatchlistAdded,
	}, nil
}

func (s *MovieService) ListWatchlist(ctx context.Context, _ *EmptyRequest) (*WatchlistReply, error) {
	entries, err := s.watchlistUC.ListWatchlist(ctx, auth.FromContext(ctx))
	if err != nil {
		return nil, err
	}

	items := make([]*WatchlistItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, &WatchlistItem{MovieID: e.MovieID, AddedAt: e.AddedAt})
	}
	return &WatchlistReply{Items: items}, nil
}

// HealthCheck implements health check
func (s *MovieService) HealthCheck(ctx context.Context, _ *EmptyRequest) (*HealthReply, error) {
	return &HealthReply{Status: "ok"}, nil
}

func (s *MovieService) movieInput(req *MovieRequest) (*biz.MovieInput, error) {
	if err := checkRequest(s.validate, req, biz.ErrInvalidMovie); err != nil {
		return nil, err
	}
	releaseDate, err := parseDate(req.ReleaseDate, "release_date", biz.ErrInvalidMovie)
	if err != nil {
		return nil, err
	}

	return &biz.MovieInput{
		Title:       req.Title,
		Poster:      req.Poster,
		Description: req.Description,
		ReleaseDate: releaseDate,
		Actors:      req.Actors,
		Rating:      req.Rating,
		CategoryID:  req.CategoryID,
		TrailerURL:  req.TrailerURL,
	}, nil
}
