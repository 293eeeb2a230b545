package data

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/biz"
)

type upcomingMovieRepo struct {
	data *Data
	log  *log.Helper
}

// NewUpcomingMovieRepo creates a new upcoming movie repository
func NewUpcomingMovieRepo(data *Data, logger log.Logger) biz.UpcomingMovieRepo {
	return &upcomingMovieRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *upcomingMovieRepo) CreateUpcomingMovie(ctx context.Context, movie *biz.UpcomingMovie) error {
	dbMovie := upcomingToModel(movie)
	if err := r.data.DB(ctx).Create(dbMovie).Error; err != nil {
		return fmt.Errorf("failed to create upcoming movie: %w", err)
	}

	movie.CreatedAt = dbMovie.CreatedAt
	movie.UpdatedAt = dbMovie.UpdatedAt
	return nil
}

func (r *upcomingMovieRepo) GetUpcomingMovie(ctx context.Context, id string) (*biz.UpcomingMovie, error) {
	var dbMovie UpcomingMovie
	if err := r.data.DB(ctx).Where("id = ?", id).First(&dbMovie).Error; err != nil {
		if isNotFound(err) {
			return nil, biz.ErrUpcomingMovieNotFound
		}
		return nil, fmt.Errorf("failed to get upcoming movie: %w", err)
	}
	return upcomingToBiz(&dbMovie), nil
}

func (r *upcomingMovieRepo) ListUpcomingMovies(ctx context.Context) ([]*biz.UpcomingMovie, error) {
	var rows []UpcomingMovie
	err := r.data.DB(ctx).Order("expected_release_date").Order("id").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming movies: %w", err)
	}

	movies := make([]*biz.UpcomingMovie, 0, len(rows))
	for i := range rows {
		movies = append(movies, upcomingToBiz(&rows[i]))
	}
	return movies, nil
}

func (r *upcomingMovieRepo) UpdateUpcomingMovie(ctx context.Context, movie *biz.UpcomingMovie) error {
	res := r.data.DB(ctx).Model(&UpcomingMovie{}).Where("id = ?", movie.ID).Updates(map[string]any{
		"title":                 movie.Title,
		"poster":                movie.Poster,
		"description":           movie.Description,
		"expected_release_date": movie.ExpectedReleaseDate,
		"actors":                movie.Actors,
		"category_id":           movie.CategoryID,
		"trailer_url":           movie.TrailerURL,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update upcoming movie: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return biz.ErrUpcomingMovieNotFound
	}
	return nil
}

func (r *upcomingMovieRepo) DeleteUpcomingMovie(ctx context.Context, id string) error {
	res := r.data.DB(ctx).Where("id = ?", id).Delete(&UpcomingMovie{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete upcoming movie: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return biz.ErrUpcomingMovieNotFound
	}
	return nil
}

func upcomingToModel(m *biz.UpcomingMovie) *UpcomingMovie {
	return &UpcomingMovie{
		ID:                  m.ID,
		Title:               m.Title,
		Poster:              m.Poster,
		Description:         m.Description,
		ExpectedReleaseDate: m.ExpectedReleaseDate,
		Actors:              m.Actors,
		CategoryID:          m.CategoryID,
		TrailerURL:          m.TrailerURL,
		AddedBy:             m.AddedBy,
	}
}

func upcomingToBiz(m *UpcomingMovie) *biz.UpcomingMovie {
	return &biz.UpcomingMovie{
		ID:                  m.ID,
		Title:               m.Title,
		Poster:              m.Poster,
		Description:         m.Description,
		ExpectedReleaseDate: m.ExpectedReleaseDate,
		Actors:              m.Actors,
		CategoryID:          m.CategoryID,
		TrailerURL:          m.TrailerURL,
		AddedBy:             m.AddedBy,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}
