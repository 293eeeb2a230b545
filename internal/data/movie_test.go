package data

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/biz"
)

var movieColumns = []string{
	"id", "title", "poster", "description", "release_date", "actors",
	"rating", "category_id", "trailer_url", "added_by", "created_at", "updated_at",
}

func movieRow(rows *sqlmock.Rows, id, title string, created time.Time) *sqlmock.Rows {
	release := time.Date(2010, 7, 16, 0, 0, 0, 0, time.UTC)
	return rows.AddRow(id, title, "posters/"+id+".jpg", "desc", release, "Leonardo DiCaprio",
		8.8, "cat-1", "https://example.com/trailer", "u1", created, created)
}

func TestMovieRepo_GetMovie(t *testing.T) {
	d, mock := newTestData(t)
	repo := NewMovieRepo(d, log.DefaultLogger)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT \* FROM "movies" WHERE id = \$1`).
		WillReturnRows(movieRow(sqlmock.NewRows(movieColumns), "m1", "Inception", now))

	movie, err := repo.GetMovie(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "Inception", movie.Title)
	assert.Equal(t, "u1", movie.AddedBy)
	assert.Equal(t, "u1", movie.Owner())
	assert.InDelta(t, 8.8, movie.Rating, 0.001)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieRepo_GetMovieNotFound(t *testing.T) {
	d, mock := newTestData(t)
	repo := NewMovieRepo(d, log.DefaultLogger)

	mock.ExpectQuery(`SELECT \* FROM "movies" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(movieColumns))

	_, err := repo.GetMovie(context.Background(), "missing")
	assert.ErrorIs(t, err, biz.ErrMovieNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieRepo_ListMoviesPaginates(t *testing.T) {
	d, mock := newTestData(t)
	repo := NewMovieRepo(d, log.DefaultLogger)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(movieColumns)
	movieRow(rows, "m3", "Three", now)
	movieRow(rows, "m2", "Two", now.Add(-time.Minute))
	movieRow(rows, "m1", "One", now.Add(-2*time.Minute))

	mock.ExpectQuery(`SELECT \* FROM "movies" WHERE .*title ILIKE .* AND category_id = \$4 ORDER BY created_at DESC,id DESC`).
		WithArgs("%o%", "%o%", "%o%", "cat-1", 3).
		WillReturnRows(rows)

	q, cat := "o", "cat-1"
	page, err := repo.ListMovies(context.Background(), &biz.MovieListQuery{Q: &q, CategoryID: &cat, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "m3", page.Items[0].ID)
	require.NotNil(t, page.NextCursor)
	assert.Equal(t, encodeCursor(2), *page.NextCursor)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieRepo_ListMoviesLastPage(t *testing.T) {
	d, mock := newTestData(t)
	repo := NewMovieRepo(d, log.DefaultLogger)

	mock.ExpectQuery(`SELECT \* FROM "movies" ORDER BY created_at DESC,id DESC`).
		WillReturnRows(movieRow(sqlmock.NewRows(movieColumns), "m1", "One", time.Now()))

	cursor := encodeCursor(12)
	page, err := repo.ListMovies(context.Background(), &biz.MovieListQuery{Cursor: &cursor})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Nil(t, page.NextCursor)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieRepo_ListMoviesInvalidCursor(t *testing.T) {
	d, mock := newTestData(t)
	repo := NewMovieRepo(d, log.DefaultLogger)

	cursor := "garbage"
	_, err := repo.ListMovies(context.Background(), &biz.MovieListQuery{Cursor: &cursor})
	assert.ErrorIs(t, err, biz.ErrInvalidCursor)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieRepo_UpdateMissingMovie(t *testing.T) {
	d, mock := newTestData(t)
	repo := NewMovieRepo(d, log.DefaultLogger)

	mock.ExpectExec(`UPDATE "movies" SET .* WHERE id = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateMovie(context.Background(), &biz.Movie{ID: "missing", Title: "x"})
	assert.ErrorIs(t, err, biz.ErrMovieNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
