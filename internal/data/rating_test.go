package data

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/biz"
)

const aggregateQuery = `SELECT COALESCE\(ROUND\(AVG\(rating\)::numeric, 1\), 0\) AS average, COUNT\(\*\) AS count FROM "ratings" WHERE movie_id = \$1`

func TestRatingRepo_GetRatingAggregate(t *testing.T) {
	d, mock := newTestData(t)
	repo := NewRatingRepo(d, log.DefaultLogger)

	mock.ExpectQuery(aggregateQuery).
		WithArgs("m1").
		WillReturnRows(sqlmock.NewRows([]string{"average", "count"}).AddRow(4.5, 2))

	agg, err := repo.GetRatingAggregate(context.Background(), "m1")
	require.NoError(t, err)
	assert.InDelta(t, 4.5, agg.Average, 0.001)
	assert.Equal(t, int32(2), agg.Count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingRepo_GetRatingAggregateNoRatings(t *testing.T) {
	d, mock := newTestData(t)
	repo := NewRatingRepo(d, log.DefaultLogger)

	mock.ExpectQuery(aggregateQuery).
		WithArgs("m1").
		WillReturnRows(sqlmock.NewRows([]string{"average", "count"}).AddRow(0, 0))

	agg, err := repo.GetRatingAggregate(context.Background(), "m1")
	require.NoError(t, err)
	assert.Zero(t, agg.Average)
	assert.Zero(t, agg.Count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingRepo_UpsertRating(t *testing.T) {
	d, mock := newTestData(t)
	repo := NewRatingRepo(d, log.DefaultLogger)

	mock.ExpectQuery(`INSERT INTO "ratings" .* ON CONFLICT \("user_id","movie_id"\) DO UPDATE SET .*RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	rating := &biz.Rating{UserID: "u1", MovieID: "m1", Rating: 4}
	require.NoError(t, repo.UpsertRating(context.Background(), rating))
	assert.False(t, rating.UpdatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingRepo_GetRatingNotFound(t *testing.T) {
	d, mock := newTestData(t)
	repo := NewRatingRepo(d, log.DefaultLogger)

	mock.ExpectQuery(`SELECT \* FROM "ratings" WHERE user_id = \$1 AND movie_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "movie_id", "rating"}))

	_, err := repo.GetRating(context.Background(), "u1", "m1")
	assert.ErrorIs(t, err, biz.ErrRatingNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingRepo_TopRatedFallsBackToSQL(t *testing.T) {
	d, mock := newTestData(t)
	repo := NewRatingRepo(d, log.DefaultLogger)

	mock.ExpectQuery(`SELECT movie_id, ROUND\(AVG\(rating\)::numeric, 1\) AS score FROM "ratings" GROUP BY .*movie_id.* ORDER BY score DESC,movie_id`).
		WillReturnRows(sqlmock.NewRows([]string{"movie_id", "score"}).
			AddRow("m2", 4.8).
			AddRow("m1", 3.5))

	ranked, err := repo.TopRated(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "m2", ranked[0].MovieID)
	assert.InDelta(t, 4.8, ranked[0].Score, 0.001)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingRepo_MostRatedFallsBackToSQL(t *testing.T) {
	d, mock := newTestData(t)
	repo := NewRatingRepo(d, log.DefaultLogger)

	mock.ExpectQuery(`SELECT movie_id, COUNT\(\*\) AS score FROM "ratings" GROUP BY .*movie_id`).
		WillReturnRows(sqlmock.NewRows([]string{"movie_id", "score"}).AddRow("m1", 7))

	ranked, err := repo.MostRated(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.InDelta(t, 7, ranked[0].Score, 0.001)
	require.NoError(t, mock.ExpectationsWereMet())
}
