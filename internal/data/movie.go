package data

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/biz"
)

type movieRepo struct {
	data *Data
	log  *log.Helper
}

// NewMovieRepo creates a new movie repository
func NewMovieRepo(data *Data, logger log.Logger) biz.MovieRepo {
	return &movieRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func movieCacheKey(id string) string {
	return fmt.Sprintf("movie:%s", id)
}

func (r *movieRepo) CreateMovie(ctx context.Context, movie *biz.Movie) error {
	dbMovie := movieToModel(movie)

	if err := r.data.DB(ctx).Create(dbMovie).Error; err != nil {
		return fmt.Errorf("failed to create movie: %w", err)
	}

	movie.CreatedAt = dbMovie.CreatedAt
	movie.UpdatedAt = dbMovie.UpdatedAt
	return nil
}

func (r *movieRepo) GetMovie(ctx context.Context, id string) (*biz.Movie, error) {
	// Try cache first if Redis is available
	if r.data.rdb != nil {
		cached, err := r.data.rdb.Get(ctx, movieCacheKey(id)).Result()
		if err == nil {
			var movie biz.Movie
			if err := json.Unmarshal([]byte(cached), &movie); err == nil {
				r.log.Debugf("cache hit for movie: %s", id)
				return &movie, nil
			}
		}
	}

	var dbMovie Movie
	if err := r.data.DB(ctx).Where("id = ?", id).First(&dbMovie).Error; err != nil {
		if isNotFound(err) {
			return nil, biz.ErrMovieNotFound
		}
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}

	movie := movieToBiz(&dbMovie)

	if r.data.rdb != nil {
		if data, err := json.Marshal(movie); err == nil {
			r.data.rdb.Set(ctx, movieCacheKey(id), data, r.data.cacheTTL)
		}
	}

	return movie, nil
}

func (r *movieRepo) ListMovies(ctx context.Context, query *biz.MovieListQuery) (*biz.MoviePage, error) {
	offset, err := cursorOffset(query.Cursor)
	if err != nil {
		return nil, err
	}

	db := r.data.DB(ctx).Model(&Movie{})

	if query.Q != nil && *query.Q != "" {
		term := "%" + escapeLike(*query.Q) + "%"
		db = db.Where("title ILIKE ? OR description ILIKE ? OR actors ILIKE ?", term, term, term)
	}
	if query.CategoryID != nil {
		db = db.Where("category_id = ?", *query.CategoryID)
	}
	if query.AddedBy != nil {
		db = db.Where("added_by = ?", *query.AddedBy)
	}

	// fetch limit+1 to detect if there are more pages
	limit := query.Limit
	if limit <= 0 {
		limit = biz.DefaultMoviePageSize
	}

	var dbMovies []Movie
	err = db.Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(int(limit + 1)).Find(&dbMovies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}

	hasMore := len(dbMovies) > int(limit)
	if hasMore {
		dbMovies = dbMovies[:limit]
	}

	movies := make([]*biz.Movie, 0, len(dbMovies))
	for i := range dbMovies {
		movies = append(movies, movieToBiz(&dbMovies[i]))
	}

	result := &biz.MoviePage{Items: movies}
	if hasMore {
		next := encodeCursor(offset + int(limit))
		result.NextCursor = &next
	}
	return result, nil
}

func (r *movieRepo) UpdateMovie(ctx context.Context, movie *biz.Movie) error {
	dbMovie := movieToModel(movie)

	res := r.data.DB(ctx).Model(&Movie{}).Where("id = ?", movie.ID).Updates(map[string]any{
		"title":        dbMovie.Title,
		"poster":       dbMovie.Poster,
		"description":  dbMovie.Description,
		"release_date": dbMovie.ReleaseDate,
		"actors":       dbMovie.Actors,
		"rating":       dbMovie.Rating,
		"category_id":  dbMovie.CategoryID,
		"trailer_url":  dbMovie.TrailerURL,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update movie: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return biz.ErrMovieNotFound
	}

	r.data.afterCommit(ctx, func(ctx context.Context) {
		r.invalidate(ctx, movie.ID)
	})
	return nil
}

func (r *movieRepo) DeleteMovie(ctx context.Context, id string) error {
	res := r.data.DB(ctx).Where("id = ?", id).Delete(&Movie{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete movie: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return biz.ErrMovieNotFound
	}

	r.data.afterCommit(ctx, func(ctx context.Context) {
		r.data.evictMovies(ctx, []string{id})
	})
	return nil
}

func (r *movieRepo) CountMovies(ctx context.Context) (int64, error) {
	var n int64
	if err := r.data.DB(ctx).Model(&Movie{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}
	return n, nil
}

func (r *movieRepo) invalidate(ctx context.Context, id string) {
	if r.data.rdb == nil {
		return
	}
	if err := r.data.rdb.Del(ctx, movieCacheKey(id), ratingCacheKey(id)).Err(); err != nil {
		r.log.Warnf("failed to invalidate cache for movie %s: %v", id, err)
	}
}

func movieToModel(m *biz.Movie) *Movie {
	return &Movie{
		ID:          m.ID,
		Title:       m.Title,
		Poster:      m.Poster,
		Description: m.Description,
		ReleaseDate: m.ReleaseDate,
		Actors:      m.Actors,
		Rating:      m.Rating,
		CategoryID:  m.CategoryID,
		TrailerURL:  m.TrailerURL,
		AddedBy:     m.AddedBy,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func movieToBiz(m *Movie) *biz.Movie {
	return &biz.Movie{
		ID:          m.ID,
		Title:       m.Title,
		Poster:      m.Poster,
		Description: m.Description,
		ReleaseDate: m.ReleaseDate,
		Actors:      m.Actors,
		Rating:      m.Rating,
		CategoryID:  m.CategoryID,
		TrailerURL:  m.TrailerURL,
		AddedBy:     m.AddedBy,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func cursorOffset(cursor *string) (int, error) {
	if cursor == nil || *cursor == "" {
		return 0, nil
	}
	offset, err := decodeCursor(*cursor)
	if err != nil {
		return 0, biz.ErrInvalidCursor
	}
	return offset, nil
}

// encodeCursor encodes an offset into a base64 cursor string
func encodeCursor(offset int) string {
	return base64.StdEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

// decodeCursor decodes a base64 cursor string back to an offset
func decodeCursor(cursor string) (int, error) {
	decoded, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return 0, fmt.Errorf("invalid cursor encoding: %w", err)
	}

	offset, err := strconv.Atoi(string(decoded))
	if err != nil {
		return 0, fmt.Errorf("invalid cursor format: %w", err)
	}
	if offset < 0 {
		return 0, fmt.Errorf("invalid cursor offset %d", offset)
	}

	return offset, nil
}
