package service

import (
	"net/http"
	"time"
)

// Path ids bind from route variables, query fields from the URL, the rest
// from the JSON body.

type EmptyRequest struct{}

type EmptyReply struct{}

type IDRequest struct {
	ID string `json:"id" validate:"required"`
}

type PageRequest struct {
	Limit  int32   `json:"limit" validate:"gte=0,lte=100"`
	Cursor *string `json:"cursor"`
}

type HealthReply struct {
	Status string `json:"status"`
}

// Movies

type MovieRequest struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Poster      string  `json:"poster" validate:"max=255"`
	Description string  `json:"description"`
	ReleaseDate string  `json:"release_date"`
	Actors      string  `json:"actors"`
	Rating      float64 `json:"rating"`
	CategoryID  string  `json:"category_id"`
	TrailerURL  string  `json:"trailer_url" validate:"omitempty,url,max=500"`
}

type MovieReply struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Poster      string    `json:"poster"`
	Description string    `json:"description"`
	ReleaseDate string    `json:"release_date"`
	Actors      string    `json:"actors"`
	Rating      float64   `json:"rating"`
	CategoryID  string    `json:"category_id"`
	TrailerURL  string    `json:"trailer_url,omitempty"`
	AddedBy     string    `json:"added_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateMovieReply struct {
	MovieReply
}

func (*CreateMovieReply) HTTPStatus() int { return http.StatusCreated }

type MovieDetailReply struct {
	MovieReply
	AverageRating float64        `json:"average_rating"`
	TotalRatings  int32          `json:"total_ratings"`
	UserRating    int            `json:"user_rating"`
	CanEdit       bool           `json:"can_edit"`
	InWatchlist   bool           `json:"in_watchlist"`
	Reviews       []*ReviewReply `json:"reviews"`
}

type ListMoviesRequest struct {
	Q          *string `json:"q"`
	CategoryID *string `json:"category_id"`
	AddedBy    *string `json:"added_by"`
	Limit      int32   `json:"limit" validate:"gte=0,lte=100"`
	Cursor     *string `json:"cursor"`
}

type ListMoviesReply struct {
	Items      []*MovieReply `json:"items"`
	NextCursor *string       `json:"next_cursor,omitempty"`
}

// Ratings

type RateMovieRequest struct {
	ID     string `json:"id" validate:"required"`
	Rating int    `json:"rating"`
}

type RateMovieReply struct {
	MovieID       string  `json:"movie_id"`
	Rating        int     `json:"rating"`
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int32   `json:"total_ratings"`

	created bool
}

// HTTPStatus is 201 for a first rating and 200 for an overwrite.
func (r *RateMovieReply) HTTPStatus() int {
	if r.created {
		return http.StatusCreated
	}
	return http.StatusOK
}

type RatingReply struct {
	MovieID       string  `json:"movie_id"`
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int32   `json:"total_ratings"`
	UserRating    int     `json:"user_rating"`
}

type RankingRequest struct {
	Limit int `json:"limit" validate:"gte=0,lte=100"`
}

type RankedMovieReply struct {
	MovieID string  `json:"movie_id"`
	Score   float64 `json:"score"`
}

type RankingReply struct {
	Items []*RankedMovieReply `json:"items"`
}

// Reviews

type ReviewReply struct {
	ID        string    `json:"id,omitempty"`
	UserID    string    `json:"user_id"`
	MovieID   string    `json:"movie_id"`
	Text      string    `json:"review_text"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

type ReviewDraftReply struct {
	Review  *ReviewReply `json:"review"`
	Editing bool         `json:"editing"`
}

type SaveReviewRequest struct {
	ID   string `json:"id" validate:"required"`
	Text string `json:"review_text"`
}

type SaveReviewReply struct {
	ReviewReply

	created bool
}

func (r *SaveReviewReply) HTTPStatus() int {
	if r.created {
		return http.StatusCreated
	}
	return http.StatusOK
}

// Watchlist

type WatchlistToggleReply struct {
	MovieID     string `json:"movie_id"`
	Status      string `json:"status"`
	InWatchlist bool   `json:"in_watchlist"`
}

type WatchlistItem struct {
	MovieID string    `json:"movie_id"`
	AddedAt time.Time `json:"added_at"`
}

type WatchlistReply struct {
	Items []*WatchlistItem `json:"items"`
}

// Categories

type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CategoryReply struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateCategoryReply struct {
	CategoryReply
}

func (*CreateCategoryReply) HTTPStatus() int { return http.StatusCreated }

type CategoriesReply struct {
	Items []*CategoryReply `json:"items"`
}

type CategoryRequest struct {
	ID     string  `json:"id" validate:"required"`
	Limit  int32   `json:"limit" validate:"gte=0,lte=100"`
	Cursor *string `json:"cursor"`
}

type CategoryDetailReply struct {
	CategoryReply
	Movies     []*MovieReply `json:"movies"`
	NextCursor *string       `json:"next_cursor,omitempty"`
}

// Upcoming movies

type UpcomingMovieRequest struct {
	ID                  string `json:"id"`
	Title               string `json:"title"`
	Poster              string `json:"poster" validate:"max=255"`
	Description         string `json:"description"`
	ExpectedReleaseDate string `json:"expected_release_date"`
	Actors              string `json:"actors"`
	CategoryID          string `json:"category_id"`
	TrailerURL          string `json:"trailer_url" validate:"omitempty,url,max=500"`
}

type UpcomingMovieReply struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	Poster              string    `json:"poster"`
	Description         string    `json:"description"`
	ExpectedReleaseDate string    `json:"expected_release_date"`
	Actors              string    `json:"actors"`
	CategoryID          string    `json:"category_id"`
	TrailerURL          string    `json:"trailer_url,omitempty"`
	AddedBy             string    `json:"added_by"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type CreateUpcomingMovieReply struct {
	UpcomingMovieReply
}

func (*CreateUpcomingMovieReply) HTTPStatus() int { return http.StatusCreated }

type UpcomingMoviesReply struct {
	Items []*UpcomingMovieReply `json:"items"`
}

// Accounts

type RegisterRequest struct {
	Username        string `json:"username"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email" validate:"omitempty,email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

type UserReply struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	IsStaff    bool      `json:"is_staff"`
	DateJoined time.Time `json:"date_joined"`
}

type RegisterReply struct {
	UserReply
}

func (*RegisterReply) HTTPStatus() int { return http.StatusCreated }

type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type LoginReply struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      *UserReply `json:"user"`
}

type UpdateProfileRequest struct {
	Username       string `json:"username"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email" validate:"omitempty,email"`
	Bio            string `json:"bio"`
	Picture        string `json:"picture" validate:"max=255"`
	Age            *int   `json:"age"`
	Gender         string `json:"gender"`
	Location       string `json:"location" validate:"max=100"`
	FavoriteGenres string `json:"favorite_genres"`
}

type ProfileReply struct {
	User                 *UserReply    `json:"user"`
	Bio                  string        `json:"bio"`
	Picture              string        `json:"picture"`
	Age                  *int          `json:"age"`
	Gender               string        `json:"gender"`
	Location             string        `json:"location"`
	FavoriteGenres       string        `json:"favorite_genres"`
	CompletionPercentage int           `json:"completion_percentage"`
	Movies               []*MovieReply `json:"movies,omitempty"`
}

// Admin

type DashboardReply struct {
	TotalMovies     int64         `json:"total_movies"`
	TotalUsers      int64         `json:"total_users"`
	TotalCategories int64         `json:"total_categories"`
	RecentMovies    []*MovieReply `json:"recent_movies"`
	RecentUsers     []*UserReply  `json:"recent_users"`
}

type UsersReply struct {
	Items      []*UserReply `json:"items"`
	NextCursor *string      `json:"next_cursor,omitempty"`
}
