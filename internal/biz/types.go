package biz

import (
	"context"
	"time"
)

// User domain model
type User struct {
	ID           string
	Username     string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	IsStaff      bool
	DateJoined   time.Time
}

// Actor is the identity a request acts as. The zero value is anonymous.
type Actor struct {
	UserID   string
	Username string
	IsStaff  bool
}

func (a Actor) Authenticated() bool {
	return a.UserID != ""
}

// ActorFor builds the actor for a stored user.
func ActorFor(u *User) Actor {
	return Actor{UserID: u.ID, Username: u.Username, IsStaff: u.IsStaff}
}

// Category domain model
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// Movie domain model
type Movie struct {
	ID          string
	Title       string
	Poster      string
	Description string
	ReleaseDate time.Time
	Actors      string
	Rating      float64
	CategoryID  string
	TrailerURL  string
	AddedBy     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (m *Movie) Owner() string { return m.AddedBy }

// UpcomingMovie domain model
type UpcomingMovie struct {
	ID                  string
	Title               string
	Poster              string
	Description         string
	ExpectedReleaseDate time.Time
	Actors              string
	CategoryID          string
	TrailerURL          string
	AddedBy             string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (m *UpcomingMovie) Owner() string { return m.AddedBy }

// Rating domain model
type Rating struct {
	UserID    string
	MovieID   string
	Rating    int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RatingAggregate domain model
type RatingAggregate struct {
	Average float64
	Count   int32
}

// RankedMovie is one entry of a rating leaderboard.
type RankedMovie struct {
	MovieID string
	Score   float64
}

// Review domain model
type Review struct {
	ID        string
	UserID    string
	MovieID   string
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WatchlistEntry domain model. The row existing is the membership.
type WatchlistEntry struct {
	UserID  string
	MovieID string
	AddedAt time.Time
}

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "O"
)

func (g Gender) Valid() bool {
	switch g {
	case "", GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// UserProfile domain model, one per user.
type UserProfile struct {
	UserID         string
	Bio            string
	Picture        string
	Age            *int
	Gender         Gender
	Location       string
	FavoriteGenres string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// MovieInput carries the editable movie fields.
type MovieInput struct {
	Title       string
	Poster      string
	Description string
	ReleaseDate time.Time
	Actors      string
	Rating      float64
	CategoryID  string
	TrailerURL  string
}

// UpcomingMovieInput carries the editable upcoming-movie fields.
type UpcomingMovieInput struct {
	Title               string
	Poster              string
	Description         string
	ExpectedReleaseDate time.Time
	Actors              string
	CategoryID          string
	TrailerURL          string
}

// MovieListQuery domain model
type MovieListQuery struct {
	Q          *string
	CategoryID *string
	AddedBy    *string
	Limit      int32
	Cursor     *string
}

// MoviePage domain model
type MoviePage struct {
	Items      []*Movie
	NextCursor *string
}

// PageQuery is a plain cursor page request.
type PageQuery struct {
	Limit  int32
	Cursor *string
}

// UserPage domain model
type UserPage struct {
	Items      []*User
	NextCursor *string
}

// Transaction runs fn inside one database transaction. Repos called with the
// ctx handed to fn join that transaction.
type Transaction interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepo defines the repository interface for users
type UserRepo interface {
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByLogin(ctx context.Context, usernameOrEmail string) (*User, error)
	UpdateUser(ctx context.Context, user *User) error
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context, query *PageQuery) (*UserPage, error)
	CountUsers(ctx context.Context) (int64, error)
	UsernameTaken(ctx context.Context, username, exceptID string) (bool, error)
	EmailTaken(ctx context.Context, email, exceptID string) (bool, error)
}

// ProfileRepo defines the repository interface for user profiles
type ProfileRepo interface {
	// EnsureProfile creates the profile if absent and returns the stored row.
	EnsureProfile(ctx context.Context, userID string) (*UserProfile, error)
	UpdateProfile(ctx context.Context, profile *UserProfile) error
}

// CategoryRepo defines the repository interface for categories
type CategoryRepo interface {
	CreateCategory(ctx context.Context, category *Category) error
	GetCategory(ctx context.Context, id string) (*Category, error)
	ListCategories(ctx context.Context) ([]*Category, error)
	DeleteCategory(ctx context.Context, id string) error
	CountCategories(ctx context.Context) (int64, error)
}

// MovieRepo defines the repository interface for movies
type MovieRepo interface {
	CreateMovie(ctx context.Context, movie *Movie) error
	GetMovie(ctx context.Context, id string) (*Movie, error)
	ListMovies(ctx context.Context, query *MovieListQuery) (*MoviePage, error)
	UpdateMovie(ctx context.Context, movie *Movie) error
	DeleteMovie(ctx context.Context, id string) error
	CountMovies(ctx context.Context) (int64, error)
}

// UpcomingMovieRepo defines the repository interface for upcoming movies
type UpcomingMovieRepo interface {
	CreateUpcomingMovie(ctx context.Context, movie *UpcomingMovie) error
	GetUpcomingMovie(ctx context.Context, id string) (*UpcomingMovie, error)
	ListUpcomingMovies(ctx context.Context) ([]*UpcomingMovie, error)
	UpdateUpcomingMovie(ctx context.Context, movie *UpcomingMovie) error
	DeleteUpcomingMovie(ctx context.Context, id string) error
}

// RatingRepo defines the repository interface for ratings
type RatingRepo interface {
	GetRating(ctx context.Context, userID, movieID string) (*Rating, error)
	// UpsertRating inserts the row or overwrites rating on (user_id, movie_id) conflict.
	UpsertRating(ctx context.Context, rating *Rating) error
	GetRatingAggregate(ctx context.Context, movieID string) (*RatingAggregate, error)
	TopRated(ctx context.Context, limit int) ([]*RankedMovie, error)
	MostRated(ctx context.Context, limit int) ([]*RankedMovie, error)
}

// ReviewRepo defines the repository interface for reviews
type ReviewRepo interface {
	GetReview(ctx context.Context, id string) (*Review, error)
	FindReview(ctx context.Context, userID, movieID string) (*Review, error)
	// UpsertReview inserts the row or overwrites the text on (user_id, movie_id) conflict.
	UpsertReview(ctx context.Context, review *Review) error
	DeleteReview(ctx context.Context, id string) error
	ListReviews(ctx context.Context, movieID string) ([]*Review, error)
}

// WatchlistRepo defines the repository interface for watchlist rows
type WatchlistRepo interface {
	// RemoveEntry reports whether a row was deleted.
	RemoveEntry(ctx context.Context, userID, movieID string) (bool, error)
	// AddEntry returns ErrAlreadyInWatchlist on a duplicate pair.
	AddEntry(ctx context.Context, entry *WatchlistEntry) error
	HasEntry(ctx context.Context, userID, movieID string) (bool, error)
	ListEntries(ctx context.Context, userID string) ([]*WatchlistEntry, error)
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(user *User) (string, time.Time, error)
}

// EventPublisher emits domain events after a mutation commits.
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
}

const (
	EventMovieRated       = "movie.rated"
	EventReviewSaved      = "review.saved"
	EventReviewDeleted    = "review.deleted"
	EventWatchlistAdded   = "watchlist.added"
	EventWatchlistRemoved = "watchlist.removed"
)

// Event is the payload published on the event bus.
type Event struct {
	Type       string    `json:"event_type"`
	UserID     string    `json:"user_id"`
	MovieID    string    `json:"movie_id"`
	Value      int       `json:"value,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
