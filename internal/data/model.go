package data

import (
	"time"
)

// User represents the users table
type User struct {
	ID           string    `gorm:"primaryKey;size:64"`
	Username     string    `gorm:"uniqueIndex;not null;size:150"`
	FirstName    string    `gorm:"not null;size:30"`
	LastName     string    `gorm:"not null;size:30"`
	Email        string    `gorm:"uniqueIndex:uq_users_email,expression:LOWER(email);not null;size:254"`
	PasswordHash string    `gorm:"not null;size:100"`
	IsStaff      bool      `gorm:"not null"`
	DateJoined   time.Time `gorm:"autoCreateTime;index"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}

// UserProfile represents the user_profiles table
type UserProfile struct {
	UserID         string    `gorm:"primaryKey;size:64"`
	Bio            string    `gorm:"not null;size:500"`
	Picture        string    `gorm:"not null;size:255"`
	Age            *int      `gorm:"check:age BETWEEN 13 AND 120"`
	Gender         string    `gorm:"not null;size:1"`
	Location       string    `gorm:"not null;size:100"`
	FavoriteGenres string    `gorm:"not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

// Category represents the categories table
type Category struct {
	ID          string    `gorm:"primaryKey;size:64"`
	Name        string    `gorm:"uniqueIndex;not null;size:100"`
	Description string    `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Category) TableName() string {
	return "categories"
}

// Movie represents the movies table
type Movie struct {
	ID          string    `gorm:"primaryKey;size:64"`
	Title       string    `gorm:"not null;size:200"`
	Poster      string    `gorm:"not null;size:255"`
	Description string    `gorm:"not null"`
	ReleaseDate time.Time `gorm:"not null;type:date"`
	Actors      string    `gorm:"not null;size:500"`
	Rating      float64   `gorm:"not null;type:numeric(3,1);check:rating >= 0 AND rating <= 10"`
	CategoryID  string    `gorm:"not null;size:64;index"`
	TrailerURL  string    `gorm:"column:trailer_url;not null;size:500"`
	AddedBy     string    `gorm:"not null;size:64;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// TableName overrides the table name
func (Movie) TableName() string {
	return "movies"
}

// UpcomingMovie represents the upcoming_movies table
type UpcomingMovie struct {
	ID                  string    `gorm:"primaryKey;size:64"`
	Title               string    `gorm:"not null;size:200"`
	Poster              string    `gorm:"not null;size:255"`
	Description         string    `gorm:"not null"`
	ExpectedReleaseDate time.Time `gorm:"not null;type:date;index"`
	Actors              string    `gorm:"not null;size:500"`
	CategoryID          string    `gorm:"not null;size:64;index"`
	TrailerURL          string    `gorm:"column:trailer_url;not null;size:500"`
	AddedBy             string    `gorm:"not null;size:64;index"`
	CreatedAt           time.Time `gorm:"autoCreateTime"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime"`
}

func (UpcomingMovie) TableName() string {
	return "upcoming_movies"
}

// Rating represents the ratings table
type Rating struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    string    `gorm:"not null;size:64;uniqueIndex:uq_ratings_user_movie"`
	MovieID   string    `gorm:"not null;size:64;uniqueIndex:uq_ratings_user_movie;index:idx_ratings_movie_id"`
	Rating    int       `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName overrides the table name
func (Rating) TableName() string {
	return "ratings"
}

// Review represents the reviews table
type Review struct {
	ID        string    `gorm:"primaryKey;size:64"`
	UserID    string    `gorm:"not null;size:64;uniqueIndex:uq_reviews_user_movie"`
	MovieID   string    `gorm:"not null;size:64;uniqueIndex:uq_reviews_user_movie;index:idx_reviews_movie_id"`
	Text      string    `gorm:"column:review_text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Review) TableName() string {
	return "reviews"
}

// WatchlistEntry represents the watchlist table. The row is the membership.
type WatchlistEntry struct {
	UserID  string    `gorm:"primaryKey;size:64"`
	MovieID string    `gorm:"primaryKey;size:64;index"`
	AddedAt time.Time `gorm:"autoCreateTime"`
}

func (WatchlistEntry) TableName() string {
	return "watchlist"
}

// RatingAggregate represents the aggregated rating result
type RatingAggregate struct {
	Average float64
	Count   int32
}
