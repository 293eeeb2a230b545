package biz

import (
	"net/http"

	"github.com/go-kratos/kratos/v2/errors"
)

// Custom errors. Validation failures are 422, ownership and staff gates 403,
// missing entities 404.
var (
	ErrUnauthenticated    = errors.Unauthorized("UNAUTHENTICATED", "login required")
	ErrInvalidCredentials = errors.Unauthorized("INVALID_CREDENTIALS", "invalid username or password")

	ErrRatingOutOfRange     = errors.New(http.StatusUnprocessableEntity, "RATING_OUT_OF_RANGE", "rating out of range")
	ErrEmptyReview          = errors.New(http.StatusUnprocessableEntity, "EMPTY_REVIEW", "review text must not be empty")
	ErrInvalidAge           = errors.New(http.StatusUnprocessableEntity, "INVALID_AGE", "age must be between 13 and 120")
	ErrInvalidGender        = errors.New(http.StatusUnprocessableEntity, "INVALID_GENDER", "gender must be one of M, F, O")
	ErrDuplicateUsername    = errors.New(http.StatusUnprocessableEntity, "DUPLICATE_USERNAME", "username is already taken")
	ErrDuplicateEmail       = errors.New(http.StatusUnprocessableEntity, "DUPLICATE_EMAIL", "this email address is already registered")
	ErrDuplicateCategory    = errors.New(http.StatusUnprocessableEntity, "DUPLICATE_CATEGORY", "category already exists")
	ErrInvalidMovie         = errors.New(http.StatusUnprocessableEntity, "INVALID_MOVIE", "invalid movie")
	ErrInvalidUpcomingMovie = errors.New(http.StatusUnprocessableEntity, "INVALID_UPCOMING_MOVIE", "invalid upcoming movie")
	ErrInvalidCategory      = errors.New(http.StatusUnprocessableEntity, "INVALID_CATEGORY", "invalid category")
	ErrInvalidProfile       = errors.New(http.StatusUnprocessableEntity, "INVALID_PROFILE", "invalid profile")
	ErrInvalidRegistration  = errors.New(http.StatusUnprocessableEntity, "INVALID_REGISTRATION", "invalid registration")

	ErrCannotEditMovie    = errors.Forbidden("CANNOT_EDIT_MOVIE", "you can only change movies you added")
	ErrCannotDeleteReview = errors.Forbidden("CANNOT_DELETE_REVIEW", "you can only delete your own review")
	ErrStaffOnly          = errors.Forbidden("STAFF_ONLY", "staff privilege required")
	ErrCannotDeleteSelf   = errors.Forbidden("CANNOT_DELETE_SELF", "cannot delete own account")

	ErrMovieNotFound         = errors.NotFound("MOVIE_NOT_FOUND", "movie not found")
	ErrUpcomingMovieNotFound = errors.NotFound("UPCOMING_MOVIE_NOT_FOUND", "upcoming movie not found")
	ErrCategoryNotFound      = errors.NotFound("CATEGORY_NOT_FOUND", "category not found")
	ErrUserNotFound          = errors.NotFound("USER_NOT_FOUND", "user not found")
	ErrReviewNotFound        = errors.NotFound("REVIEW_NOT_FOUND", "review not found")
	ErrRatingNotFound        = errors.NotFound("RATING_NOT_FOUND", "rating not found")
	ErrProfileNotFound       = errors.NotFound("PROFILE_NOT_FOUND", "profile not found")

	ErrInvalidCursor = errors.BadRequest("INVALID_CURSOR", "invalid page cursor")

	// ErrAlreadyInWatchlist is returned by WatchlistRepo.AddEntry on a duplicate pair.
	ErrAlreadyInWatchlist = errors.Conflict("ALREADY_IN_WATCHLIST", "movie already in watchlist")
)

func IsValidation(err error) bool {
	return err != nil && errors.Code(err) == http.StatusUnprocessableEntity
}

func IsPermissionDenied(err error) bool {
	return errors.IsForbidden(err)
}

func IsNotFound(err error) bool {
	return errors.IsNotFound(err)
}

// invalid attaches a field-specific message to a validation sentinel.
func invalid(base *errors.Error, message string) error {
	return errors.New(int(base.Code), base.Reason, message)
}
