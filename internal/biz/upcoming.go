package biz

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// UpcomingMovieUseCase manages upcoming releases. Only staff add them; the
// owner or staff may change them afterwards.
type UpcomingMovieUseCase struct {
	repo         UpcomingMovieRepo
	categoryRepo CategoryRepo
	log          *log.Helper
}

func NewUpcomingMovieUseCase(repo UpcomingMovieRepo, categoryRepo CategoryRepo, logger log.Logger) *UpcomingMovieUseCase {
	return &UpcomingMovieUseCase{
		repo:         repo,
		categoryRepo: categoryRepo,
		log:          log.NewHelper(logger),
	}
}

func (uc *UpcomingMovieUseCase) CreateUpcomingMovie(ctx context.Context, actor Actor, in *UpcomingMovieInput) (*UpcomingMovie, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if err := uc.validate(ctx, in); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate upcoming movie ID: %w", err)
	}

	movie := &UpcomingMovie{ID: id.String(), AddedBy: actor.UserID}
	applyUpcomingInput(movie, in)
	if err := uc.repo.CreateUpcomingMovie(ctx, movie); err != nil {
		return nil, fmt.Errorf("failed to create upcoming movie: %w", err)
	}
	return movie, nil
}

func (uc *UpcomingMovieUseCase) GetUpcomingMovie(ctx context.Context, id string) (*UpcomingMovie, error) {
	return uc.repo.GetUpcomingMovie(ctx, id)
}

// ListUpcomingMovies returns upcoming releases, soonest first.
func (uc *UpcomingMovieUseCase) ListUpcomingMovies(ctx context.Context) ([]*UpcomingMovie, error) {
	movies, err := uc.repo.ListUpcomingMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming movies: %w", err)
	}
	return movies, nil
}

func (uc *UpcomingMovieUseCase) UpdateUpcomingMovie(ctx context.Context, actor Actor, id string, in *UpcomingMovieInput) (*UpcomingMovie, error) {
	if err := requireAuth(actor); err != nil {
		return nil, err
	}

	movie, err := uc.repo.GetUpcomingMovie(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanEdit(movie, actor) {
		return nil, ErrCannotEditMovie
	}
	if err := uc.validate(ctx, in); err != nil {
		return nil, err
	}

	applyUpcomingInput(movie, in)
	if err := uc.repo.UpdateUpcomingMovie(ctx, movie); err != nil {
		return nil, fmt.Errorf("failed to update upcoming movie: %w", err)
	}
	return movie, nil
}

func (uc *UpcomingMovieUseCase) DeleteUpcomingMovie(ctx context.Context, actor Actor, id string) error {
	if err := requireAuth(actor); err != nil {
		return err
	}

	movie, err := uc.repo.GetUpcomingMovie(ctx, id)
	if err != nil {
		return err
	}
	if !CanEdit(movie, actor) {
		return ErrCannotEditMovie
	}

	if err := uc.repo.DeleteUpcomingMovie(ctx, id); err != nil {
		return fmt.Errorf("failed to delete upcoming movie: %w", err)
	}
	return nil
}

func (uc *UpcomingMovieUseCase) validate(ctx context.Context, in *UpcomingMovieInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Actors = strings.TrimSpace(in.Actors)
	in.Description = strings.TrimSpace(in.Description)

	switch {
	case in.Title == "":
		return invalid(ErrInvalidUpcomingMovie, "title is required")
	case utf8.RuneCountInString(in.Title) > maxTitleLen:
		return invalid(ErrInvalidUpcomingMovie, fmt.Sprintf("title must be at most %d characters", maxTitleLen))
	case in.Description == "":
		return invalid(ErrInvalidUpcomingMovie, "description is required")
	case in.ExpectedReleaseDate.IsZero():
		return invalid(ErrInvalidUpcomingMovie, "expected release date is required")
	case in.Actors == "":
		return invalid(ErrInvalidUpcomingMovie, "actors are required")
	case utf8.RuneCountInString(in.Actors) > maxActorsLen:
		return invalid(ErrInvalidUpcomingMovie, fmt.Sprintf("actors must be at most %d characters", maxActorsLen))
	case in.CategoryID == "":
		return invalid(ErrInvalidUpcomingMovie, "category is required")
	}

	if _, err := uc.categoryRepo.GetCategory(ctx, in.CategoryID); err != nil {
		if IsNotFound(err) {
			return invalid(ErrInvalidUpcomingMovie, "category does not exist")
		}
		return err
	}
	return nil
}

func applyUpcomingInput(m *UpcomingMovie, in *UpcomingMovieInput) {
	m.Title = in.Title
	m.Poster = in.Poster
	m.Description = in.Description
	m.ExpectedReleaseDate = in.ExpectedReleaseDate
	m.Actors = in.Actors
	m.CategoryID = in.CategoryID
	m.TrailerURL = in.TrailerURL
}
