package biz

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

const maxCategoryNameLen = 100

// CategoryUseCase manages categories. Mutations are staff only.
type CategoryUseCase struct {
	repo      CategoryRepo
	movieRepo MovieRepo
	log       *log.Helper
}

func NewCategoryUseCase(repo CategoryRepo, movieRepo MovieRepo, logger log.Logger) *CategoryUseCase {
	return &CategoryUseCase{
		repo:      repo,
		movieRepo: movieRepo,
		log:       log.NewHelper(logger),
	}
}

func (uc *CategoryUseCase) CreateCategory(ctx context.Context, actor Actor, name, description string) (*Category, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid(ErrInvalidCategory, "name is required")
	}
	if utf8.RuneCountInString(name) > maxCategoryNameLen {
		return nil, invalid(ErrInvalidCategory, fmt.Sprintf("name must be at most %d characters", maxCategoryNameLen))
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate category ID: %w", err)
	}

	category := &Category{ID: id.String(), Name: name, Description: strings.TrimSpace(description)}
	if err := uc.repo.CreateCategory(ctx, category); err != nil {
		if IsValidation(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (uc *CategoryUseCase) GetCategory(ctx context.Context, id string) (*Category, error) {
	return uc.repo.GetCategory(ctx, id)
}

// GetCategoryMovies returns the category and one page of its movies.
func (uc *CategoryUseCase) GetCategoryMovies(ctx context.Context, id string, page *PageQuery) (*Category, *MoviePage, error) {
	category, err := uc.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	limit := page.Limit
	if limit <= 0 || limit > 100 {
		limit = DefaultMoviePageSize
	}
	movies, err := uc.movieRepo.ListMovies(ctx, &MovieListQuery{CategoryID: &id, Limit: limit, Cursor: page.Cursor})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list movies: %w", err)
	}
	return category, movies, nil
}

// ListCategories returns every category ordered by name.
func (uc *CategoryUseCase) ListCategories(ctx context.Context) ([]*Category, error) {
	categories, err := uc.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// DeleteCategory removes a category together with its movies and upcoming movies.
func (uc *CategoryUseCase) DeleteCategory(ctx context.Context, actor Actor, id string) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	if _, err := uc.repo.GetCategory(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	uc.log.WithContext(ctx).Infof("category %s deleted by %s", id, actor.UserID)
	return nil
}
