package service

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/auth"
	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/biz"
)

// CatalogService serves categories and upcoming movies.
type CatalogService struct {
	categoryUC *biz.CategoryUseCase
	upcomingUC *biz.UpcomingMovieUseCase
	validate   *validator.Validate
}

func NewCatalogService(categoryUC *biz.CategoryUseCase, upcomingUC *biz.UpcomingMovieUseCase) *CatalogService {
	return &CatalogService{
		categoryUC: categoryUC,
		upcomingUC: upcomingUC,
		validate:   newValidator(),
	}
}

func (s *CatalogService) ListCategories(ctx context.Context, _ *EmptyRequest) (*CategoriesReply, error) {
	categories, err := s.categoryUC.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*CategoryReply, 0, len(categories))
	for _, c := range categories {
		items = append(items, toCategoryReply(c))
	}
	return &CategoriesReply{Items: items}, nil
}

// GetCategory returns the category with one page of its movies.
func (s *CatalogService) GetCategory(ctx context.Context, req *CategoryRequest) (*CategoryDetailReply, error) {
	if err := checkRequest(s.validate, req, ErrInvalidRequest); err != nil {
		return nil, err
	}

	category, page, err := s.categoryUC.GetCategoryMovies(ctx, req.ID, &biz.PageQuery{Limit: req.Limit, Cursor: req.Cursor})
	if err != nil {
		return nil, err
	}

	return &CategoryDetailReply{
		CategoryReply: *toCategoryReply(category),
		Movies:        toMovieReplies(page.Items),
		NextCursor:    page.NextCursor,
	}, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*CreateCategoryReply, error) {
	category, err := s.categoryUC.CreateCategory(ctx, auth.FromContext(ctx), req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	return &CreateCategoryReply{CategoryReply: *toCategoryReply(category)}, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, req *IDRequest) (*EmptyReply, error) {
	if err := s.categoryUC.DeleteCategory(ctx, auth.FromContext(ctx), req.ID); err != nil {
		return nil, err
	}
	return &EmptyReply{}, nil
}

func (s *CatalogService) ListUpcomingMovies(ctx context.Context, _ *EmptyRequest) (*UpcomingMoviesReply, error) {
	movies, err := s.upcomingUC.ListUpcomingMovies(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*UpcomingMovieReply, 0, len(movies))
	for _, m := range movies {
		items = append(items, toUpcomingReply(m))
	}
	return &UpcomingMoviesReply{Items: items}, nil
}

func (s *CatalogService) GetUpcomingMovie(ctx context.Context, req *IDRequest) (*UpcomingMovieReply, error) {
	movie, err := s.upcomingUC.GetUpcomingMovie(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return toUpcomingReply(movie), nil
}

func (s *CatalogService) CreateUpcomingMovie(ctx context.Context, req *UpcomingMovieRequest) (*CreateUpcomingMovieReply, error) {
	in, err := s.upcomingInput(req)
	if err != nil {
		return nil, err
	}

	movie, err := s.upcomingUC.CreateUpcomingMovie(ctx, auth.FromContext(ctx), in)
	if err != nil {
		return nil, err
	}
	return &CreateUpcomingMovieReply{UpcomingMovieReply: *toUpcomingReply(movie)}, nil
}

func (s *CatalogService) UpdateUpcomingMovie(ctx context.Context, req *UpcomingMovieRequest) (*UpcomingMovieReply, error) {
	in, err := s.upcomingInput(req)
	if err != nil {
		return nil, err
	}

	movie, err := s.upcomingUC.UpdateUpcomingMovie(ctx, auth.FromContext(ctx), req.ID, in)
	if err != nil {
		return nil, err
	}
	return toUpcomingReply(movie), nil
}

func (s *CatalogService) DeleteUpcomingMovie(ctx context.Context, req *IDRequest) (*EmptyReply, error) {
	if err := s.upcomingUC.DeleteUpcomingMovie(ctx, auth.FromContext(ctx), req.ID); err != nil {
		return nil, err
	}
	return &EmptyReply{}, nil
}

func (s *CatalogService) upcomingInput(req *UpcomingMovieRequest) (*biz.UpcomingMovieInput, error) {
	if err := checkRequest(s.validate, req, biz.ErrInvalidUpcomingMovie); err != nil {
		return nil, err
	}
	expected, err := parseDate(req.ExpectedReleaseDate, "expected_release_date", biz.ErrInvalidUpcomingMovie)
	if err != nil {
		return nil, err
	}

	return &biz.UpcomingMovieInput{
		Title:               req.Title,
		Poster:              req.Poster,
		Description:         req.Description,
		ExpectedReleaseDate: expected,
		Actors:              req.Actors,
		CategoryID:          req.CategoryID,
		TrailerURL:          req.TrailerURL,
	}, nil
}
