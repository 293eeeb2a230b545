package biz

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
)

// Dashboard summarizes the catalog for staff.
type Dashboard struct {
	TotalMovies     int64
	TotalUsers      int64
	TotalCategories int64
	RecentMovies    []*Movie
	RecentUsers     []*User
}

type AdminUseCase struct {
	movieRepo    MovieRepo
	userRepo     UserRepo
	categoryRepo CategoryRepo
	log          *log.Helper
}

func NewAdminUseCase(movieRepo MovieRepo, userRepo UserRepo, categoryRepo CategoryRepo, logger log.Logger) *AdminUseCase {
	return &AdminUseCase{
		movieRepo:    movieRepo,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		log:          log.NewHelper(logger),
	}
}

func (uc *AdminUseCase) Dashboard(ctx context.Context, actor Actor) (*Dashboard, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	var (
		d   Dashboard
		err error
	)
	if d.TotalMovies, err = uc.movieRepo.CountMovies(ctx); err != nil {
		return nil, fmt.Errorf("failed to count movies: %w", err)
	}
	if d.TotalUsers, err = uc.userRepo.CountUsers(ctx); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if d.TotalCategories, err = uc.categoryRepo.CountCategories(ctx); err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}

	movies, err := uc.movieRepo.ListMovies(ctx, &MovieListQuery{Limit: recentLimit})
	if err != nil {
		return nil, fmt.Errorf("failed to list recent movies: %w", err)
	}
	d.RecentMovies = movies.Items

	users, err := uc.userRepo.ListUsers(ctx, &PageQuery{Limit: recentLimit})
	if err != nil {
		return nil, fmt.Errorf("failed to list recent users: %w", err)
	}
	d.RecentUsers = users.Items

	return &d, nil
}
