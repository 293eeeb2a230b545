package service

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/auth"
	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/biz"
)

// AdminService serves the staff dashboard and user management.
type AdminService struct {
	adminUC  *biz.AdminUseCase
	userUC   *biz.UserUseCase
	validate *validator.Validate
}

func NewAdminService(adminUC *biz.AdminUseCase, userUC *biz.UserUseCase) *AdminService {
	return &AdminService{
		adminUC:  adminUC,
		userUC:   userUC,
		validate: newValidator(),
	}
}

func (s *AdminService) Dashboard(ctx context.Context, _ *EmptyRequest) (*DashboardReply, error) {
	d, err := s.adminUC.Dashboard(ctx, auth.FromContext(ctx))
	if err != nil {
		return nil, err
	}

	return &DashboardReply{
		TotalMovies:     d.TotalMovies,
		TotalUsers:      d.TotalUsers,
		TotalCategories: d.TotalCategories,
		RecentMovies:    toMovieReplies(d.RecentMovies),
		RecentUsers:     toUserReplies(d.RecentUsers),
	}, nil
}

func (s *AdminService) ListUsers(ctx context.Context, req *PageRequest) (*UsersReply, error) {
	if err := checkRequest(s.validate, req, ErrInvalidRequest); err != nil {
		return nil, err
	}

	page, err := s.userUC.ListUsers(ctx, auth.FromContext(ctx), &biz.PageQuery{Limit: req.Limit, Cursor: req.Cursor})
	if err != nil {
		return nil, err
	}
	return &UsersReply{Items: toUserReplies(page.Items), NextCursor: page.NextCursor}, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, req *IDRequest) (*EmptyReply, error) {
	if err := s.userUC.DeleteUser(ctx, auth.FromContext(ctx), req.ID); err != nil {
		return nil, err
	}
	return &EmptyReply{}, nil
}
