package service

import (
	"context"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-playground/validator/v10"

	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/auth"
	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/biz"
)

// AccountService serves registration, login and the caller's own profile.
type AccountService struct {
	userUC    *biz.UserUseCase
	profileUC *biz.ProfileUseCase
	validate  *validator.Validate
	log       *log.Helper
}

func NewAccountService(userUC *biz.UserUseCase, profileUC *biz.ProfileUseCase, logger log.Logger) *AccountService {
	return &AccountService{
		userUC:    userUC,
		profileUC: profileUC,
		validate:  newValidator(),
		log:       log.NewHelper(logger),
	}
}

func (s *AccountService) Register(ctx context.Context, req *RegisterRequest) (*RegisterReply, error) {
	if err := checkRequest(s.validate, req, biz.ErrInvalidRegistration); err != nil {
		return nil, err
	}

	user, err := s.userUC.Register(ctx, &biz.Registration{
		Username:        req.Username,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		return nil, err
	}
	return &RegisterReply{UserReply: *toUserReply(user)}, nil
}

func (s *AccountService) Login(ctx context.Context, req *LoginRequest) (*LoginReply, error) {
	session, err := s.userUC.Login(ctx, req.Login, req.Password)
	if err != nil {
		if errors.Is(err, biz.ErrInvalidCredentials) {
			s.log.WithContext(ctx).Infof("failed login for %q", req.Login)
		}
		return nil, err
	}

	return &LoginReply{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      toUserReply(session.User),
	}, nil
}

func (s *AccountService) GetProfile(ctx context.Context, _ *EmptyRequest) (*ProfileReply, error) {
	view, err := s.profileUC.GetProfile(ctx, auth.FromContext(ctx))
	if err != nil {
		return nil, err
	}
	return toProfileReply(view), nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, req *UpdateProfileRequest) (*ProfileReply, error) {
	if err := checkRequest(s.validate, req, biz.ErrInvalidProfile); err != nil {
		return nil, err
	}

	view, err := s.profileUC.UpdateProfile(ctx, auth.FromContext(ctx), &biz.ProfileUpdate{
		Username:       req.Username,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Bio:            req.Bio,
		Picture:        req.Picture,
		Age:            req.Age,
		Gender:         biz.Gender(req.Gender),
		Location:       req.Location,
		FavoriteGenres: req.FavoriteGenres,
	})
	if err != nil {
		return nil, err
	}
	return toProfileReply(view), nil
}

func toProfileReply(v *biz.ProfileView) *ProfileReply {
	reply := &ProfileReply{
		User:                 toUserReply(v.User),
		Bio:                  v.Profile.Bio,
		Picture:              v.Profile.Picture,
		Age:                  v.Profile.Age,
		Gender:               string(v.Profile.Gender),
		Location:             v.Profile.Location,
		FavoriteGenres:       v.Profile.FavoriteGenres,
		CompletionPercentage: v.Completion,
	}
	if len(v.Movies) > 0 {
		reply.Movies = toMovieReplies(v.Movies)
	}
	return reply
}
