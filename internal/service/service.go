package service

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/wire"

	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/biz"
)

// ProviderSet is service providers.
var ProviderSet = wire.NewSet(NewMovieService, NewCatalogService, NewAccountService, NewAdminService)

const dateLayout = "2006-01-02"

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkRequest runs the struct tag rules of req and reports the first failing
// field under the code and reason of base.
func checkRequest(v *validator.Validate, req any, base *errors.Error) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		msg := fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
		if fe.Tag() == "email" {
			msg = "enter a valid email address"
		}
		return errors.New(int(base.Code), base.Reason, msg)
	}
	return errors.New(int(base.Code), base.Reason, err.Error())
}

// parseDate accepts YYYY-MM-DD. An empty string is the zero time so the use
// case reports the missing field.
func parseDate(s, field string, base *errors.Error) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, errors.New(int(base.Code), base.Reason, fmt.Sprintf("invalid %s format, expected YYYY-MM-DD", field))
	}
	return t, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func toMovieReply(m *biz.Movie) *MovieReply {
	return &MovieReply{
		ID:          m.ID,
		Title:       m.Title,
		Poster:      m.Poster,
		Description: m.Description,
		ReleaseDate: formatDate(m.ReleaseDate),
		Actors:      m.Actors,
		Rating:      m.Rating,
		CategoryID:  m.CategoryID,
		TrailerURL:  m.TrailerURL,
		AddedBy:     m.AddedBy,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toMovieReplies(movies []*biz.Movie) []*MovieReply {
	items := make([]*MovieReply, 0, len(movies))
	for _, m := range movies {
		items = append(items, toMovieReply(m))
	}
	return items
}

func toReviewReply(r *biz.Review) *ReviewReply {
	return &ReviewReply{
		ID:        r.ID,
		UserID:    r.UserID,
		MovieID:   r.MovieID,
		Text:      r.Text,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toUserReply(u *biz.User) *UserReply {
	return &UserReply{
		ID:         u.ID,
		Username:   u.Username,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		IsStaff:    u.IsStaff,
		DateJoined: u.DateJoined,
	}
}

func toUserReplies(users []*biz.User) []*UserReply {
	items := make([]*UserReply, 0, len(users))
	for _, u := range users {
		items = append(items, toUserReply(u))
	}
	return items
}

func toCategoryReply(c *biz.Category) *CategoryReply {
	return &CategoryReply{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}

func toUpcomingReply(m *biz.UpcomingMovie) *UpcomingMovieReply {
	return &UpcomingMovieReply{
		ID:                  m.ID,
		Title:               m.Title,
		Poster:              m.Poster,
		Description:         m.Description,
		ExpectedReleaseDate: formatDate(m.ExpectedReleaseDate),
		Actors:              m.Actors,
		CategoryID:          m.CategoryID,
		TrailerURL:          m.TrailerURL,
		AddedBy:             m.AddedBy,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

func toRankingReply(ranked []*biz.RankedMovie) *RankingReply {
	items := make([]*RankedMovieReply, 0, len(ranked))
	for _, r := range ranked {
		items = append(items, &RankedMovieReply{MovieID: r.MovieID, Score: r.Score})
	}
	return &RankingReply{Items: items}
}
