package data

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm/clause"

	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/biz"
)

type profileRepo struct {
	data *Data
	log  *log.Helper
}

// NewProfileRepo creates a new profile repository
func NewProfileRepo(data *Data, logger log.Logger) biz.ProfileRepo {
	return &profileRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

// EnsureProfile is idempotent: the insert is skipped when the row exists.
func (r *profileRepo) EnsureProfile(ctx context.Context, userID string) (*biz.UserProfile, error) {
	db := r.data.DB(ctx)

	err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&UserProfile{UserID: userID}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to ensure profile: %w", err)
	}

	var dbProfile UserProfile
	if err := db.Where("user_id = ?", userID).First(&dbProfile).Error; err != nil {
		if isNotFound(err) {
			return nil, biz.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profileToBiz(&dbProfile), nil
}

func (r *profileRepo) UpdateProfile(ctx context.Context, profile *biz.UserProfile) error {
	res := r.data.DB(ctx).Model(&UserProfile{}).Where("user_id = ?", profile.UserID).Updates(map[string]any{
		"bio":             profile.Bio,
		"picture":         profile.Picture,
		"age":             profile.Age,
		"gender":          string(profile.Gender),
		"location":        profile.Location,
		"favorite_genres": profile.FavoriteGenres,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return biz.ErrProfileNotFound
	}
	return nil
}

func profileToBiz(m *UserProfile) *biz.UserProfile {
	return &biz.UserProfile{
		UserID:         m.UserID,
		Bio:            m.Bio,
		Picture:        m.Picture,
		Age:            m.Age,
		Gender:         biz.Gender(m.Gender),
		Location:       m.Location,
		FavoriteGenres: m.FavoriteGenres,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
