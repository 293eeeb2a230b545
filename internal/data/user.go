package data

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/biz"
)

const (
	usernameConstraint = "uq_users_username"
	emailConstraint    = "uq_users_email"
)

type userRepo struct {
	data *Data
	log  *log.Helper
}

// NewUserRepo creates a new user repository
func NewUserRepo(data *Data, logger log.Logger) biz.UserRepo {
	return &userRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *userRepo) CreateUser(ctx context.Context, user *biz.User) error {
	dbUser := userToModel(user)
	if err := r.data.DB(ctx).Create(dbUser).Error; err != nil {
		if dup := duplicateUserError(err); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.DateJoined = dbUser.DateJoined
	return nil
}

func (r *userRepo) GetUser(ctx context.Context, id string) (*biz.User, error) {
	var dbUser User
	if err := r.data.DB(ctx).Where("id = ?", id).First(&dbUser).Error; err != nil {
		if isNotFound(err) {
			return nil, biz.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return userToBiz(&dbUser), nil
}

// GetUserByLogin matches the username first, then the email case-insensitively.
func (r *userRepo) GetUserByLogin(ctx context.Context, usernameOrEmail string) (*biz.User, error) {
	var dbUser User
	err := r.data.DB(ctx).Where("username = ?", usernameOrEmail).First(&dbUser).Error
	if isNotFound(err) {
		err = r.data.DB(ctx).Where("LOWER(email) = LOWER(?)", usernameOrEmail).First(&dbUser).Error
	}
	if err != nil {
		if isNotFound(err) {
			return nil, biz.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return userToBiz(&dbUser), nil
}

func (r *userRepo) UpdateUser(ctx context.Context, user *biz.User) error {
	res := r.data.DB(ctx).Model(&User{}).Where("id = ?", user.ID).Updates(map[string]any{
		"username":   user.Username,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"email":      user.Email,
	})
	if res.Error != nil {
		if dup := duplicateUserError(res.Error); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return biz.ErrUserNotFound
	}
	return nil
}

// DeleteUser removes the user row; the schema cascades to everything the
// user owns. Cached movies the user added and aggregates of movies the user
// rated are evicted once the delete commits.
func (r *userRepo) DeleteUser(ctx context.Context, id string) error {
	var owned, rated []string
	if r.data.rdb != nil {
		db := r.data.DB(ctx)
		if err := db.Model(&Movie{}).Where("added_by = ?", id).Pluck("id", &owned).Error; err != nil {
			return fmt.Errorf("failed to list user movies: %w", err)
		}
		if err := db.Model(&Rating{}).Distinct("movie_id").Where("user_id = ?", id).Pluck("movie_id", &rated).Error; err != nil {
			return fmt.Errorf("failed to list user ratings: %w", err)
		}
	}

	res := r.data.DB(ctx).Where("id = ?", id).Delete(&User{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return biz.ErrUserNotFound
	}

	r.data.afterCommit(ctx, func(ctx context.Context) {
		r.data.evictMovies(ctx, owned)
		r.data.evictRatings(ctx, rated)
	})
	return nil
}

func (r *userRepo) ListUsers(ctx context.Context, query *biz.PageQuery) (*biz.UserPage, error) {
	offset, err := cursorOffset(query.Cursor)
	if err != nil {
		return nil, err
	}

	limit := query.Limit
	if limit <= 0 {
		limit = biz.DefaultUserPageSize
	}

	var rows []User
	err = r.data.DB(ctx).
		Order("date_joined DESC").Order("id DESC").
		Offset(offset).Limit(int(limit + 1)).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	hasMore := len(rows) > int(limit)
	if hasMore {
		rows = rows[:limit]
	}

	users := make([]*biz.User, 0, len(rows))
	for i := range rows {
		users = append(users, userToBiz(&rows[i]))
	}

	page := &biz.UserPage{Items: users}
	if hasMore {
		next := encodeCursor(offset + int(limit))
		page.NextCursor = &next
	}
	return page, nil
}

func (r *userRepo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := r.data.DB(ctx).Model(&User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func (r *userRepo) UsernameTaken(ctx context.Context, username, exceptID string) (bool, error) {
	return r.exists(ctx, "username = ?", username, exceptID)
}

func (r *userRepo) EmailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	return r.exists(ctx, "LOWER(email) = LOWER(?)", email, exceptID)
}

func (r *userRepo) exists(ctx context.Context, cond, value, exceptID string) (bool, error) {
	db := r.data.DB(ctx).Model(&User{}).Where(cond, value)
	if exceptID != "" {
		db = db.Where("id <> ?", exceptID)
	}

	var n int64
	if err := db.Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check user uniqueness: %w", err)
	}
	return n > 0, nil
}

// duplicateUserError maps a unique violation on users to the validation
// error for the offending column.
func duplicateUserError(err error) error {
	constraint, ok := uniqueViolation(err)
	if !ok {
		return nil
	}
	switch constraint {
	case usernameConstraint:
		return biz.ErrDuplicateUsername
	case emailConstraint:
		return biz.ErrDuplicateEmail
	}
	return nil
}

func userToModel(u *biz.User) *User {
	return &User{
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsStaff:      u.IsStaff,
		DateJoined:   u.DateJoined,
	}
}

func userToBiz(m *User) *biz.User {
	return &biz.User{
		ID:           m.ID,
		Username:     m.Username,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		IsStaff:      m.IsStaff,
		DateJoined:   m.DateJoined,
	}
}
