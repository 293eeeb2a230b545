package biz

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxUsernameLen      = 150
	maxNameLen          = 30
	minPasswordLen      = 8
	DefaultUserPageSize = 20
)

// Registration carries the sign-up form.
type Registration struct {
	Username        string
	FirstName       string
	LastName        string
	Email           string
	Password        string
	PasswordConfirm string
}

// Session is a signed access token for a logged-in user.
type Session struct {
	User      *User
	Token     string
	ExpiresAt time.Time
}

// UserUseCase handles accounts: registration, login, and staff user management.
type UserUseCase struct {
	repo        UserRepo
	profileRepo ProfileRepo
	tx          Transaction
	tokens      TokenIssuer
	log         *log.Helper
}

func NewUserUseCase(repo UserRepo, profileRepo ProfileRepo, tx Transaction, tokens TokenIssuer, logger log.Logger) *UserUseCase {
	return &UserUseCase{
		repo:        repo,
		profileRepo: profileRepo,
		tx:          tx,
		tokens:      tokens,
		log:         log.NewHelper(logger),
	}
}

// Register creates a user and its profile in one transaction.
func (uc *UserUseCase) Register(ctx context.Context, in *Registration) (*User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	switch {
	case in.Username == "" || in.Email == "" || in.FirstName == "" || in.LastName == "":
		return nil, invalid(ErrInvalidRegistration, "all fields are required")
	case utf8.RuneCountInString(in.Username) > maxUsernameLen:
		return nil, invalid(ErrInvalidRegistration, fmt.Sprintf("username must be at most %d characters", maxUsernameLen))
	case utf8.RuneCountInString(in.FirstName) > maxNameLen || utf8.RuneCountInString(in.LastName) > maxNameLen:
		return nil, invalid(ErrInvalidRegistration, fmt.Sprintf("names must be at most %d characters", maxNameLen))
	case len(in.Password) < minPasswordLen:
		return nil, invalid(ErrInvalidRegistration, fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	case in.Password != in.PasswordConfirm:
		return nil, invalid(ErrInvalidRegistration, "passwords do not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user ID: %w", err)
	}

	user := &User{
		ID:           id.String(),
		Username:     in.Username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: string(hash),
	}

	err = uc.tx.InTx(ctx, func(ctx context.Context) error {
		if err := uc.checkUnique(ctx, user.Username, user.Email, ""); err != nil {
			return err
		}
		if err := uc.repo.CreateUser(ctx, user); err != nil {
			return err
		}
		_, err := uc.profileRepo.EnsureProfile(ctx, user.ID)
		return err
	})
	if err != nil {
		if IsValidation(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	uc.log.WithContext(ctx).Infof("user %s registered", user.ID)
	return user, nil
}

// Login checks the password of the user matching login (username or email)
// and issues a token.
func (uc *UserUseCase) Login(ctx context.Context, login, password string) (*Session, error) {
	user, err := uc.repo.GetUserByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := uc.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &Session{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// ResolveActor loads the user behind an authenticated request. A user that
// no longer exists is treated as unauthenticated.
func (uc *UserUseCase) ResolveActor(ctx context.Context, userID string) (Actor, error) {
	user, err := uc.repo.GetUser(ctx, userID)
	if err != nil {
		if IsNotFound(err) {
			return Actor{}, ErrUnauthenticated
		}
		return Actor{}, err
	}
	return ActorFor(user), nil
}

func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*User, error) {
	return uc.repo.GetUser(ctx, id)
}

// ListUsers pages through users, newest first. Staff only.
func (uc *UserUseCase) ListUsers(ctx context.Context, actor Actor, query *PageQuery) (*UserPage, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if query.Limit <= 0 || query.Limit > 100 {
		query.Limit = DefaultUserPageSize
	}

	page, err := uc.repo.ListUsers(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return page, nil
}

// DeleteUser removes a user and everything they own. Staff only, and never
// the actor's own account.
func (uc *UserUseCase) DeleteUser(ctx context.Context, actor Actor, id string) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	if id == actor.UserID {
		return ErrCannotDeleteSelf
	}
	if _, err := uc.repo.GetUser(ctx, id); err != nil {
		return err
	}

	if err := uc.repo.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	uc.log.WithContext(ctx).Infof("user %s deleted by %s", id, actor.UserID)
	return nil
}

func (uc *UserUseCase) checkUnique(ctx context.Context, username, email, exceptID string) error {
	return checkUserUnique(ctx, uc.repo, username, email, exceptID)
}

func checkUserUnique(ctx context.Context, repo UserRepo, username, email, exceptID string) error {
	taken, err := repo.UsernameTaken(ctx, username, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateUsername
	}

	taken, err = repo.EmailTaken(ctx, email, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateEmail
	}
	return nil
}
