package biz

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-kratos/kratos/v2/log"
)

const (
	minAge    = 13
	maxAge    = 120
	maxBioLen = 500

	profileChecklistSize = 9
)

// ProfileUpdate is one submission of the profile form. User identity fields
// and profile fields are saved together or not at all.
type ProfileUpdate struct {
	Username       string
	FirstName      string
	LastName       string
	Email          string
	Bio            string
	Picture        string
	Age            *int
	Gender         Gender
	Location       string
	FavoriteGenres string
}

// ProfileView is what the profile page shows.
type ProfileView struct {
	User       *User
	Profile    *UserProfile
	Completion int
	Movies     []*Movie
}

// ProfileUseCase reads and edits the actor's own profile.
type ProfileUseCase struct {
	userRepo    UserRepo
	profileRepo ProfileRepo
	movieRepo   MovieRepo
	tx          Transaction
	log         *log.Helper
}

func NewProfileUseCase(userRepo UserRepo, profileRepo ProfileRepo, movieRepo MovieRepo, tx Transaction, logger log.Logger) *ProfileUseCase {
	return &ProfileUseCase{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		movieRepo:   movieRepo,
		tx:          tx,
		log:         log.NewHelper(logger),
	}
}

// GetProfile returns the actor's profile, creating it if it is missing.
func (uc *ProfileUseCase) GetProfile(ctx context.Context, actor Actor) (*ProfileView, error) {
	if err := requireAuth(actor); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	profile, err := uc.profileRepo.EnsureProfile(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure profile: %w", err)
	}

	movies, err := uc.movieRepo.ListMovies(ctx, &MovieListQuery{AddedBy: &user.ID, Limit: DefaultMoviePageSize})
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}

	return &ProfileView{
		User:       user,
		Profile:    profile,
		Completion: CompletionPercentage(user, profile),
		Movies:     movies.Items,
	}, nil
}

// UpdateProfile saves user and profile fields in a single transaction. Any
// validation or persistence failure rolls both back.
func (uc *ProfileUseCase) UpdateProfile(ctx context.Context, actor Actor, in *ProfileUpdate) (*ProfileView, error) {
	if err := requireAuth(actor); err != nil {
		return nil, err
	}

	var (
		user    *User
		profile *UserProfile
	)
	err := uc.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = uc.userRepo.GetUser(ctx, actor.UserID)
		if err != nil {
			return err
		}
		profile, err = uc.profileRepo.EnsureProfile(ctx, actor.UserID)
		if err != nil {
			return err
		}

		applyProfileUpdate(user, profile, in)
		if err := validateProfile(user, profile); err != nil {
			return err
		}
		if err := checkUserUnique(ctx, uc.userRepo, user.Username, user.Email, user.ID); err != nil {
			return err
		}

		if err := uc.userRepo.UpdateUser(ctx, user); err != nil {
			return err
		}
		return uc.profileRepo.UpdateProfile(ctx, profile)
	})
	if err != nil {
		if IsValidation(err) || IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return &ProfileView{
		User:       user,
		Profile:    profile,
		Completion: CompletionPercentage(user, profile),
	}, nil
}

// CompletionPercentage scores how many of the nine checklist fields are set,
// as a whole percent rounded down.
func CompletionPercentage(user *User, profile *UserProfile) int {
	fields := []bool{
		user.FirstName != "",
		user.LastName != "",
		user.Email != "",
		profile.Picture != "",
		profile.Age != nil,
		profile.Gender != "",
		profile.Location != "",
		profile.Bio != "",
		profile.FavoriteGenres != "",
	}

	completed := 0
	for _, set := range fields {
		if set {
			completed++
		}
	}
	return completed * 100 / profileChecklistSize
}

func applyProfileUpdate(user *User, profile *UserProfile, in *ProfileUpdate) {
	user.Username = strings.TrimSpace(in.Username)
	user.FirstName = strings.TrimSpace(in.FirstName)
	user.LastName = strings.TrimSpace(in.LastName)
	user.Email = strings.TrimSpace(in.Email)

	profile.Bio = strings.TrimSpace(in.Bio)
	profile.Picture = in.Picture
	profile.Age = in.Age
	profile.Gender = in.Gender
	profile.Location = strings.TrimSpace(in.Location)
	profile.FavoriteGenres = strings.TrimSpace(in.FavoriteGenres)
}

func validateProfile(user *User, profile *UserProfile) error {
	switch {
	case user.Username == "":
		return invalid(ErrInvalidProfile, "username is required")
	case utf8.RuneCountInString(user.Username) > maxUsernameLen:
		return invalid(ErrInvalidProfile, fmt.Sprintf("username must be at most %d characters", maxUsernameLen))
	case user.Email == "":
		return invalid(ErrInvalidProfile, "email is required")
	case utf8.RuneCountInString(user.FirstName) > maxNameLen || utf8.RuneCountInString(user.LastName) > maxNameLen:
		return invalid(ErrInvalidProfile, fmt.Sprintf("names must be at most %d characters", maxNameLen))
	case utf8.RuneCountInString(profile.Bio) > maxBioLen:
		return invalid(ErrInvalidProfile, fmt.Sprintf("bio must be at most %d characters", maxBioLen))
	}
	if profile.Age != nil && (*profile.Age < minAge || *profile.Age > maxAge) {
		return ErrInvalidAge
	}
	if !profile.Gender.Valid() {
		return ErrInvalidGender
	}
	return nil
}
