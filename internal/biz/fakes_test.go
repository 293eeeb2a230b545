package biz_test

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/biz"
)

type pair struct{ user, movie string }

// memStore implements every repo interface plus Transaction over maps.
// InTx snapshots the maps and restores them when fn fails.
type memStore struct {
	mu    sync.Mutex
	clock time.Time

	users      map[string]*biz.User
	profiles   map[string]*biz.UserProfile
	categories map[string]*biz.Category
	movies     map[string]*biz.Movie
	upcoming   map[string]*biz.UpcomingMovie
	ratings    map[pair]*biz.Rating
	reviews    map[string]*biz.Review
	watchlist  map[pair]*biz.WatchlistEntry

	updateProfileErr error
}

func newMemStore() *memStore {
	return &memStore{
		clock:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		users:      map[string]*biz.User{},
		profiles:   map[string]*biz.UserProfile{},
		categories: map[string]*biz.Category{},
		movies:     map[string]*biz.Movie{},
		upcoming:   map[string]*biz.UpcomingMovie{},
		ratings:    map[pair]*biz.Rating{},
		reviews:    map[string]*biz.Review{},
		watchlist:  map[pair]*biz.WatchlistEntry{},
	}
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func cloneMap[K comparable, V any](m map[K]*V) map[K]*V {
	out := make(map[K]*V, len(m))
	for k, v := range m {
		c := *v
		out[k] = &c
	}
	return out
}

type snapshot struct {
	users      map[string]*biz.User
	profiles   map[string]*biz.UserProfile
	categories map[string]*biz.Category
	movies     map[string]*biz.Movie
	upcoming   map[string]*biz.UpcomingMovie
	ratings    map[pair]*biz.Rating
	reviews    map[string]*biz.Review
	watchlist  map[pair]*biz.WatchlistEntry
}

func (s *memStore) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	snap := snapshot{
		users:      cloneMap(s.users),
		profiles:   cloneMap(s.profiles),
		categories: cloneMap(s.categories),
		movies:     cloneMap(s.movies),
		upcoming:   cloneMap(s.upcoming),
		ratings:    cloneMap(s.ratings),
		reviews:    cloneMap(s.reviews),
		watchlist:  cloneMap(s.watchlist),
	}
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.users, s.profiles, s.categories = snap.users, snap.profiles, snap.categories
		s.movies, s.upcoming = snap.movies, snap.upcoming
		s.ratings, s.reviews, s.watchlist = snap.ratings, snap.reviews, snap.watchlist
		s.mu.Unlock()
		return err
	}
	return nil
}

// users

func (s *memStore) CreateUser(_ context.Context, u *biz.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.DateJoined = s.tick()
	c := *u
	s.users[u.ID] = &c
	return nil
}

func (s *memStore) GetUser(_ context.Context, id string) (*biz.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, biz.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (s *memStore) GetUserByLogin(_ context.Context, login string) (*biz.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == login || strings.EqualFold(u.Email, login) {
			c := *u
			return &c, nil
		}
	}
	return nil, biz.ErrUserNotFound
}

func (s *memStore) UpdateUser(_ context.Context, u *biz.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return biz.ErrUserNotFound
	}
	c := *u
	s.users[u.ID] = &c
	return nil
}

func (s *memStore) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	delete(s.profiles, id)
	for mid, m := range s.movies {
		if m.AddedBy == id {
			s.deleteMovieLocked(mid)
		}
	}
	for uid, m := range s.upcoming {
		if m.AddedBy == id {
			delete(s.upcoming, uid)
		}
	}
	for k := range s.ratings {
		if k.user == id {
			delete(s.ratings, k)
		}
	}
	for k := range s.watchlist {
		if k.user == id {
			delete(s.watchlist, k)
		}
	}
	for rid, r := range s.reviews {
		if r.UserID == id {
			delete(s.reviews, rid)
		}
	}
	return nil
}

func (s *memStore) ListUsers(_ context.Context, q *biz.PageQuery) (*biz.UserPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]*biz.User, 0, len(s.users))
	for _, u := range s.users {
		c := *u
		items = append(items, &c)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].DateJoined.After(items[j].DateJoined) })
	if q.Limit > 0 && len(items) > int(q.Limit) {
		items = items[:q.Limit]
	}
	return &biz.UserPage{Items: items}, nil
}

func (s *memStore) CountUsers(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}

func (s *memStore) UsernameTaken(_ context.Context, username, exceptID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID != exceptID && u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) EmailTaken(_ context.Context, email, exceptID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID != exceptID && strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

// profiles

func (s *memStore) EnsureProfile(_ context.Context, userID string) (*biz.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		now := s.tick()
		p = &biz.UserProfile{UserID: userID, CreatedAt: now, UpdatedAt: now}
		s.profiles[userID] = p
	}
	c := *p
	return &c, nil
}

func (s *memStore) UpdateProfile(_ context.Context, p *biz.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateProfileErr != nil {
		return s.updateProfileErr
	}
	c := *p
	s.profiles[p.UserID] = &c
	return nil
}

// categories

func (s *memStore) CreateCategory(_ context.Context, c *biz.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.categories {
		if existing.Name == c.Name {
			return biz.ErrDuplicateCategory
		}
	}
	c.CreatedAt = s.tick()
	cp := *c
	s.categories[c.ID] = &cp
	return nil
}

func (s *memStore) GetCategory(_ context.Context, id string) (*biz.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, biz.ErrCategoryNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *memStore) ListCategories(context.Context) ([]*biz.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*biz.Category, 0, len(s.categories))
	for _, c := range s.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memStore) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.categories, id)
	for mid, m := range s.movies {
		if m.CategoryID == id {
			s.deleteMovieLocked(mid)
		}
	}
	for uid, m := range s.upcoming {
		if m.CategoryID == id {
			delete(s.upcoming, uid)
		}
	}
	return nil
}

func (s *memStore) CountCategories(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.categories)), nil
}

// movies

func (s *memStore) CreateMovie(_ context.Context, m *biz.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.tick()
	m.CreatedAt, m.UpdatedAt = now, now
	c := *m
	s.movies[m.ID] = &c
	return nil
}

func (s *memStore) GetMovie(_ context.Context, id string) (*biz.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.movies[id]
	if !ok {
		return nil, biz.ErrMovieNotFound
	}
	c := *m
	return &c, nil
}

func (s *memStore) ListMovies(_ context.Context, q *biz.MovieListQuery) (*biz.MoviePage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []*biz.Movie
	for _, m := range s.movies {
		if q.CategoryID != nil && m.CategoryID != *q.CategoryID {
			continue
		}
		if q.AddedBy != nil && m.AddedBy != *q.AddedBy {
			continue
		}
		if q.Q != nil {
			needle := strings.ToLower(*q.Q)
			hay := strings.ToLower(m.Title + "\n" + m.Description + "\n" + m.Actors)
			if !strings.Contains(hay, needle) {
				continue
			}
		}
		c := *m
		items = append(items, &c)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	if q.Limit > 0 && len(items) > int(q.Limit) {
		items = items[:q.Limit]
	}
	return &biz.MoviePage{Items: items}, nil
}

func (s *memStore) UpdateMovie(_ context.Context, m *biz.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.UpdatedAt = s.tick()
	c := *m
	s.movies[m.ID] = &c
	return nil
}

func (s *memStore) DeleteMovie(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteMovieLocked(id)
	return nil
}

func (s *memStore) deleteMovieLocked(id string) {
	delete(s.movies, id)
	for k := range s.ratings {
		if k.movie == id {
			delete(s.ratings, k)
		}
	}
	for k := range s.watchlist {
		if k.movie == id {
			delete(s.watchlist, k)
		}
	}
	for rid, r := range s.reviews {
		if r.MovieID == id {
			delete(s.reviews, rid)
		}
	}
}

func (s *memStore) CountMovies(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.movies)), nil
}

// upcoming movies

func (s *memStore) CreateUpcomingMovie(_ context.Context, m *biz.UpcomingMovie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.tick()
	m.CreatedAt, m.UpdatedAt = now, now
	c := *m
	s.upcoming[m.ID] = &c
	return nil
}

func (s *memStore) GetUpcomingMovie(_ context.Context, id string) (*biz.UpcomingMovie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.upcoming[id]
	if !ok {
		return nil, biz.ErrUpcomingMovieNotFound
	}
	c := *m
	return &c, nil
}

func (s *memStore) ListUpcomingMovies(context.Context) ([]*biz.UpcomingMovie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*biz.UpcomingMovie, 0, len(s.upcoming))
	for _, m := range s.upcoming {
		c := *m
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpectedReleaseDate.Before(out[j].ExpectedReleaseDate) })
	return out, nil
}

func (s *memStore) UpdateUpcomingMovie(_ context.Context, m *biz.UpcomingMovie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *m
	s.upcoming[m.ID] = &c
	return nil
}

func (s *memStore) DeleteUpcomingMovie(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.upcoming, id)
	return nil
}

// ratings

func (s *memStore) GetRating(_ context.Context, userID, movieID string) (*biz.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.ratings[pair{userID, movieID}]
	if !ok {
		return nil, biz.ErrRatingNotFound
	}
	c := *r
	return &c, nil
}

func (s *memStore) UpsertRating(_ context.Context, r *biz.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pair{r.UserID, r.MovieID}
	now := s.tick()
	if existing, ok := s.ratings[key]; ok {
		existing.Rating = r.Rating
		existing.UpdatedAt = now
		return nil
	}
	c := *r
	c.CreatedAt, c.UpdatedAt = now, now
	s.ratings[key] = &c
	return nil
}

func (s *memStore) GetRatingAggregate(_ context.Context, movieID string) (*biz.RatingAggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum, n int
	for k, r := range s.ratings {
		if k.movie == movieID {
			sum += r.Rating
			n++
		}
	}
	if n == 0 {
		return &biz.RatingAggregate{}, nil
	}
	avg := math.Round(float64(sum)/float64(n)*10) / 10
	return &biz.RatingAggregate{Average: avg, Count: int32(n)}, nil
}

func (s *memStore) TopRated(ctx context.Context, limit int) ([]*biz.RankedMovie, error) {
	return s.rank(limit, func(sum, n int) float64 { return math.Round(float64(sum)/float64(n)*10) / 10 })
}

func (s *memStore) MostRated(ctx context.Context, limit int) ([]*biz.RankedMovie, error) {
	return s.rank(limit, func(_, n int) float64 { return float64(n) })
}

func (s *memStore) rank(limit int, score func(sum, n int) float64) ([]*biz.RankedMovie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sums := map[string][2]int{}
	for k, r := range s.ratings {
		v := sums[k.movie]
		sums[k.movie] = [2]int{v[0] + r.Rating, v[1] + 1}
	}
	out := make([]*biz.RankedMovie, 0, len(sums))
	for id, v := range sums {
		out = append(out, &biz.RankedMovie{MovieID: id, Score: score(v[0], v[1])})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].MovieID < out[j].MovieID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// reviews

func (s *memStore) GetReview(_ context.Context, id string) (*biz.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reviews[id]
	if !ok {
		return nil, biz.ErrReviewNotFound
	}
	c := *r
	return &c, nil
}

func (s *memStore) FindReview(_ context.Context, userID, movieID string) (*biz.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reviews {
		if r.UserID == userID && r.MovieID == movieID {
			c := *r
			return &c, nil
		}
	}
	return nil, biz.ErrReviewNotFound
}

func (s *memStore) UpsertReview(_ context.Context, r *biz.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.tick()
	for _, existing := range s.reviews {
		if existing.UserID == r.UserID && existing.MovieID == r.MovieID {
			existing.Text = r.Text
			existing.UpdatedAt = now
			r.ID = existing.ID
			return nil
		}
	}
	r.CreatedAt, r.UpdatedAt = now, now
	c := *r
	s.reviews[r.ID] = &c
	return nil
}

func (s *memStore) DeleteReview(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reviews, id)
	return nil
}

func (s *memStore) ListReviews(_ context.Context, movieID string) ([]*biz.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*biz.Review
	for _, r := range s.reviews {
		if r.MovieID == movieID {
			c := *r
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// watchlist

func (s *memStore) RemoveEntry(_ context.Context, userID, movieID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pair{userID, movieID}
	if _, ok := s.watchlist[key]; !ok {
		return false, nil
	}
	delete(s.watchlist, key)
	return true, nil
}

func (s *memStore) AddEntry(_ context.Context, e *biz.WatchlistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pair{e.UserID, e.MovieID}
	if _, ok := s.watchlist[key]; ok {
		return biz.ErrAlreadyInWatchlist
	}
	e.AddedAt = s.tick()
	c := *e
	s.watchlist[key] = &c
	return nil
}

func (s *memStore) HasEntry(_ context.Context, userID, movieID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.watchlist[pair{userID, movieID}]
	return ok, nil
}

func (s *memStore) ListEntries(_ context.Context, userID string) ([]*biz.WatchlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*biz.WatchlistEntry
	for k, e := range s.watchlist {
		if k.user == userID {
			c := *e
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AddedAt.After(out[j].AddedAt) })
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*biz.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e *biz.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type stubTokens struct{}

func (stubTokens) Issue(u *biz.User) (string, time.Time, error) {
	return "token-" + u.ID, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), nil
}

// fixture wires every use case to one memStore.
type fixture struct {
	store  *memStore
	events *recordingPublisher

	movies    *biz.MovieUseCase
	ratings   *biz.RatingUseCase
	reviews   *biz.ReviewUseCase
	watchlist *biz.WatchlistUseCase
	category  *biz.CategoryUseCase
	upcoming  *biz.UpcomingMovieUseCase
	users     *biz.UserUseCase
	profiles  *biz.ProfileUseCase
	admin     *biz.AdminUseCase
}

func newFixture() *fixture {
	s := newMemStore()
	ev := &recordingPublisher{}
	logger := log.DefaultLogger
	return &fixture{
		store:     s,
		events:    ev,
		movies:    biz.NewMovieUseCase(s, s, s, s, s, logger),
		ratings:   biz.NewRatingUseCase(s, s, s, ev, logger),
		reviews:   biz.NewReviewUseCase(s, s, s, ev, logger),
		watchlist: biz.NewWatchlistUseCase(s, s, s, ev, logger),
		category:  biz.NewCategoryUseCase(s, s, logger),
		upcoming:  biz.NewUpcomingMovieUseCase(s, s, logger),
		users:     biz.NewUserUseCase(s, s, s, stubTokens{}, logger),
		profiles:  biz.NewProfileUseCase(s, s, s, s, logger),
		admin:     biz.NewAdminUseCase(s, s, s, logger),
	}
}

func (f *fixture) addUser(id string, staff bool) biz.Actor {
	u := &biz.User{ID: id, Username: id, Email: id + "@example.com", IsStaff: staff}
	_ = f.store.CreateUser(context.Background(), u)
	_, _ = f.store.EnsureProfile(context.Background(), id)
	return biz.ActorFor(u)
}

func (f *fixture) addCategory(id, name string) {
	_ = f.store.CreateCategory(context.Background(), &biz.Category{ID: id, Name: name})
}

func (f *fixture) addMovie(id, owner, categoryID string) {
	_ = f.store.CreateMovie(context.Background(), &biz.Movie{
		ID:          id,
		Title:       "Movie " + id,
		Description: "about " + id,
		Actors:      "Someone",
		ReleaseDate: time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC),
		CategoryID:  categoryID,
		AddedBy:     owner,
	})
}

func validMovieInput(categoryID string) *biz.MovieInput {
	return &biz.MovieInput{
		Title:       "Arrival",
		Description: "Linguist meets heptapods",
		ReleaseDate: time.Date(2016, 11, 11, 0, 0, 0, 0, time.UTC),
		Actors:      "Amy Adams, Jeremy Renner",
		Rating:      8.5,
		CategoryID:  categoryID,
	}
}
