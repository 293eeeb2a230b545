package biz

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
)

// WatchlistState is the membership after a toggle.
type WatchlistState string

const (
	WatchlistAdded   WatchlistState = "added"
	WatchlistRemoved WatchlistState = "removed"
)

// WatchlistUseCase toggles and lists watchlist membership.
type WatchlistUseCase struct {
	movieRepo     MovieRepo
	watchlistRepo WatchlistRepo
	tx            Transaction
	events        EventPublisher
	log           *log.Helper
}

func NewWatchlistUseCase(movieRepo MovieRepo, watchlistRepo WatchlistRepo, tx Transaction, events EventPublisher, logger log.Logger) *WatchlistUseCase {
	return &WatchlistUseCase{
		movieRepo:     movieRepo,
		watchlistRepo: watchlistRepo,
		tx:            tx,
		events:        events,
		log:           log.NewHelper(logger),
	}
}

// ToggleWatchlist removes the (actor, movie) row if present, otherwise adds it.
//
// The delete is attempted first so existence is checked by the same statement
// that acts on it. If a concurrent toggle inserts the row between our delete
// and insert, the unique key rejects ours and the result is "added": the first
// writer wins.
func (uc *WatchlistUseCase) ToggleWatchlist(ctx context.Context, actor Actor, movieID string) (WatchlistState, error) {
	if err := requireAuth(actor); err != nil {
		return "", err
	}
	if _, err := uc.movieRepo.GetMovie(ctx, movieID); err != nil {
		return "", err
	}

	var state WatchlistState
	err := uc.tx.InTx(ctx, func(ctx context.Context) error {
		removed, err := uc.watchlistRepo.RemoveEntry(ctx, actor.UserID, movieID)
		if err != nil {
			return err
		}
		if removed {
			state = WatchlistRemoved
			return nil
		}

		err = uc.watchlistRepo.AddEntry(ctx, &WatchlistEntry{UserID: actor.UserID, MovieID: movieID})
		if err != nil && !isAlreadyInWatchlist(err) {
			return err
		}
		state = WatchlistAdded
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to toggle watchlist: %w", err)
	}

	eventType := EventWatchlistAdded
	if state == WatchlistRemoved {
		eventType = EventWatchlistRemoved
	}
	publishEvent(ctx, uc.events, uc.log, &Event{Type: eventType, UserID: actor.UserID, MovieID: movieID})

	return state, nil
}

// InWatchlist reports membership; false for anonymous actors.
func (uc *WatchlistUseCase) InWatchlist(ctx context.Context, actor Actor, movieID string) (bool, error) {
	if !actor.Authenticated() {
		return false, nil
	}
	return uc.watchlistRepo.HasEntry(ctx, actor.UserID, movieID)
}

// ListWatchlist returns the actor's entries, newest first.
func (uc *WatchlistUseCase) ListWatchlist(ctx context.Context, actor Actor) ([]*WatchlistEntry, error) {
	if err := requireAuth(actor); err != nil {
		return nil, err
	}
	entries, err := uc.watchlistRepo.ListEntries(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}
	return entries, nil
}

func isAlreadyInWatchlist(err error) bool {
	return errors.Is(err, ErrAlreadyInWatchlist)
}
