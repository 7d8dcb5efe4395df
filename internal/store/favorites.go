package store

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/i474232898/weather-dashboard/internal/geo"
)

// SaveFavorite adds c to the favorites. Saving the same location twice keeps
// one entry and its original AddedAt.
func (s *Store) SaveFavorite(ctx context.Context, c geo.Coordinate) (Favorite, error) {
	b, err := s.await(ctx, "save favorite")
	if err != nil {
		return Favorite{}, err
	}

	s.favMu.Lock()
	defer s.favMu.Unlock()
	return s.saveFavoriteLocked(ctx, b, c)
}

func (s *Store) saveFavoriteLocked(ctx context.Context, b Backend, c geo.Coordinate) (Favorite, error) {
	f := NewFavorite(c, s.now())
	if existing, err := b.GetFavorite(ctx, f.Key); err == nil {
		f.AddedAt = existing.AddedAt
	} else if !errors.Is(err, ErrNotFound) {
		return Favorite{}, &Error{Op: "save favorite", Err: err}
	}

	if err := b.PutFavorite(ctx, f); err != nil {
		return Favorite{}, &Error{Op: "save favorite", Err: err}
	}
	return f, nil
}

// RemoveFavorite deletes the favorite at c's key. Removing a missing favorite
// is not an error.
func (s *Store) RemoveFavorite(ctx context.Context, c geo.Coordinate) error {
	b, err := s.await(ctx, "remove favorite")
	if err != nil {
		return err
	}

	s.favMu.Lock()
	defer s.favMu.Unlock()

	if err := b.DeleteFavorite(ctx, geo.FavoriteKey(c)); err != nil {
		return &Error{Op: "remove favorite", Err: err}
	}
	return nil
}

// IsFavorite reports whether c is saved. Read failures are logged and reported
// as false.
func (s *Store) IsFavorite(ctx context.Context, c geo.Coordinate) bool {
	b, err := s.await(ctx, "is favorite")
	if err != nil {
		slog.Warn("favorite lookup failed", "err", err)
		return false
	}

	_, err = b.GetFavorite(ctx, geo.FavoriteKey(c))
	if err != nil && !errors.Is(err, ErrNotFound) {
		slog.Warn("favorite lookup failed", "key", geo.FavoriteKey(c), "err", err)
	}
	return err == nil
}

// Favorites lists saved locations, oldest first.
func (s *Store) Favorites(ctx context.Context) ([]Favorite, error) {
	b, err := s.await(ctx, "list favorites")
	if err != nil {
		return nil, err
	}

	favs, err := b.Favorites(ctx)
	if err != nil {
		return nil, &Error{Op: "list favorites", Err: err}
	}
	sort.SliceStable(favs, func(i, j int) bool {
		if favs[i].AddedAt.Equal(favs[j].AddedAt) {
			return favs[i].Key < favs[j].Key
		}
		return favs[i].AddedAt.Before(favs[j].AddedAt)
	})
	return favs, nil
}

// ToggleFavorite removes c if it is saved and saves it otherwise, as one
// atomic step. It reports whether c is a favorite afterwards.
func (s *Store) ToggleFavorite(ctx context.Context, c geo.Coordinate) (bool, error) {
	b, err := s.await(ctx, "toggle favorite")
	if err != nil {
		return false, err
	}

	s.favMu.Lock()
	defer s.favMu.Unlock()

	key := geo.FavoriteKey(c)
	_, err = b.GetFavorite(ctx, key)
	switch {
	case err == nil:
		if err := b.DeleteFavorite(ctx, key); err != nil {
			return true, &Error{Op: "toggle favorite", Err: err}
		}
		return false, nil
	case errors.Is(err, ErrNotFound):
		if _, err := s.saveFavoriteLocked(ctx, b, c); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, &Error{Op: "toggle favorite", Err: err}
	}
}
