package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/punishcards-api/internal/store"
)

// mutation describes one optimistic read-modify-write of a single document.
type mutation[T any] struct {
	load func(ctx context.Context) (T, error)
	// apply mutates the loaded value in place and reports whether anything
	// changed. Unchanged values are not written back.
	apply func(T) (bool, error)
	save  func(ctx context.Context, v T) error
}

// runMutation loads, mutates and saves a document, starting over from a
// fresh read whenever the store reports a version conflict. Any other store
// error, ErrUnavailable included, is returned immediately.
func runMutation[T any](
	ctx context.Context,
	opts Options,
	log *slog.Logger,
	m mutation[T],
) (T, error) {
	var zero T

	for attempt := 1; attempt <= opts.MaxUpdateAttempts; attempt++ {
		loadCtx, cancel := opts.bounded(ctx)
		v, err := m.load(loadCtx)
		cancel()
		if err != nil {
			return zero, err
		}

		changed, err := m.apply(v)
		if err != nil {
			return zero, err
		}
		if !changed {
			return v, nil
		}

		saveCtx, cancel := opts.bounded(ctx)
		err = m.save(saveCtx, v)
		cancel()
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, store.ErrVersionConflict) {
			return zero, err
		}

		log.Debug("version conflict, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", opts.MaxUpdateAttempts))
	}

	return zero, fmt.Errorf("%w: gave up after %d attempts", ErrConflict, opts.MaxUpdateAttempts)
}
