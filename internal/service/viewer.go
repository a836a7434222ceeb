package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/phrazzld/punishcards-api/internal/store"
)

// loadViewer resolves the reader a listing is annotated for. A nil id is an
// anonymous reader. A reader whose account no longer exists still gets
// annotations, with an empty bookmark set.
func loadViewer(ctx context.Context, opts Options, users store.UserStore, id *uuid.UUID) (*viewer, error) {
	if id == nil {
		return nil, nil
	}

	ctx, cancel := opts.bounded(ctx)
	defer cancel()

	user, err := users.GetByID(ctx, *id)
	if errors.Is(err, store.ErrNotFound) {
		return &viewer{id: *id, bookmarks: map[uuid.UUID]struct{}{}}, nil
	}
	if err != nil {
		return nil, err
	}
	return newViewer(user), nil
}
