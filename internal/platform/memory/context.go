package memory

import (
	"context"
	"errors"

	"github.com/phrazzld/punishcards-api/internal/store"
)

// checkContext fails fast when ctx is already done, reporting it the same
// way the database backends report a deadline.
func checkContext(ctx context.Context, entity, operation string) error {
	if err := ctx.Err(); err != nil {
		return store.NewStoreError(entity, operation, "context done", errors.Join(store.ErrUnavailable, err))
	}
	return nil
}
