package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/phrazzld/punishcards-api/internal/store"
	"go.mongodb.org/mongo-driver/mongo"
)

// Unique index names created by EnsureIndexes.
const (
	usersEmailIndex    = "users_email_key"
	usersUsernameIndex = "users_username_lower_key"
)

// MapError maps a driver error to the store error vocabulary, wrapping the
// original for context.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		mongo.IsTimeout(err) || mongo.IsNetworkError(err) ||
		errors.Is(err, mongo.ErrClientDisconnected) {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	if mongo.IsDuplicateKeyError(err) {
		msg := err.Error()
		switch {
		case strings.Contains(msg, usersEmailIndex):
			return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		case strings.Contains(msg, usersUsernameIndex):
			return fmt.Errorf("%w: %v", store.ErrUsernameExists, err)
		}
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	}

	return err
}
