package service

import (
	"context"
	"time"

	"github.com/phrazzld/punishcards-api/internal/config"
)

const (
	defaultOperationTimeout  = 5 * time.Second
	defaultMaxUpdateAttempts = 5
	defaultUsernameCacheSize = 1024
)

// Options tunes how services talk to the stores.
type Options struct {
	// OperationTimeout bounds every individual store call.
	OperationTimeout time.Duration

	// MaxUpdateAttempts is how many times a read-modify-write is tried
	// before a version conflict is reported as ErrConflict.
	MaxUpdateAttempts int

	// UsernameCacheSize is the number of author usernames kept in memory.
	UsernameCacheSize int

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// OptionsFromConfig builds Options from the store and cache configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		OperationTimeout:  cfg.Store.OperationTimeout,
		MaxUpdateAttempts: cfg.Store.MaxUpdateAttempts,
		UsernameCacheSize: cfg.Cache.UsernameCacheSize,
	}
}

func (o Options) withDefaults() Options {
	if o.OperationTimeout <= 0 {
		o.OperationTimeout = defaultOperationTimeout
	}
	if o.MaxUpdateAttempts <= 0 {
		o.MaxUpdateAttempts = defaultMaxUpdateAttempts
	}
	if o.UsernameCacheSize <= 0 {
		o.UsernameCacheSize = defaultUsernameCacheSize
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// bounded derives the context a single store call runs under.
func (o Options) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, o.OperationTimeout)
}
