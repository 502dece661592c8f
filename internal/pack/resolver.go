package pack

import (
	"fmt"
	"sync"

	"github.com/opmodel/packtask/internal/bundler"
	oerrors "github.com/opmodel/packtask/internal/errors"
)

// Producer creates the configuration of a bundle target.
type Producer func(b bundler.Bundler) (*bundler.Config, error)

// Source identifies a configuration producer. Key must be unique per logical
// configuration; producers sharing a key share one configuration.
type Source struct {
	Key     string
	Produce Producer
}

// Resolver memoizes configuration per source key for the lifetime of the
// process. There is no invalidation.
type Resolver struct {
	bundler bundler.Bundler

	mu    sync.Mutex
	cache map[string]*bundler.Config
}

// NewResolver creates a resolver passing b to producers.
func NewResolver(b bundler.Bundler) *Resolver {
	return &Resolver{bundler: b, cache: make(map[string]*bundler.Config)}
}

// Resolve returns the configuration of src, invoking its producer on first
// use only. Producer failures are returned and not cached.
func (r *Resolver) Resolve(src Source) (*bundler.Config, error) {
	if src.Key == "" {
		return nil, oerrors.NewValidationError("configuration source has no key", "", "key",
			"Register every source under a unique key")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if cfg, ok := r.cache[src.Key]; ok {
		return cfg, nil
	}
	if src.Produce == nil {
		return nil, fmt.Errorf("configuration source %q has no producer: %w", src.Key, oerrors.ErrValidation)
	}

	cfg, err := src.Produce(r.bundler)
	if err != nil {
		return nil, fmt.Errorf("producing configuration %q: %w", src.Key, err)
	}
	if cfg == nil {
		return nil, fmt.Errorf("configuration source %q produced nothing: %w", src.Key, oerrors.ErrValidation)
	}
	r.cache[src.Key] = cfg
	return cfg, nil
}

// Cached reports whether key has a resolved configuration.
func (r *Resolver) Cached(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.cache[key]
	return ok
}
