// Package statestore keeps the outcome of a failed form submission for the
// page load that follows it. Entries expire after a TTL and are deleted the
// first time they are read.
package statestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formdemo/pkg/model"
)

const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

var (
	// ErrInvalidKey is returned for blank form ids or tokens.
	ErrInvalidKey = errors.New("statestore: invalid key")
	// ErrClosed is returned when the store has been closed.
	ErrClosed = errors.New("statestore: store is closed")
)

// Store holds validation state between a submission and the next page load.
type Store interface {
	// Put stores state for key. A non-positive ttl uses the store default.
	Put(ctx context.Context, key Key, state model.FormState, ttl time.Duration) error
	// Take returns and removes the state for key. Expired or missing entries
	// report false.
	Take(ctx context.Context, key Key) (model.FormState, bool, error)
	Close() error
}

// Key identifies one stored outcome: the form it belongs to and the opaque
// token handed to the browser.
type Key struct {
	Form  string
	Token string
}

// NewKey returns a key for form with a fresh random token.
func NewKey(form string) Key {
	return Key{Form: strings.TrimSpace(form), Token: uuid.NewString()}
}

// ParseKey validates a token received from the browser.
func ParseKey(form, token string) (Key, error) {
	key := Key{Form: strings.TrimSpace(form), Token: strings.TrimSpace(token)}
	if err := key.validate(); err != nil {
		return Key{}, err
	}
	if _, err := uuid.Parse(key.Token); err != nil {
		return Key{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return key, nil
}

func (k Key) String() string {
	return "formstate/" + k.Form + "/" + k.Token
}

func (k Key) validate() error {
	if k.Form == "" || k.Token == "" {
		return ErrInvalidKey
	}
	return nil
}

// Options configures a store.
type Options struct {
	Backend string
	TTL     time.Duration
	// Dir is the badger data directory. Empty runs badger in memory.
	Dir string
}

// OptionFn mutates Options.
type OptionFn func(*Options)

const defaultTTL = 5 * time.Minute

// DefaultOptions returns an in-memory store with a five minute TTL.
func DefaultOptions() Options {
	return Options{
		Backend: BackendMemory,
		TTL:     defaultTTL,
	}
}

// NewOptions applies fns over the defaults and normalises the result.
func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	opts.Backend = strings.ToLower(strings.TrimSpace(opts.Backend))
	if opts.Backend == "" {
		opts.Backend = BackendMemory
	}
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	opts.Dir = strings.TrimSpace(opts.Dir)
	return opts
}

func WithBackend(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Backend = name
	}
}

func WithTTL(ttl time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.TTL = ttl
	}
}

func WithDir(dir string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Dir = dir
	}
}
