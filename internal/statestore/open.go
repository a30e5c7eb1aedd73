package statestore

import (
	"fmt"

	"go.uber.org/zap"
)

// Open builds the store selected by opts.Backend.
func Open(logger *zap.Logger, fns ...OptionFn) (Store, error) {
	opts := NewOptions(fns...)
	switch opts.Backend {
	case BackendMemory:
		return NewMemory(opts.TTL), nil
	case BackendBadger:
		return OpenBadger(opts.Dir, opts.TTL, logger)
	default:
		return nil, fmt.Errorf("statestore: unknown backend %q", opts.Backend)
	}
}
