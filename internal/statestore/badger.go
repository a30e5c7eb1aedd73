package statestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"github.com/goliatone/go-formdemo/pkg/model"
)

// Badger stores state in a badger database, relying on entry TTLs for
// expiry. An empty directory runs the database in memory.
type Badger struct {
	db  *badger.DB
	ttl time.Duration
}

// OpenBadger opens a badger backed store.
func OpenBadger(dir string, ttl time.Duration, logger *zap.Logger) (*Badger, error) {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts = opts.WithLogger(newBadgerLogger(logger))

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("statestore: open badger: %w", err)
	}
	return &Badger{db: db, ttl: ttl}, nil
}

func (b *Badger) Put(ctx context.Context, key Key, state model.FormState, ttl time.Duration) error {
	if err := key.validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = b.ttl
	}

	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("statestore: encode state: %w", err)
	}
	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(key.String()), payload).WithTTL(ttl))
	})
	if errors.Is(err, badger.ErrDBClosed) {
		return ErrClosed
	}
	if err != nil {
		return fmt.Errorf("statestore: put %s: %w", key.Form, err)
	}
	return nil
}

func (b *Badger) Take(ctx context.Context, key Key) (model.FormState, bool, error) {
	if err := key.validate(); err != nil {
		return model.FormState{}, false, err
	}
	if err := ctx.Err(); err != nil {
		return model.FormState{}, false, err
	}

	var payload []byte
	err := b.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key.String()))
		if err != nil {
			return err
		}
		payload, err = item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return txn.Delete([]byte(key.String()))
	})
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return model.FormState{}, false, nil
	case errors.Is(err, badger.ErrDBClosed):
		return model.FormState{}, false, ErrClosed
	case err != nil:
		return model.FormState{}, false, fmt.Errorf("statestore: take %s: %w", key.Form, err)
	}

	var state model.FormState
	if err := json.Unmarshal(payload, &state); err != nil {
		return model.FormState{}, false, fmt.Errorf("statestore: decode state: %w", err)
	}
	return state, true, nil
}

func (b *Badger) Close() error {
	return b.db.Close()
}

// badgerLogger routes badger's printf style logging through zap.
type badgerLogger struct {
	sugar *zap.SugaredLogger
}

func newBadgerLogger(logger *zap.Logger) badger.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return badgerLogger{sugar: logger.Named("badger").Sugar()}
}

func (l badgerLogger) Errorf(format string, args ...any)   { l.sugar.Errorf(format, args...) }
func (l badgerLogger) Warningf(format string, args ...any) { l.sugar.Warnf(format, args...) }
func (l badgerLogger) Infof(format string, args ...any)    { l.sugar.Debugf(format, args...) }
func (l badgerLogger) Debugf(format string, args ...any)   { l.sugar.Debugf(format, args...) }
