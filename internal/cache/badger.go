package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
)

// BadgerConfig configures an embedded Badger cache.
type BadgerConfig struct {
	// Path is the data directory. Ignored when InMemory is true.
	Path string

	// InMemory keeps all data in RAM. Used by tests and when no path is set.
	InMemory bool

	// SyncWrites fsyncs every write.
	SyncWrites bool

	// GCInterval is how often value log GC runs. Zero disables it.
	GCInterval time.Duration

	// GCDiscardRatio is the minimum garbage ratio before a value log is rewritten.
	GCDiscardRatio float64

	Log *logrus.Logger
}

// DefaultBadgerConfig returns production defaults for path.
func DefaultBadgerConfig(path string, log *logrus.Logger) BadgerConfig {
	return BadgerConfig{
		Path:           path,
		InMemory:       path == "",
		GCInterval:     5 * time.Minute,
		GCDiscardRatio: 0.5,
		Log:            log,
	}
}

// badgerLogger routes Badger's internal logging through logrus. Badger's
// info output is demoted to debug.
type badgerLogger struct {
	log *logrus.Entry
}

func (l badgerLogger) Errorf(format string, args ...any)   { l.log.Errorf(format, args...) }
func (l badgerLogger) Warningf(format string, args ...any) { l.log.Warnf(format, args...) }
func (l badgerLogger) Infof(format string, args ...any)    { l.log.Debugf(format, args...) }
func (l badgerLogger) Debugf(format string, args ...any)   { l.log.Tracef(format, args...) }

// Badger is a cache stored in an embedded Badger database. Expiry uses
// Badger's native per-entry TTL.
type Badger struct {
	db     *badger.DB
	log    *logrus.Logger
	stopCh chan struct{}
	doneCh chan struct{}
}

// OpenBadger opens (creating if needed) a Badger cache.
func OpenBadger(cfg BadgerConfig) (*Badger, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("badger path is required for a persistent cache")
		}
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("creating badger directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Log != nil {
		opts = opts.WithLogger(badgerLogger{log: cfg.Log.WithField("component", "badger")})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger: %w", err)
	}

	b := &Badger{db: db, log: cfg.Log}
	if cfg.GCInterval > 0 && !cfg.InMemory {
		b.stopCh = make(chan struct{})
		b.doneCh = make(chan struct{})
		go b.runGC(cfg.GCInterval, cfg.GCDiscardRatio)
	}

	return b, nil
}

func (b *Badger) runGC(interval time.Duration, ratio float64) {
	defer close(b.doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopCh:
			return
		case <-ticker.C:
			err := b.db.RunValueLogGC(ratio)
			if err != nil && !errors.Is(err, badger.ErrNoRewrite) && b.log != nil {
				b.log.WithError(err).Warn("badger value log GC failed")
			}
		}
	}
}

// Exists reports whether an unexpired entry is stored under key.
func (b *Badger) Exists(ctx context.Context, key string) (bool, error) {
	if err := checkContext(ctx); err != nil {
		return false, err
	}

	err := b.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking key: %w", err)
	}

	return true, nil
}

// Get returns the value stored under key.
func (b *Badger) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}

		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%s: %w", key, ErrKeyNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading key: %w", err)
	}

	return value, nil
}

// Set stores value under key with no expiry.
func (b *Badger) Set(ctx context.Context, key string, value []byte) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	if err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	}); err != nil {
		return fmt.Errorf("writing key: %w", err)
	}

	return nil
}

// Expire rewrites an existing entry with a TTL.
func (b *Badger) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	err := b.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}

		if ttl <= 0 {
			return txn.Delete([]byte(key))
		}

		value, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}

		return txn.SetEntry(badger.NewEntry([]byte(key), value).WithTTL(ttl))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("expiring key: %w", err)
	}

	return nil
}

// Ping fails once the database has been closed.
func (b *Badger) Ping(ctx context.Context) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	if b.db.IsClosed() {
		return errors.New("badger database is closed")
	}

	return nil
}

// Close stops value log GC and closes the database.
func (b *Badger) Close() error {
	if b.stopCh != nil {
		close(b.stopCh)
		<-b.doneCh
		b.stopCh = nil
	}

	return b.db.Close()
}
