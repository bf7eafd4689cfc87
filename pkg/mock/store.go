// Package mock persists user defined target ID prefix → platform mappings.
//
// Two scopes exist: a global file under the user's home directory and a
// local file in the working directory. Every read-modify-write cycle against
// a scope's file happens under an interprocess lock held on a sibling
// ".lockfile". A deadline on the context passed to a store call is that
// call's lock timeout; without one the store's configured timeout applies.
package mock

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"

	"github.com/OpenTraceLab/OpenTraceLS/pkg/platform"
)

// Scope names the layer a store belongs to.
type Scope string

const (
	ScopeGlobal Scope = "global"
	ScopeLocal  Scope = "local"
)

const (
	// DefaultLockTimeout bounds a lock acquisition whose context carries no
	// deadline.
	DefaultLockTimeout = 60 * time.Second
	// LockSuffix is appended to the mock file path to name its lock file.
	LockSuffix = ".lockfile"

	lockRetryDelay = 50 * time.Millisecond
)

// Store is one scope's mock file.
type Store struct {
	scope   Scope
	path    string
	lock    *flock.Flock
	timeout time.Duration
	log     zerolog.Logger

	mu        sync.Mutex
	platforms map[string]string
}

// Option configures a Store.
type Option func(*Store)

// WithLockTimeout overrides DefaultLockTimeout. A deadline on the context
// passed to a call takes precedence over it.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// NewStore prepares the store for path, creating its parent directory when
// needed. The mock file itself is only created by the first write.
func NewStore(scope Scope, path string, opts ...Option) (*Store, error) {
	s := &Store{
		scope:     scope,
		path:      path,
		lock:      flock.New(path + LockSuffix),
		timeout:   DefaultLockTimeout,
		log:       zerolog.Nop(),
		platforms: map[string]string{},
	}
	for _, opt := range opts {
		opt(s)
	}

	if _, err := os.Stat(path); err == nil {
		s.log.Debug().Str("scope", string(scope)).Str("path", path).Msg("found mock file")
	} else {
		s.log.Debug().Str("scope", string(scope)).Str("path", path).Msg("no mock file")
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, &IOError{Op: "mkdir", Path: dir, Err: err}
			}
		}
	}

	return s, nil
}

// Scope returns the store's scope.
func (s *Store) Scope() Scope { return s.scope }

// Path returns the mock file path.
func (s *Store) Path() string { return s.path }

// LockPath returns the sibling lock file path.
func (s *Store) LockPath() string { return s.lock.Path() }

// Platforms returns the scope's mappings. With useCache the snapshot from
// the last locked read or write is returned without touching the file; it
// may be stale if another process changed the file since. Keys are returned
// as stored in the file.
func (s *Store) Platforms(ctx context.Context, useCache bool) (map[string]string, error) {
	if !useCache {
		err := s.locked(ctx, func() error {
			_, err := s.read()
			return err
		})
		if err != nil {
			return nil, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyMap(s.platforms), nil
}

// Add maps prefix to name in the scope. Malformed prefixes are rejected with
// platform.ErrInvalidIdentifier before the file is touched.
func (s *Store) Add(ctx context.Context, prefix, name string) error {
	s.log.Info().Str("scope", string(s.scope)).Str("prefix", prefix).Str("platform", name).Msg("adding mocked platform")
	return s.Execute(ctx, []Op{{Kind: OpAdd, Prefix: prefix, Name: name}})
}

// Remove deletes prefix from the scope, in any letter case. It fails with
// ErrNotFound when the freshly read file does not contain prefix.
func (s *Store) Remove(ctx context.Context, prefix string) error {
	s.log.Info().Str("scope", string(s.scope)).Str("prefix", prefix).Msg("removing mocked platform")
	return s.Execute(ctx, []Op{{Kind: OpRemove, Prefix: prefix}})
}

// Clear empties the scope under a single lock acquisition.
func (s *Store) Clear(ctx context.Context) error {
	s.log.Info().Str("scope", string(s.scope)).Msg("clearing mocked platforms")
	return s.Execute(ctx, []Op{{Kind: OpClear}})
}

// Execute applies ops in order against a fresh read of the file and writes
// the result once. If any op fails nothing is written. Added prefixes are
// stored upper-cased and replace any entry differing only in case.
func (s *Store) Execute(ctx context.Context, ops []Op) error {
	for _, op := range ops {
		if op.Kind == OpAdd && !platform.ValidPrefix(op.Prefix) {
			return &platform.InvalidIdentifierError{Prefix: op.Prefix}
		}
	}
	return s.locked(ctx, func() error {
		platforms, err := s.read()
		if err != nil {
			return err
		}
		for _, op := range ops {
			switch op.Kind {
			case OpAdd:
				deleteFold(platforms, op.Prefix)
				platforms[strings.ToUpper(op.Prefix)] = op.Name
			case OpRemove:
				if !deleteFold(platforms, op.Prefix) {
					return &NotFoundError{Scope: s.scope, Path: s.path, Prefix: op.Prefix}
				}
			case OpClear:
				platforms = map[string]string{}
			default:
				return fmt.Errorf("mock: unknown operation %d", op.Kind)
			}
		}
		return s.write(platforms)
	})
}

// locked runs fn while holding the interprocess lock. The lock is released
// on every return path.
func (s *Store) locked(ctx context.Context, fn func() error) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()
	return fn()
}

func (s *Store) acquire(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	deadline, _ := ctx.Deadline()
	s.log.Debug().Str("lock", s.lock.Path()).Time("deadline", deadline).Msg("acquiring mock file lock")

	start := time.Now()
	ok, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if ok {
		return nil
	}
	if err == nil || errors.Is(err, context.DeadlineExceeded) {
		return &LockTimeoutError{Scope: s.scope, Path: s.path, Waited: time.Since(start)}
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("mock: lock %s: %w", s.lock.Path(), err)
	}
	return &IOError{Op: "lock", Path: s.lock.Path(), Err: err}
}

func (s *Store) release() {
	s.log.Debug().Str("lock", s.lock.Path()).Msg("releasing mock file lock")
	if err := s.lock.Unlock(); err != nil {
		s.log.Warn().Err(err).Str("lock", s.lock.Path()).Msg("failed to release mock file lock")
	}
}

// read loads the file into the cache and returns a private copy. A missing
// or zero-length file is an empty mapping.
func (s *Store) read() (map[string]string, error) {
	s.log.Debug().Str("path", s.path).Msg("reading mock file")
	platforms := map[string]string{}

	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, &IOError{Op: "read", Path: s.path, Err: err}
	case len(bytes.TrimSpace(data)) > 0:
		if err := json.Unmarshal(data, &platforms); err != nil {
			return nil, &ParseError{Path: s.path, Err: err}
		}
		if platforms == nil {
			return nil, &ParseError{Path: s.path, Err: errors.New("expected a JSON object")}
		}
	}

	s.mu.Lock()
	s.platforms = copyMap(platforms)
	s.mu.Unlock()
	return platforms, nil
}

func (s *Store) write(platforms map[string]string) error {
	s.log.Debug().Str("path", s.path).Int("entries", len(platforms)).Msg("writing mock file")
	data, err := json.MarshalIndent(platforms, "", "    ")
	if err != nil {
		return &ParseError{Path: s.path, Err: err}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &IOError{Op: "write", Path: tmp, Err: err}
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return &IOError{Op: "rename", Path: s.path, Err: err}
	}

	s.mu.Lock()
	s.platforms = copyMap(platforms)
	s.mu.Unlock()
	return nil
}

// deleteFold removes every key equal to prefix ignoring case and reports
// whether one was found.
func deleteFold(platforms map[string]string, prefix string) bool {
	found := false
	for k := range platforms {
		if strings.EqualFold(k, prefix) {
			delete(platforms, k)
			found = true
		}
	}
	return found
}

// canonical upper-cases the keys of platforms. When a file holds several
// spellings of one prefix the already upper-cased key wins, then the
// lexically smallest.
func canonical(platforms map[string]string) map[string]string {
	keys := make([]string, 0, len(platforms))
	for k := range platforms {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]string, len(platforms))
	for _, k := range keys {
		upper := strings.ToUpper(k)
		if _, taken := out[upper]; taken && k != upper {
			continue
		}
		out[upper] = platforms[k]
	}
	return out
}

func copyMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
