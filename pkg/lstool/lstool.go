// Package lstool assembles the platform database, mock stores, retarget
// overrides and host provider into a ready to use board lister.
package lstool

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/OpenTraceLab/OpenTraceLS/internal/config"
	"github.com/OpenTraceLab/OpenTraceLS/pkg/device"
	"github.com/OpenTraceLab/OpenTraceLS/pkg/host"
	"github.com/OpenTraceLab/OpenTraceLS/pkg/mock"
	"github.com/OpenTraceLab/OpenTraceLS/pkg/platform"
	"github.com/OpenTraceLab/OpenTraceLS/pkg/retarget"
)

// UnknownPlatform stands in for boards whose platform could not be resolved.
const UnknownPlatform = "unknown"

// Tool lists boards attached to this host.
type Tool struct {
	cfg       *config.Config
	provider  device.Provider
	overrides *retarget.Set
	global    *mock.Store
	local     *mock.Store
	log       zerolog.Logger

	mu      sync.Mutex
	db      *platform.Database
	lister  *device.Lister
	skipped []string
}

// Option configures New.
type Option func(*Tool)

// WithProvider replaces host detection, mainly for tests.
func WithProvider(p device.Provider) Option {
	return func(t *Tool) {
		t.provider = p
	}
}

// WithLogger attaches a logger passed down to every component.
func WithLogger(log zerolog.Logger) Option {
	return func(t *Tool) {
		t.log = log
	}
}

// New builds a Tool from cfg: both mock scopes are composed into a fresh
// platform database and the retarget file is loaded once.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Tool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t := &Tool{cfg: cfg, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(t)
	}

	var err error
	storeOpts := []mock.Option{mock.WithLockTimeout(cfg.LockTimeout), mock.WithLogger(t.log)}
	if cfg.GlobalMockPath != "" {
		if t.global, err = mock.NewStore(mock.ScopeGlobal, cfg.GlobalMockPath, storeOpts...); err != nil {
			return nil, err
		}
	}
	if t.local, err = mock.NewStore(mock.ScopeLocal, cfg.LocalMockPath, storeOpts...); err != nil {
		return nil, err
	}

	t.overrides, err = retarget.Load(cfg.RetargetPath, retarget.Options{
		Disabled: cfg.SkipRetarget,
		Required: cfg.RequireRetarget,
		Logger:   t.log,
	})
	if err != nil {
		return nil, err
	}

	if t.provider == nil {
		if t.provider, err = host.Detect(host.Options{USBScan: cfg.USBScan, Logger: t.log}); err != nil {
			return nil, err
		}
	}

	if err := t.reload(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// reload rebuilds the platform database from the built-in table and the
// current contents of both mock files.
func (t *Tool) reload(ctx context.Context) error {
	mocks, err := mock.Compose(ctx, t.global, t.local)
	if err != nil {
		return err
	}
	db := platform.NewDatabase()
	skipped := mock.Apply(db, mocks, t.log)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.db = db
	t.skipped = skipped
	t.lister = device.NewLister(db, t.provider, device.WithOverrides(t.overrides), device.WithLogger(t.log))
	return nil
}

func (t *Tool) current() (*platform.Database, *device.Lister) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.db, t.lister
}

// List returns the attached boards.
func (t *Tool) List(opts device.ListOptions) ([]device.Record, error) {
	_, l := t.current()
	return l.List(opts)
}

// ListByTargetID returns the attached boards keyed by target ID.
func (t *Tool) ListByTargetID(opts device.ListOptions) (map[string]device.Record, error) {
	records, err := t.List(opts)
	if err != nil {
		return nil, err
	}
	out := make(map[string]device.Record, len(records))
	for _, r := range records {
		out[r.TargetID] = r
	}
	return out, nil
}

// Platforms returns every prefix → platform mapping in effect.
func (t *Tool) Platforms() map[string]string {
	db, _ := t.current()
	return db.All()
}

// Lookup resolves a full target ID or prefix to a platform name.
func (t *Tool) Lookup(targetID string) (string, bool) {
	db, _ := t.current()
	return db.Get(platform.PrefixOf(targetID))
}

// DetectedPlatforms returns the distinct platform names of attached boards
// in listing order.
func (t *Tool) DetectedPlatforms(opts device.ListOptions) ([]string, error) {
	records, err := t.List(opts)
	if err != nil {
		return nil, err
	}
	var out []string
	seen := map[string]bool{}
	for _, r := range records {
		name := platformOf(r)
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out, nil
}

// PlatformCounts returns how many boards of each platform are attached.
func (t *Tool) PlatformCounts(opts device.ListOptions) (map[string]int, error) {
	records, err := t.List(opts)
	if err != nil {
		return nil, err
	}
	out := map[string]int{}
	for _, r := range records {
		out[platformOf(r)]++
	}
	return out, nil
}

func platformOf(r device.Record) string {
	if r.PlatformName == "" {
		return UnknownPlatform
	}
	return r.PlatformName
}

// MockedPlatforms re-reads both mock files and returns their composition.
func (t *Tool) MockedPlatforms(ctx context.Context) (map[string]string, error) {
	return mock.Compose(ctx, t.global, t.local)
}

// Skipped returns the mocked prefixes rejected as malformed on the last load.
func (t *Tool) Skipped() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.skipped...)
}

// Store returns the mock store of scope, or nil when that scope is disabled.
func (t *Tool) Store(scope mock.Scope) *mock.Store {
	switch scope {
	case mock.ScopeGlobal:
		return t.global
	case mock.ScopeLocal:
		return t.local
	}
	return nil
}

// Mock applies ops to scope's file in one locked cycle and reloads the
// platform database so later listings see the change.
func (t *Tool) Mock(ctx context.Context, scope mock.Scope, ops []mock.Op) error {
	s := t.Store(scope)
	if s == nil {
		return fmt.Errorf("lstool: mock scope %q is not available", scope)
	}
	if err := s.Execute(ctx, ops); err != nil {
		return err
	}
	return t.reload(ctx)
}

// Overrides returns the loaded retarget table.
func (t *Tool) Overrides() *retarget.Set {
	return t.overrides
}
