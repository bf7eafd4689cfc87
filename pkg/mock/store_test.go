package mock

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceLS/internal/logger"
	"github.com/OpenTraceLab/OpenTraceLS/pkg/platform"
)

func newTestStore(t *testing.T, scope Scope, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", ".mbedls-mock")
	opts = append([]Option{WithLogger(logger.NewTestLogger())}, opts...)
	s, err := NewStore(scope, path, opts...)
	require.NoError(t, err)
	return s
}

func TestNewStoreCreatesParentOnly(t *testing.T) {
	s := newTestStore(t, ScopeGlobal)
	info, err := os.Stat(filepath.Dir(s.Path()))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err), "mock file must not exist before first write")
	assert.Equal(t, s.Path()+LockSuffix, s.LockPath())
}

func TestStoreAddPersists(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, ScopeLocal)

	require.NoError(t, s.Add(ctx, "1234", "NEW_BOARD"))
	require.NoError(t, s.Add(ctx, "0240", "OTHER"))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"0240\": \"OTHER\",\n    \"1234\": \"NEW_BOARD\"\n}", string(data))

	// A second store on the same path sees the durable state.
	other, err := NewStore(ScopeLocal, s.Path())
	require.NoError(t, err)
	platforms, err := other.Platforms(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"0240": "OTHER", "1234": "NEW_BOARD"}, platforms)
}

func TestStoreAddRereadsExternalChanges(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, ScopeGlobal)
	require.NoError(t, s.Add(ctx, "1111", "A"))

	require.NoError(t, os.WriteFile(s.Path(), []byte(`{"2222": "B"}`), 0o644))
	require.NoError(t, s.Add(ctx, "3333", "C"))

	platforms, err := s.Platforms(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"2222": "B", "3333": "C"}, platforms)
}

func TestStoreRemove(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, ScopeGlobal)
	require.NoError(t, s.Add(ctx, "1234", "X"))
	require.NoError(t, s.Remove(ctx, "1234"))

	platforms, err := s.Platforms(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, platforms)

	err = s.Remove(ctx, "1234")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrParse))
	assert.False(t, errors.Is(err, ErrIO))
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "1234", nf.Prefix)
	assert.Equal(t, ScopeGlobal, nf.Scope)
}

func TestStoreClearIsSingleWrite(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, ScopeLocal)
	require.NoError(t, s.Execute(ctx, []Op{
		{Kind: OpAdd, Prefix: "1111", Name: "A"},
		{Kind: OpAdd, Prefix: "2222", Name: "B"},
		{Kind: OpAdd, Prefix: "3333", Name: "C"},
	}))

	require.NoError(t, s.Clear(ctx))

	platforms, err := s.Platforms(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, platforms)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestStoreExecuteAbortsWithoutWriting(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, ScopeLocal)
	require.NoError(t, s.Add(ctx, "1111", "A"))

	err := s.Execute(ctx, []Op{
		{Kind: OpAdd, Prefix: "2222", Name: "B"},
		{Kind: OpRemove, Prefix: "9999"},
	})
	require.ErrorIs(t, err, ErrNotFound)

	platforms, err := s.Platforms(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"1111": "A"}, platforms)
}

func TestStoreParseFailureReleasesLock(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, ScopeGlobal, WithLockTimeout(200*time.Millisecond))
	require.NoError(t, os.WriteFile(s.Path(), []byte(`{"1234": `), 0o644))

	_, err := s.Platforms(ctx, false)
	require.ErrorIs(t, err, ErrParse)

	err = s.Add(ctx, "1234", "X")
	require.ErrorIs(t, err, ErrParse)

	require.NoError(t, os.WriteFile(s.Path(), []byte(`["not", "an", "object"]`), 0o644))
	err = s.Remove(ctx, "1234")
	require.ErrorIs(t, err, ErrParse)
	assert.False(t, errors.Is(err, ErrNotFound))

	// The lock must be free again for another holder.
	other := flock.New(s.LockPath())
	ok, err := other.TryLock()
	require.NoError(t, err)
	require.True(t, ok, "lock still held after parse failure")
	require.NoError(t, other.Unlock())
}

func TestStoreIOFailure(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, ScopeGlobal)
	// A directory in place of the mock file cannot be read as a file.
	require.NoError(t, os.Mkdir(s.Path(), 0o755))

	_, err := s.Platforms(ctx, false)
	require.ErrorIs(t, err, ErrIO)

	err = s.Add(ctx, "1234", "X")
	require.ErrorIs(t, err, ErrIO)
}

func TestStoreLockTimeout(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, ScopeLocal, WithLockTimeout(150*time.Millisecond))

	holder := flock.New(s.LockPath())
	ok, err := holder.TryLock()
	require.NoError(t, err)
	require.True(t, ok)

	err = s.Add(ctx, "1234", "X")
	require.ErrorIs(t, err, ErrLockTimeout)
	var lt *LockTimeoutError
	require.True(t, errors.As(err, &lt))
	assert.Equal(t, ScopeLocal, lt.Scope)
	assert.GreaterOrEqual(t, lt.Waited, 100*time.Millisecond)

	_, err = s.Platforms(ctx, false)
	require.ErrorIs(t, err, ErrLockTimeout)

	// Cached reads bypass the lock.
	platforms, err := s.Platforms(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, platforms)

	require.NoError(t, holder.Unlock())
	require.NoError(t, s.Add(ctx, "1234", "X"))
}

func TestStoreCachedSnapshotMayBeStale(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, ScopeLocal)
	require.NoError(t, s.Add(ctx, "1234", "X"))
	require.NoError(t, os.WriteFile(s.Path(), []byte(`{"5678": "Y"}`), 0o644))

	cached, err := s.Platforms(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"1234": "X"}, cached)

	fresh, err := s.Platforms(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"5678": "Y"}, fresh)

	fresh["0000"] = "MUTATED"
	again, err := s.Platforms(ctx, true)
	require.NoError(t, err)
	assert.NotContains(t, again, "0000")
}

func TestComposeLocalOverridesGlobal(t *testing.T) {
	ctx := context.Background()
	global := newTestStore(t, ScopeGlobal)
	local := newTestStore(t, ScopeLocal)
	require.NoError(t, global.Add(ctx, "1234", "GLOBAL"))
	require.NoError(t, global.Add(ctx, "1111", "ONLY_GLOBAL"))
	require.NoError(t, local.Add(ctx, "1234", "LOCAL"))

	merged, err := Compose(ctx, global, nil, local)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"1234": "LOCAL", "1111": "ONLY_GLOBAL"}, merged)

	db := platform.NewDatabase()
	skipped := Apply(db, merged, logger.NewTestLogger())
	assert.Empty(t, skipped)
	name, ok := db.Get("1234")
	require.True(t, ok)
	assert.Equal(t, "LOCAL", name)
}

func TestApplySkipsInvalidPrefixes(t *testing.T) {
	db := platform.NewDatabase()
	skipped := Apply(db, map[string]string{"zzzz": "BAD", "12345": "BAD", "ABCD": "GOOD"}, logger.NewTestLogger())
	assert.Equal(t, []string{"12345", "zzzz"}, skipped)
	name, ok := db.Get("ABCD")
	require.True(t, ok)
	assert.Equal(t, "GOOD", name)
}

func TestComposePrefixCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	global := newTestStore(t, ScopeGlobal)
	local := newTestStore(t, ScopeLocal)
	require.NoError(t, os.WriteFile(global.Path(), []byte(`{"ABCD": "GLOBAL", "1111": "ONLY_GLOBAL"}`), 0o644))
	require.NoError(t, os.WriteFile(local.Path(), []byte(`{"abcd": "LOCAL"}`), 0o644))

	for i := 0; i < 50; i++ {
		merged, err := Compose(ctx, global, local)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"ABCD": "LOCAL", "1111": "ONLY_GLOBAL"}, merged)

		db := platform.NewDatabase()
		assert.Empty(t, Apply(db, merged, logger.NewTestLogger()))
		name, ok := db.Get("ABCD")
		require.True(t, ok)
		require.Equal(t, "LOCAL", name)
	}
}

func TestComposeSameScopeSpellings(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, ScopeLocal)
	require.NoError(t, os.WriteFile(s.Path(), []byte(`{"abcd": "LOWER", "ABCD": "UPPER", "aBcD": "MIXED"}`), 0o644))

	merged, err := Compose(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"ABCD": "UPPER"}, merged)
}

func TestStorePrefixCase(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, ScopeLocal)
	require.NoError(t, os.WriteFile(s.Path(), []byte(`{"abcd": "HAND_EDITED"}`), 0o644))

	require.NoError(t, s.Remove(ctx, "ABCD"))
	platforms, err := s.Platforms(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, platforms)

	require.NoError(t, s.Add(ctx, "beef", "FIRST"))
	require.NoError(t, s.Add(ctx, "BeEf", "SECOND"))
	platforms, err = s.Platforms(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"BEEF": "SECOND"}, platforms)

	require.NoError(t, s.Remove(ctx, "beef"))
	platforms, err = s.Platforms(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, platforms)
}

func TestStoreAddRejectsInvalidPrefix(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, ScopeLocal)

	for _, prefix := range []string{"", "123", "12345", "XYZW", "*"} {
		err := s.Add(ctx, prefix, "JUNK")
		require.ErrorIs(t, err, platform.ErrInvalidIdentifier, "prefix %q", prefix)
	}
	err := s.Execute(ctx, []Op{
		{Kind: OpAdd, Prefix: "1111", Name: "A"},
		{Kind: OpAdd, Prefix: "GHIJ", Name: "B"},
	})
	var invalid *platform.InvalidIdentifierError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "GHIJ", invalid.Prefix)

	_, err = os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err), "nothing may be written for a rejected prefix")
}

func TestStoreContextDeadlineIsCallTimeout(t *testing.T) {
	s := newTestStore(t, ScopeLocal, WithLockTimeout(50*time.Millisecond))

	holder := flock.New(s.LockPath())
	ok, err := holder.TryLock()
	require.NoError(t, err)
	require.True(t, ok)

	released := make(chan struct{})
	go func() {
		time.Sleep(300 * time.Millisecond)
		holder.Unlock()
		close(released)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Add(ctx, "1234", "X"))
	<-released

	require.NoError(t, holder.Lock())
	defer holder.Unlock()
	short, cancelShort := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancelShort()
	_, err = s.Platforms(short, false)
	require.ErrorIs(t, err, ErrLockTimeout)
}
