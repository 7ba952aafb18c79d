package decisions_test

import (
	"testing"
	"time"

	"github.com/arthur-debert/archx/pkg/decisions"
	"github.com/arthur-debert/archx/pkg/errors"
	"github.com/arthur-debert/archx/pkg/filesystem"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storePath = "/state/archx/decisions.json"

func newMemFS(t *testing.T) (afero.Fs, filesystem.FS) {
	t.Helper()
	mem := afero.NewMemMapFs()
	return mem, filesystem.NewAfero(mem)
}

func TestOpenMissingFileIsEmpty(t *testing.T) {
	_, fsys := newMemFS(t)

	store, err := decisions.Open(fsys, storePath)
	require.NoError(t, err)
	assert.Empty(t, store.All())
	assert.Equal(t, storePath, store.Path())

	_, found := store.Lookup(decisions.SymlinkKey("/home/u/.zshrc"))
	assert.False(t, found)
}

func TestRecordPersistsImmediately(t *testing.T) {
	_, fsys := newMemFS(t)
	store, err := decisions.Open(fsys, storePath)
	require.NoError(t, err)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	store.SetClock(func() time.Time { return fixed })

	key := decisions.SymlinkKey("/home/u/.zshrc")
	require.NoError(t, store.Record(key, decisions.Skip, false))

	reopened, err := decisions.Open(fsys, storePath)
	require.NoError(t, err)
	d, found := reopened.Lookup(key)
	require.True(t, found)
	assert.Equal(t, decisions.Skip, d.Resolution)
	assert.False(t, d.Always)
	assert.True(t, fixed.Equal(d.DecidedAt))
}

func TestAlwaysRecordsWildcard(t *testing.T) {
	_, fsys := newMemFS(t)
	store, err := decisions.Open(fsys, storePath)
	require.NoError(t, err)

	require.NoError(t, store.Record(decisions.SymlinkKey("/home/u/.zshrc"), decisions.Replace, true))

	entries := store.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "symlink:*", entries[0].Key)

	d, found := store.Lookup(decisions.SymlinkKey("/home/u/.config/other"))
	require.True(t, found)
	assert.Equal(t, decisions.Replace, d.Resolution)
	assert.True(t, d.Always)
}

func TestExactKeyWinsOverWildcard(t *testing.T) {
	_, fsys := newMemFS(t)
	store, err := decisions.Open(fsys, storePath)
	require.NoError(t, err)

	key := decisions.SymlinkKey("/home/u/.bashrc")
	require.NoError(t, store.Record(key, decisions.Skip, false))
	require.NoError(t, store.Record(decisions.SymlinkKey("/x"), decisions.Replace, true))

	d, found := store.Lookup(key)
	require.True(t, found)
	assert.Equal(t, decisions.Skip, d.Resolution)
}

func TestWildcardKey(t *testing.T) {
	assert.Equal(t, "symlink:*", decisions.WildcardKey("symlink:/a/b"))
	assert.Equal(t, "symlink:*", decisions.WildcardKey("symlink:C:/x:y"))
	assert.Equal(t, "*", decisions.WildcardKey("bare"))
}

func TestOpenFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"corrupt_json", "{not json"},
		{"newer_version", `{"version": 99, "decisions": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem, fsys := newMemFS(t)
			require.NoError(t, afero.WriteFile(mem, storePath, []byte(tt.content), 0644))

			_, err := decisions.Open(fsys, storePath)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrDecisionStore))
			assert.Contains(t, err.Error(), storePath)
		})
	}
}

func TestOpenNullDecisions(t *testing.T) {
	mem, fsys := newMemFS(t)
	require.NoError(t, afero.WriteFile(mem, storePath, []byte(`{"version":1,"decisions":null}`), 0644))

	store, err := decisions.Open(fsys, storePath)
	require.NoError(t, err)
	require.NoError(t, store.Record(decisions.SymlinkKey("/a"), decisions.Replace, false))
}

func TestRecordWriteFailureIsDecisionStoreError(t *testing.T) {
	mem := afero.NewMemMapFs()
	readOnly := filesystem.NewAfero(afero.NewReadOnlyFs(mem))

	store, err := decisions.Open(readOnly, storePath)
	require.NoError(t, err)

	err = store.Record(decisions.SymlinkKey("/a"), decisions.Replace, false)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDecisionStore))
}

func TestRecordRejectsUnknownResolution(t *testing.T) {
	_, fsys := newMemFS(t)
	store, err := decisions.Open(fsys, storePath)
	require.NoError(t, err)

	err = store.Record("symlink:/a", decisions.Resolution("maybe"), false)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDecisionStore))
	assert.Empty(t, store.All())
}

func TestForgetAndClear(t *testing.T) {
	_, fsys := newMemFS(t)
	store, err := decisions.Open(fsys, storePath)
	require.NoError(t, err)

	require.NoError(t, store.Record("symlink:/b", decisions.Skip, false))
	require.NoError(t, store.Record("symlink:/a", decisions.Replace, false))

	keys := []string{}
	for _, e := range store.All() {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"symlink:/a", "symlink:/b"}, keys)

	removed, err := store.Forget("symlink:/a")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.Forget("symlink:/missing")
	require.NoError(t, err)
	assert.False(t, removed)

	reopened, err := decisions.Open(fsys, storePath)
	require.NoError(t, err)
	assert.Len(t, reopened.All(), 1)

	require.NoError(t, reopened.Clear())
	again, err := decisions.Open(fsys, storePath)
	require.NoError(t, err)
	assert.Empty(t, again.All())
}

func TestParseResolution(t *testing.T) {
	r, err := decisions.ParseResolution("replace")
	require.NoError(t, err)
	assert.Equal(t, decisions.Replace, r)

	_, err = decisions.ParseResolution("ask")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}
