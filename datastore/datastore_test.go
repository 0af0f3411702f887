package datastore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func openTemp(t *testing.T, interval time.Duration) (*DataStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "store.json")
	cfg := DefaultConfig(path)
	cfg.AutoSaveInterval = interval
	cfg.BackupCount = 2
	ds, err := NewWithConfig(cfg)
	require.NoError(t, err)
	return ds, path
}

func TestNewCreatesEmptyFile(t *testing.T) {
	defer goleak.VerifyNone(t)

	ds, path := openTemp(t, time.Hour)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
	require.NoError(t, ds.Close())
}

func TestNewRejectsEmptyPath(t *testing.T) {
	_, err := NewWithConfig(&Config{})
	require.Error(t, err)

	_, err = NewWithConfig(nil)
	require.Error(t, err)
}

func TestPutGetPersistsAcrossReopen(t *testing.T) {
	defer goleak.VerifyNone(t)

	ds, path := openTemp(t, 0)
	require.NoError(t, ds.Put("guild_config:1", []byte(`{"a":1}`)))
	require.NoError(t, ds.Close())

	reopened, err := NewWithConfig(&Config{FilePath: path})
	require.NoError(t, err)
	defer reopened.Close()

	doc, ok := reopened.Get("guild_config:1")
	require.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, string(doc))
}

func TestGetReturnsCopy(t *testing.T) {
	ds, _ := openTemp(t, 0)
	defer ds.Close()

	require.NoError(t, ds.Put("k", []byte(`"value"`)))
	doc, _ := ds.Get("k")
	doc[1] = 'X'

	again, _ := ds.Get("k")
	assert.Equal(t, `"value"`, string(again))
}

func TestPutRejectsInvalidJSON(t *testing.T) {
	ds, _ := openTemp(t, 0)
	defer ds.Close()

	require.Error(t, ds.Put("k", []byte(`{not json`)))
	_, ok := ds.Get("k")
	assert.False(t, ok)
}

func TestInsertRejectsExistingKey(t *testing.T) {
	ds, _ := openTemp(t, 0)
	defer ds.Close()

	require.NoError(t, ds.Insert("k", []byte(`1`)))
	err := ds.Insert("k", []byte(`2`))
	require.ErrorIs(t, err, ErrKeyExists)

	doc, _ := ds.Get("k")
	assert.Equal(t, `1`, string(doc))
}

func TestKeysFiltersByPrefix(t *testing.T) {
	ds, _ := openTemp(t, 0)
	defer ds.Close()

	require.NoError(t, ds.Put("guild_config:2", []byte(`{}`)))
	require.NoError(t, ds.Put("guild_config:1", []byte(`{}`)))
	require.NoError(t, ds.Put("other:1", []byte(`{}`)))

	assert.Equal(t, []string{"guild_config:1", "guild_config:2"}, ds.Keys("guild_config:"))
}

func TestClosedStoreRejectsWrites(t *testing.T) {
	ds, _ := openTemp(t, 0)
	require.NoError(t, ds.Close())
	require.NoError(t, ds.Close())

	require.ErrorIs(t, ds.Put("k", []byte(`1`)), ErrClosed)
	require.ErrorIs(t, ds.SaveToFile(), ErrClosed)
	_, ok := ds.Get("k")
	assert.False(t, ok)
}

func TestBackupsArePruned(t *testing.T) {
	ds, path := openTemp(t, 0)
	defer ds.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, ds.Put("k", []byte{byte('0' + i)}))
		require.NoError(t, ds.SaveToFile())
	}

	matches, err := filepath.Glob(path + ".backup.*")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(matches), 2)
}

func TestAutoSaveFlushes(t *testing.T) {
	defer goleak.VerifyNone(t)

	ds, path := openTemp(t, 10*time.Millisecond)
	require.NoError(t, ds.Put("k", []byte(`true`)))

	assert.Eventually(t, func() bool {
		data, err := os.ReadFile(path)
		return err == nil && string(data) != "{}"
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, ds.Close())
}
