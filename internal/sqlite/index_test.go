package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/traitdex/pkg/types"
)

func loadSampleIndex(t *testing.T, b *Backend) types.Index {
	t.Helper()
	ix := types.NewIndex()
	ix.Add("core::ops::drop::Drop", types.ImplementorRecord{
		Text:     "impl<T, A: DeallocRef> Drop for Box<T, A>",
		TypePath: []string{"libx", "boxed", "Box"},
	})
	ix.Add("core::ops::drop::Drop", types.ImplementorRecord{
		Text:     "impl<T, A: DeallocRef> Drop for Vec<T, A>",
		TypePath: []string{"libx", "vec", "Vec"},
	})
	ix.Add("core::marker::Send", types.ImplementorRecord{
		Text:      "impl<T: Send> Send for RawVec<T>",
		Synthetic: true,
		TypePath:  []string{"libx", "raw_vec", "RawVec"},
	})
	require.NoError(t, b.LoadIndex(ix))
	return ix
}

func TestLoadBuildRoundTrip(t *testing.T) {
	b := setupBackend(t)
	ix := loadSampleIndex(t, b)

	got, err := b.BuildIndex()
	require.NoError(t, err)
	assert.True(t, ix.Equal(got))
}

func TestBuildIndexPreservesRecordOrder(t *testing.T) {
	b := setupBackend(t)
	loadSampleIndex(t, b)

	got, err := b.BuildIndex()
	require.NoError(t, err)

	recs, ok := got.Lookup("core::ops::drop::Drop")
	require.True(t, ok)
	require.Len(t, recs, 2)
	assert.Contains(t, recs[0].Text, "Box")
	assert.Contains(t, recs[1].Text, "Vec")
}

func TestLoadIndexReplacesTraitRecords(t *testing.T) {
	b := setupBackend(t)
	loadSampleIndex(t, b)

	update := types.NewIndex()
	update.Add("core::ops::drop::Drop", types.ImplementorRecord{
		Text:     "impl Drop for String",
		TypePath: []string{"libx", "string", "String"},
	})
	require.NoError(t, b.LoadIndex(update))

	got, err := b.BuildIndex()
	require.NoError(t, err)

	// Named trait replaced wholesale.
	recs, ok := got.Lookup("core::ops::drop::Drop")
	require.True(t, ok)
	require.Len(t, recs, 1)
	assert.Equal(t, "impl Drop for String", recs[0].Text)

	// Unnamed trait untouched.
	recs, ok = got.Lookup("core::marker::Send")
	require.True(t, ok)
	assert.Len(t, recs, 1)
}

func TestLoadIndexSurvivesReattach(t *testing.T) {
	tmpDir := t.TempDir()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: tmpDir,
	}

	b := NewBackend()
	require.NoError(t, b.Attach(config))
	ix := loadSampleIndex(t, b)
	require.NoError(t, b.Detach())

	b2 := NewBackend()
	require.NoError(t, b2.Attach(config))
	defer b2.Detach()

	got, err := b2.BuildIndex()
	require.NoError(t, err)
	assert.True(t, ix.Equal(got))
}

func TestIndexMethodsDetached(t *testing.T) {
	b := NewBackend()

	_, err := b.BuildIndex()
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	assert.ErrorIs(t, b.LoadIndex(types.NewIndex()), types.ErrStoreDetached)
}

func TestBuildIndexEmptyStore(t *testing.T) {
	b := setupBackend(t)

	got, err := b.BuildIndex()
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
	assert.Empty(t, got.Traits())
}
