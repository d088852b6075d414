package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/traitdex/pkg/types"
)

func TestImplementorsTableCRUD(t *testing.T) {
	b := setupBackend(t)
	table, err := b.GetTable(types.TableImplementors)
	require.NoError(t, err)

	id, err := table.Set("", &types.Implementor{
		TraitName: "core::ops::drop::Drop",
		Text:      "impl<T, A: DeallocRef> Drop for Box<T, A>",
		TypePath:  []string{"libx", "boxed", "Box"},
	})
	require.NoError(t, err)

	entity, err := table.Get(id)
	require.NoError(t, err)
	im := entity.(*types.Implementor)
	assert.Equal(t, "core::ops::drop::Drop", im.TraitName)
	assert.Equal(t, 0, im.Ordinal)
	assert.False(t, im.Synthetic)
	assert.False(t, im.CreatedAt.IsZero())

	im.Synthetic = true
	_, err = table.Set(id, im)
	require.NoError(t, err)
	entity, err = table.Get(id)
	require.NoError(t, err)
	assert.True(t, entity.(*types.Implementor).Synthetic)

	require.NoError(t, table.Delete(id))
	_, err = table.Get(id)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.ErrorIs(t, table.Delete(id), types.ErrNotFound)
}

func TestImplementorsTableValidation(t *testing.T) {
	b := setupBackend(t)
	table, err := b.GetTable(types.TableImplementors)
	require.NoError(t, err)

	_, err = table.Set("", &types.Implementor{
		Text:     "impl Drop for Box<T>",
		TypePath: []string{"libx", "Box"},
	})
	assert.ErrorIs(t, err, types.ErrInvalidName)

	_, err = table.Set("", &types.Implementor{
		TraitName: "libx::ops::Drop",
		TypePath:  []string{"libx", "Box"},
	})
	assert.ErrorIs(t, err, types.ErrInvalidText)

	_, err = table.Set("", &types.Implementor{
		TraitName: "libx::ops::Drop",
		Text:      "impl Drop for Box<T>",
	})
	assert.ErrorIs(t, err, types.ErrInvalidTypePath)

	_, err = table.Set("", &types.Trait{Name: "libx::ops::Drop"})
	assert.ErrorIs(t, err, types.ErrInvalidData)
}

func TestImplementorsOrdinalAssignment(t *testing.T) {
	b := setupBackend(t)
	table, err := b.GetTable(types.TableImplementors)
	require.NoError(t, err)

	// Negative ordinal appends to the trait's record list.
	for i, typ := range []string{"Box", "Vec", "String"} {
		id, err := table.Set("", &types.Implementor{
			TraitName: "libx::clone::CloneIn",
			Ordinal:   -1,
			Text:      "impl CloneIn for " + typ,
			TypePath:  []string{"libx", typ},
		})
		require.NoError(t, err)

		entity, err := table.Get(id)
		require.NoError(t, err)
		assert.Equal(t, i, entity.(*types.Implementor).Ordinal)
	}
}

func TestImplementorsAutoCreateTrait(t *testing.T) {
	b := setupBackend(t)
	impls, err := b.GetTable(types.TableImplementors)
	require.NoError(t, err)

	_, err = impls.Set("", &types.Implementor{
		TraitName: "libx::str::FromStrIn",
		Text:      "impl FromStrIn for String",
		TypePath:  []string{"libx", "string", "String"},
	})
	require.NoError(t, err)

	traits, err := b.GetTable(types.TableTraits)
	require.NoError(t, err)
	found, err := traits.Fetch(map[string]any{"name": "libx::str::FromStrIn"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "libx", found[0].(*types.Trait).Crate)
}

func TestImplementorsTableFetch(t *testing.T) {
	b := setupBackend(t)
	table, err := b.GetTable(types.TableImplementors)
	require.NoError(t, err)

	seed := []types.Implementor{
		{TraitName: "libx::ops::Drop", Ordinal: 0, Text: "impl Drop for Box<T>", TypePath: []string{"libx", "Box"}},
		{TraitName: "libx::ops::Drop", Ordinal: 1, Text: "impl Drop for Vec<T>", TypePath: []string{"libx", "Vec"}},
		{TraitName: "core::marker::Send", Ordinal: 0, Synthetic: true, Text: "impl Send for RawVec<T>", TypePath: []string{"libx", "RawVec"}},
	}
	for i := range seed {
		_, err := table.Set("", &seed[i])
		require.NoError(t, err)
	}

	all, err := table.Fetch(nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Ordered by (trait_name, ordinal).
	assert.Equal(t, "core::marker::Send", all[0].(*types.Implementor).TraitName)
	assert.Equal(t, "impl Drop for Box<T>", all[1].(*types.Implementor).Text)
	assert.Equal(t, "impl Drop for Vec<T>", all[2].(*types.Implementor).Text)

	drops, err := table.Fetch(map[string]any{"trait_name": "libx::ops::Drop"})
	require.NoError(t, err)
	assert.Len(t, drops, 2)

	synthetic, err := table.Fetch(map[string]any{"synthetic": true})
	require.NoError(t, err)
	require.Len(t, synthetic, 1)
	assert.Equal(t, "core::marker::Send", synthetic[0].(*types.Implementor).TraitName)

	libx, err := table.Fetch(map[string]any{"crate": "libx"})
	require.NoError(t, err)
	assert.Len(t, libx, 2)

	_, err = table.Fetch(map[string]any{"synthetic": "yes"})
	assert.ErrorIs(t, err, types.ErrInvalidFilter)
}
