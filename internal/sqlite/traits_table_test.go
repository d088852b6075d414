package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/traitdex/pkg/types"
)

func TestTraitsTableCRUD(t *testing.T) {
	b := setupBackend(t)
	table, err := b.GetTable(types.TableTraits)
	require.NoError(t, err)

	// Create with empty ID generates a UUID and derives the crate.
	id, err := table.Set("", &types.Trait{Name: "libx::clone::CloneIn"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	entity, err := table.Get(id)
	require.NoError(t, err)
	trait := entity.(*types.Trait)
	assert.Equal(t, "libx::clone::CloneIn", trait.Name)
	assert.Equal(t, "libx", trait.Crate)
	assert.False(t, trait.CreatedAt.IsZero())

	// Update through the same ID.
	trait.Crate = "liby"
	_, err = table.Set(id, trait)
	require.NoError(t, err)
	entity, err = table.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "liby", entity.(*types.Trait).Crate)

	// Delete.
	require.NoError(t, table.Delete(id))
	_, err = table.Get(id)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.ErrorIs(t, table.Delete(id), types.ErrNotFound)
}

func TestTraitsTableValidation(t *testing.T) {
	b := setupBackend(t)
	table, err := b.GetTable(types.TableTraits)
	require.NoError(t, err)

	_, err = table.Get("")
	assert.ErrorIs(t, err, types.ErrInvalidID)

	_, err = table.Set("", &types.Trait{})
	assert.ErrorIs(t, err, types.ErrInvalidName)

	_, err = table.Set("", "not a trait")
	assert.ErrorIs(t, err, types.ErrInvalidData)
}

func TestTraitsTableUniqueName(t *testing.T) {
	b := setupBackend(t)
	table, err := b.GetTable(types.TableTraits)
	require.NoError(t, err)

	id, err := table.Set("", &types.Trait{Name: "libx::ops::Drop"})
	require.NoError(t, err)

	_, err = table.Set("", &types.Trait{Name: "libx::ops::Drop"})
	assert.ErrorIs(t, err, types.ErrDuplicateTrait)

	// Re-setting the holder itself is not a conflict.
	_, err = table.Set(id, &types.Trait{TraitID: id, Name: "libx::ops::Drop"})
	assert.NoError(t, err)
}

func TestTraitsTableFetch(t *testing.T) {
	b := setupBackend(t)
	table, err := b.GetTable(types.TableTraits)
	require.NoError(t, err)

	for _, name := range []string{
		"libx::clone::CloneIn",
		"libx::ops::Drop",
		"core::marker::Send",
	} {
		_, err := table.Set("", &types.Trait{Name: name})
		require.NoError(t, err)
	}

	all, err := table.Fetch(nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Ordered by name.
	assert.Equal(t, "core::marker::Send", all[0].(*types.Trait).Name)

	libx, err := table.Fetch(map[string]any{"crate": "libx"})
	require.NoError(t, err)
	assert.Len(t, libx, 2)

	one, err := table.Fetch(map[string]any{"name": "libx::ops::Drop"})
	require.NoError(t, err)
	assert.Len(t, one, 1)

	_, err = table.Fetch(map[string]any{"crate": 42})
	assert.ErrorIs(t, err, types.ErrInvalidFilter)
}

func TestTraitDeleteCascadesToImplementors(t *testing.T) {
	b := setupBackend(t)
	impls, err := b.GetTable(types.TableImplementors)
	require.NoError(t, err)

	_, err = impls.Set("", &types.Implementor{
		TraitName: "libx::ops::Drop",
		Text:      "impl Drop for Box<T>",
		TypePath:  []string{"libx", "boxed", "Box"},
	})
	require.NoError(t, err)

	traits, err := b.GetTable(types.TableTraits)
	require.NoError(t, err)
	found, err := traits.Fetch(map[string]any{"name": "libx::ops::Drop"})
	require.NoError(t, err)
	require.Len(t, found, 1)

	require.NoError(t, traits.Delete(found[0].(*types.Trait).TraitID))

	remaining, err := impls.Fetch(map[string]any{"trait_name": "libx::ops::Drop"})
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
