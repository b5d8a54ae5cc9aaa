package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kunori-kiku/textholder/kv"
)

func TestDirectory_Lookup(t *testing.T) {
	ctx := context.Background()

	t.Run("empty directory", func(t *testing.T) {
		d := New(kv.NewMemoryStore())

		_, found, err := d.Lookup(ctx, "alice")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("after upsert", func(t *testing.T) {
		d := New(kv.NewMemoryStore())

		require.NoError(t, d.Upsert(ctx, "alice", "hunter2"))

		password, found, err := d.Lookup(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "hunter2", password)
	})

	t.Run("tolerates a preexisting record", func(t *testing.T) {
		store := kv.NewMemoryStore()
		require.NoError(t, store.Put(ctx, "userList", []byte(`{"bob":"swordfish"}`)))

		d := New(store)

		password, found, err := d.Lookup(ctx, "bob")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "swordfish", password)
	})
}

func TestDirectory_Upsert(t *testing.T) {
	ctx := context.Background()
	d := New(kv.NewMemoryStore())

	require.NoError(t, d.Upsert(ctx, "alice", "hunter2"))
	require.NoError(t, d.Upsert(ctx, "alice", "hunter3"))

	password, found, err := d.Lookup(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "hunter3", password)

	usernames, err := d.Usernames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, usernames)
}

func TestDirectory_Remove(t *testing.T) {
	ctx := context.Background()
	d := New(kv.NewMemoryStore())

	require.NoError(t, d.Upsert(ctx, "alice", "hunter2"))
	require.NoError(t, d.Upsert(ctx, "bob", "swordfish"))

	require.NoError(t, d.Remove(ctx, "alice"))

	_, found, err := d.Lookup(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, found)

	t.Run("removing an unknown user is a no-op", func(t *testing.T) {
		require.NoError(t, d.Remove(ctx, "nobody"))

		usernames, err := d.Usernames(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"bob"}, usernames)
	})
}

func TestDirectory_Usernames(t *testing.T) {
	ctx := context.Background()
	d := New(kv.NewMemoryStore())

	usernames, err := d.Usernames(ctx)
	require.NoError(t, err)
	assert.Empty(t, usernames)
	assert.NotNil(t, usernames)

	require.NoError(t, d.Upsert(ctx, "alice", "a"))
	require.NoError(t, d.Upsert(ctx, "bob", "b"))
	require.NoError(t, d.Upsert(ctx, "carol", "c"))

	usernames, err = d.Usernames(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob", "carol"}, usernames)
}
