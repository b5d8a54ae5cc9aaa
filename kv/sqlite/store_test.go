package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kunori-kiku/textholder/kv"
)

func makeTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := makeTestStore(t)

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, s.Put(ctx, "userList", []byte(`{"alice":"hunter2"}`)))

	value, err := s.Get(ctx, "userList")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"alice":"hunter2"}`), value)

	require.NoError(t, s.Put(ctx, "userList", []byte(`{}`)))

	value, err = s.Get(ctx, "userList")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{}`), value)
}

func TestStore_CompareAndSwap(t *testing.T) {
	ctx := context.Background()
	s := makeTestStore(t)

	swapped, err := s.CompareAndSwap(ctx, "a", nil, []byte("one"))
	require.NoError(t, err)
	assert.True(t, swapped)

	swapped, err = s.CompareAndSwap(ctx, "a", nil, []byte("two"))
	require.NoError(t, err)
	assert.False(t, swapped)

	swapped, err = s.CompareAndSwap(ctx, "a", []byte("one"), []byte("two"))
	require.NoError(t, err)
	assert.True(t, swapped)

	swapped, err = s.CompareAndSwap(ctx, "a", []byte("one"), []byte("three"))
	require.NoError(t, err)
	assert.False(t, swapped)

	value, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), value)
}

func TestStore_DeleteAndList(t *testing.T) {
	ctx := context.Background()
	s := makeTestStore(t)

	require.NoError(t, s.Put(ctx, "loginFail-1.2.3.4", []byte("x")))
	require.NoError(t, s.Put(ctx, "loginFail-5.6.7.8", []byte("y")))
	require.NoError(t, s.Put(ctx, "superFail-1.2.3.4", []byte("z")))

	keys, err := s.List(ctx, "loginFail-")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"loginFail-1.2.3.4", "loginFail-5.6.7.8"}, keys)

	require.NoError(t, s.Delete(ctx, "loginFail-1.2.3.4"))
	require.NoError(t, s.Delete(ctx, "loginFail-1.2.3.4"))

	keys, err = s.List(ctx, "loginFail-")
	require.NoError(t, err)
	assert.Equal(t, []string{"loginFail-5.6.7.8"}, keys)
}
