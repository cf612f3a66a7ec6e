package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"raisecore/storage"
)

type record struct {
	Name  string
	Count uint64
}

func TestKVRoundTrip(t *testing.T) {
	kv := NewKV(storage.NewMemDB())

	require.NoError(t, kv.KVPut([]byte("raise/config"), record{Name: "gp", Count: 3}))

	var got record
	ok, err := kv.KVGet([]byte("raise/config"), &got)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, record{Name: "gp", Count: 3}, got)
}

func TestKVGetMissing(t *testing.T) {
	kv := NewKV(storage.NewMemDB())

	var got record
	ok, err := kv.KVGet([]byte("raise/config"), &got)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestKVGetExistenceOnly(t *testing.T) {
	kv := NewKV(storage.NewMemDB())
	require.NoError(t, kv.KVPut([]byte("raise/config"), record{Name: "gp"}))

	ok, err := kv.KVGet([]byte("raise/config"), nil)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestKVDelete(t *testing.T) {
	kv := NewKV(storage.NewMemDB())
	require.NoError(t, kv.KVPut([]byte("raise/config"), record{Name: "gp"}))
	require.NoError(t, kv.KVDelete([]byte("raise/config")))

	ok, err := kv.KVGet([]byte("raise/config"), nil)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, kv.KVDelete([]byte("raise/config")))
}

func TestKVKeysAreDisjoint(t *testing.T) {
	db := storage.NewMemDB()
	kv := NewKV(db)

	require.NoError(t, kv.KVPut([]byte("raise/subs/pending"), []string{"sub_1"}))
	require.NoError(t, kv.KVPut([]byte("raise/subs/eligible"), []string{"sub_2"}))
	require.Equal(t, 2, db.Len())

	var pending []string
	ok, err := kv.KVGet([]byte("raise/subs/pending"), &pending)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"sub_1"}, pending)
}

func TestKVRejectsEmptyKey(t *testing.T) {
	kv := NewKV(storage.NewMemDB())

	require.Error(t, kv.KVPut(nil, record{}))
	_, err := kv.KVGet(nil, nil)
	require.Error(t, err)
	require.Error(t, kv.KVDelete(nil))
}
