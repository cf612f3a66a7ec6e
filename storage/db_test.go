package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemDBPutGetDelete(t *testing.T) {
	db := NewMemDB()
	defer db.Close()

	require.NoError(t, db.Put([]byte("key"), []byte("value")))
	got, err := db.Get([]byte("key"))
	require.NoError(t, err)
	require.Equal(t, []byte("value"), got)
	require.Equal(t, 1, db.Len())

	require.NoError(t, db.Delete([]byte("key")))
	got, err = db.Get([]byte("key"))
	require.NoError(t, err)
	require.Nil(t, got)
	require.Equal(t, 0, db.Len())
}

func TestMemDBGetMissingIsNotAnError(t *testing.T) {
	db := NewMemDB()
	got, err := db.Get([]byte("absent"))
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestMemDBCopiesValues(t *testing.T) {
	db := NewMemDB()
	value := []byte("value")
	require.NoError(t, db.Put([]byte("key"), value))
	value[0] = 'x'

	got, err := db.Get([]byte("key"))
	require.NoError(t, err)
	require.Equal(t, []byte("value"), got)

	got[0] = 'x'
	again, err := db.Get([]byte("key"))
	require.NoError(t, err)
	require.Equal(t, []byte("value"), again)
}

func TestLevelDBRoundTrip(t *testing.T) {
	db, err := NewLevelDB(t.TempDir())
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Put([]byte("key"), []byte("value")))
	got, err := db.Get([]byte("key"))
	require.NoError(t, err)
	require.Equal(t, []byte("value"), got)

	missing, err := db.Get([]byte("absent"))
	require.NoError(t, err)
	require.Nil(t, missing)

	require.NoError(t, db.Delete([]byte("key")))
	got, err = db.Get([]byte("key"))
	require.NoError(t, err)
	require.Nil(t, got)
}
