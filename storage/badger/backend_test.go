package badger

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/vitae/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true, nil)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	tmpDir := t.TempDir()
	backend, err := OpenBackend(tmpDir, false, nil)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true, nil)
	require.NoError(t, err)

	assert.False(t, backend.IsClosed())
	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())

	err = backend.View(context.Background(), func(tx *badger.Txn) error { return nil })
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestUpdate_CancelledContext(t *testing.T) {
	backend, err := OpenBackend("", true, nil)
	require.NoError(t, err)
	defer backend.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err = backend.Update(ctx, func(tx *badger.Txn) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestUpdate_ConflictingCountersAreSerialized(t *testing.T) {
	backend, err := OpenBackend("", true, nil)
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	key := []byte("counter:test")

	const workers = 20
	var wg sync.WaitGroup
	var failures atomic.Int32
	seen := make(chan int, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var value int
			err := backend.Update(ctx, func(tx *badger.Txn) error {
				var err error
				value, err = bumpCounter(tx, key)
				return err
			})
			if err != nil {
				failures.Add(1)
				return
			}
			seen <- value
		}()
	}
	wg.Wait()
	close(seen)

	assert.Zero(t, failures.Load())
	values := map[int]bool{}
	for v := range seen {
		assert.False(t, values[v], "counter value %d handed out twice", v)
		values[v] = true
	}
	assert.Len(t, values, workers)
}

func TestGetSequence(t *testing.T) {
	backend, err := OpenBackend("", true, nil)
	require.NoError(t, err)
	defer backend.Close()

	seq, err := backend.GetSequence("test_sequence")
	require.NoError(t, err)
	require.NotNil(t, seq)
	defer seq.Release()

	id1, err := nextID(seq)
	require.NoError(t, err)
	id2, err := nextID(seq)
	require.NoError(t, err)

	assert.NotZero(t, id1)
	assert.Greater(t, id2, id1)
}

func TestIDListHelpers(t *testing.T) {
	ids := insertID(nil, 5)
	ids = insertID(ids, 2)
	ids = insertID(ids, 9)
	ids = insertID(ids, 5)
	assert.Equal(t, []uint64{2, 5, 9}, toUint64(ids))

	decoded, err := decodeIDs(encodeIDs(ids))
	require.NoError(t, err)
	assert.Equal(t, ids, decoded)

	ids = removeID(ids, 5)
	ids = removeID(ids, 100)
	assert.Equal(t, []uint64{2, 9}, toUint64(ids))
}
