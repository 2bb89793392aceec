package memstore

import (
	"context"
	"sync"
	"testing"

	"github.com/idilsaglam/taskhub/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTaskStore(seed ...model.Task) *Store[int64, model.Task] {
	return New(model.TaskKey, seed...)
}

func TestInsert(t *testing.T) {
	ctx := context.Background()
	s := newTaskStore()

	t.Run("fresh_id", func(t *testing.T) {
		ok, err := s.Insert(ctx, model.Task{ID: 1, Title: "a"})
		require.NoError(t, err)
		assert.True(t, ok)

		got, found, err := s.FindByID(ctx, 1)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "a", got.Title)
	})

	t.Run("duplicate_id_keeps_original", func(t *testing.T) {
		ok, err := s.Insert(ctx, model.Task{ID: 1, Title: "b"})
		require.NoError(t, err)
		assert.False(t, ok)

		got, _, _ := s.FindByID(ctx, 1)
		assert.Equal(t, "a", got.Title)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	s := newTaskStore(model.Task{ID: 1, Title: "a"}, model.Task{ID: 2, Title: "b"})

	ok, err := s.Update(ctx, model.Task{ID: 3, Title: "c"})
	require.NoError(t, err)
	assert.False(t, ok)
	all, _ := s.FindAll(ctx)
	assert.Len(t, all, 2)
	_, found, _ := s.FindByID(ctx, 3)
	assert.False(t, found)

	ok, err = s.Update(ctx, model.Task{ID: 2, Title: "B", Done: true})
	require.NoError(t, err)
	assert.True(t, ok)
	got, _, _ := s.FindByID(ctx, 2)
	assert.Equal(t, model.Task{ID: 2, Title: "B", Done: true}, got)
	other, _, _ := s.FindByID(ctx, 1)
	assert.Equal(t, model.Task{ID: 1, Title: "a"}, other)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := newTaskStore(model.Task{ID: 1, Title: "a"})

	ok, err := s.Delete(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Delete(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	_, found, _ := s.FindByID(ctx, 1)
	assert.False(t, found)
	assert.Equal(t, 0, s.Len())
}

func TestSeedIgnoresDuplicates(t *testing.T) {
	s := newTaskStore(model.Task{ID: 1, Title: "first"}, model.Task{ID: 1, Title: "second"})
	got, _, _ := s.FindByID(context.Background(), 1)
	assert.Equal(t, "first", got.Title)
	assert.Equal(t, 1, s.Len())
}

func TestConcurrentInserts(t *testing.T) {
	const n = 200
	ctx := context.Background()
	s := newTaskStore()

	var wg sync.WaitGroup
	results := make([]bool, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, _ := s.Insert(ctx, model.Task{ID: int64(i + 1), Title: "t"})
			results[i] = ok
		}(i)
	}
	wg.Wait()

	for i, ok := range results {
		assert.True(t, ok, "insert %d", i)
	}
	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, n)
}
