package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func newRecordStore() *Store[record] {
	return New(Hooks[record]{
		Key: func(r record) int64 { return r.ID },
		OnCreate: func(r record, id int64, now time.Time) record {
			r.ID = id
			r.CreatedAt = now
			r.UpdatedAt = now
			return r
		},
		OnUpdate: func(r record, now time.Time) record {
			r.UpdatedAt = now
			return r
		},
	})
}

func TestStoreCreateAssignsSequentialIDs(t *testing.T) {
	s := newRecordStore()

	first := s.Create(record{Name: "a"})
	second := s.Create(record{Name: "b"})

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.False(t, first.CreatedAt.IsZero())
	assert.Equal(t, time.UTC, first.CreatedAt.Location())
}

func TestStoreIDsNeverReused(t *testing.T) {
	s := newRecordStore()

	first := s.Create(record{Name: "a"})
	require.True(t, s.Delete(first.ID))

	second := s.Create(record{Name: "b"})
	assert.Equal(t, int64(2), second.ID)
}

func TestStoreAllPreservesInsertionOrder(t *testing.T) {
	s := newRecordStore()
	s.Create(record{Name: "a"})
	b := s.Create(record{Name: "b"})
	s.Create(record{Name: "c"})
	s.Delete(b.ID)
	s.Create(record{Name: "d"})

	all := s.All()
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].Name)
	assert.Equal(t, "c", all[1].Name)
	assert.Equal(t, "d", all[2].Name)
}

func TestStoreGetAndExists(t *testing.T) {
	s := newRecordStore()
	created := s.Create(record{Name: "a"})

	got, ok := s.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, "a", got.Name)
	assert.True(t, s.Exists(created.ID))

	_, ok = s.Get(999)
	assert.False(t, ok)
	assert.False(t, s.Exists(999))
}

func TestStoreUpdate(t *testing.T) {
	s := newRecordStore()
	created := s.Create(record{Name: "a"})

	created.Name = "renamed"
	updated, err := s.Update(created)
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	_, err = s.Update(record{ID: 999, Name: "ghost"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreDeleteReportsExistence(t *testing.T) {
	s := newRecordStore()
	created := s.Create(record{Name: "a"})

	assert.True(t, s.Delete(created.ID))
	assert.False(t, s.Delete(created.ID))
}

func TestStoreFilterAndCount(t *testing.T) {
	s := newRecordStore()
	s.Create(record{Name: "keep"})
	s.Create(record{Name: "drop"})
	s.Create(record{Name: "keep"})

	kept := s.Filter(func(r record) bool { return r.Name == "keep" })
	assert.Len(t, kept, 2)
	assert.Equal(t, 2, s.Count(func(r record) bool { return r.Name == "keep" }))
}

func TestStoreConcurrentCreateUniqueIDs(t *testing.T) {
	s := newRecordStore()
	const workers = 50

	var wg sync.WaitGroup
	ids := make(chan int64, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- s.Create(record{Name: "c"}).ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]struct{}, workers)
	for id := range ids {
		_, dup := seen[id]
		require.False(t, dup, "identifier %d assigned twice", id)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, workers)
}

func TestStoreConcurrentMixedOperations(t *testing.T) {
	s := newRecordStore()
	seeded := make([]record, 0, 20)
	for i := 0; i < 20; i++ {
		seeded = append(seeded, s.Create(record{Name: "seed"}))
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		i := i
		wg.Add(3)
		go func() {
			defer wg.Done()
			s.Create(record{Name: "new"})
		}()
		go func() {
			defer wg.Done()
			s.Delete(seeded[i].ID)
		}()
		go func() {
			defer wg.Done()
			s.All()
		}()
	}
	wg.Wait()

	assert.Len(t, s.All(), 20)
}
