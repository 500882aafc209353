package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/outletdesk/internal/domain/models"
)

func TestRegistry_Lifecycle(t *testing.T) {
	r := NewRegistry()

	id := r.Create(func(s *State) {
		s.LoggedIn = true
		s.Outlet = "Wakra"
	})
	require.True(t, r.Exists(id))

	err := r.With(id, func(s *State) error {
		assert.True(t, s.LoggedIn)
		assert.Equal(t, "Wakra", s.Outlet)
		return nil
	})
	require.NoError(t, err)

	r.Delete(id)
	assert.False(t, r.Exists(id))
	assert.ErrorIs(t, r.With(id, func(*State) error { return nil }), ErrUnknownSession)
}

func TestRegistry_SerializesSameSession(t *testing.T) {
	r := NewRegistry()
	id := r.Create(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.With(id, func(s *State) error {
				s.Items = append(s.Items, models.InventoryRecord{})
				return nil
			})
		}()
	}
	wg.Wait()

	require.NoError(t, r.With(id, func(s *State) error {
		assert.Len(t, s.Items, 50)
		return nil
	}))
}
