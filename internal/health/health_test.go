package health

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_SetHealthy(t *testing.T) {
	h := NewTracker()

	h.SetHealthy("searcher", "all good")

	status := h.Status("searcher")
	require.NotNil(t, status)
	assert.True(t, status.Healthy)
	assert.Equal(t, "all good", status.Message)
	assert.Nil(t, status.LastError)
	assert.False(t, status.LastSuccess.IsZero())
}

func TestTracker_SetUnhealthy(t *testing.T) {
	h := NewTracker()
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	h.now = func() time.Time { return fixed }

	h.SetHealthy("replier", "ok")
	h.SetUnhealthy("replier", errors.New("token expired"))

	status := h.Status("replier")
	require.NotNil(t, status)
	assert.False(t, status.Healthy)
	assert.Equal(t, "token expired", status.Message)
	assert.Equal(t, fixed, status.LastCheck)
	assert.Equal(t, fixed, status.LastSuccess, "last success is kept")
}

func TestTracker_StatusNotFound(t *testing.T) {
	assert.Nil(t, NewTracker().Status("nonexistent"))
}

func TestTracker_StatusIsCopy(t *testing.T) {
	h := NewTracker()
	h.SetHealthy("a", "ok")

	s := h.Status("a")
	s.Healthy = false

	assert.True(t, h.Status("a").Healthy)
}

func TestTracker_Check(t *testing.T) {
	h := NewTracker()

	err := h.Check(context.Background(), "ok", func(context.Context) error { return nil })
	require.NoError(t, err)

	boom := errors.New("boom")
	err = h.Check(context.Background(), "broken", func(context.Context) error { return boom })
	require.ErrorIs(t, err, boom)

	assert.True(t, h.Status("ok").Healthy)
	assert.False(t, h.Status("broken").Healthy)
}

func TestTracker_All(t *testing.T) {
	h := NewTracker()
	h.SetHealthy("shortener", "ok")
	h.SetUnhealthy("classifier", errors.New("down"))
	h.SetHealthy("replier", "ok")

	all := h.All()
	require.Len(t, all, 3)
	assert.Equal(t, "classifier", all[0].Name)
	assert.Equal(t, "replier", all[1].Name)
	assert.Equal(t, "shortener", all[2].Name)
}

func TestTracker_Healthy(t *testing.T) {
	t.Run("all healthy", func(t *testing.T) {
		h := NewTracker()
		h.SetHealthy("comp1", "ok")
		h.SetHealthy("comp2", "ok")

		assert.True(t, h.Healthy())
	})

	t.Run("one unhealthy", func(t *testing.T) {
		h := NewTracker()
		h.SetHealthy("comp1", "ok")
		h.SetUnhealthy("comp2", errors.New("error"))

		assert.False(t, h.Healthy())
	})

	t.Run("no components", func(t *testing.T) {
		assert.True(t, NewTracker().Healthy())
	})
}

func TestTracker_Concurrent(t *testing.T) {
	h := NewTracker()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				h.SetHealthy("c", "ok")
			} else {
				h.SetUnhealthy("c", errors.New("bad"))
			}
			_ = h.All()
		}(i)
	}
	wg.Wait()

	assert.NotNil(t, h.Status("c"))
}
