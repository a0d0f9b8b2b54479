package handlers

import (
	"testing"
	"time"

	"solar-sim/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultStore(t *testing.T) {
	var counts []int
	s := NewResultStore(time.Minute, func(n int) { counts = append(counts, n) })
	defer s.Close()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	run := &service.Run{Source: "inline"}
	id := s.Put(run, "GBP")
	got, currency, ok := s.Get(id)
	require.True(t, ok)
	assert.Same(t, run, got)
	assert.Equal(t, "GBP", currency)

	_, _, ok = s.Get("not-a-uuid")
	assert.False(t, ok)

	now = now.Add(2 * time.Minute)
	_, _, ok = s.Get(id)
	assert.False(t, ok, "expired runs are hidden before the sweep")
	assert.Equal(t, 1, s.Len())

	s.evictExpired()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, []int{1, 0}, counts)

	s.Close()
	s.Close()
}

func TestResultStoreDefaultTTL(t *testing.T) {
	s := NewResultStore(0, nil)
	defer s.Close()
	assert.Equal(t, DefaultResultTTL, s.ttl)
}
