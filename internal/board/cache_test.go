package board_test

import (
	"context"
	"errors"
	"testing"

	"github.com/solarepc/epc-api/internal/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryCache_SnapshotRestore(t *testing.T) {
	c := board.NewQueryCache()
	c.Set("k", []string{"a"})

	snap := c.Snapshot("k")
	c.Set("k", []string{"b"})
	c.Restore(snap)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, v)

	missing := c.Snapshot("absent")
	c.Set("absent", 1)
	c.Restore(missing)
	_, ok = c.Get("absent")
	assert.False(t, ok)
}

func TestQueryCache_InvalidateKeepsStaleValue(t *testing.T) {
	c := board.NewQueryCache()
	c.Set("k", 1)
	assert.False(t, c.IsStale("k"))

	c.Invalidate("k", "other")
	assert.True(t, c.IsStale("k"))
	assert.True(t, c.IsStale("other"))
	v, _ := c.Get("k")
	assert.Equal(t, 1, v)
}

func TestQueryCache_Refetch(t *testing.T) {
	c := board.NewQueryCache()
	calls := 0
	c.Register("ok", func(context.Context) (interface{}, error) {
		calls++
		return calls, nil
	})
	c.Register("bad", func(context.Context) (interface{}, error) {
		return nil, errors.New("boom")
	})
	c.Set("bad", "old")
	c.Invalidate("ok", "bad")

	err := c.Refetch(context.Background(), "ok", "bad", "unregistered")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, err.Error(), "unregistered")

	v, _ := c.Get("ok")
	assert.Equal(t, 1, v)
	assert.False(t, c.IsStale("ok"))

	v, _ = c.Get("bad")
	assert.Equal(t, "old", v)
	assert.True(t, c.IsStale("bad"))
}
