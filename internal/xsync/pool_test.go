package xsync

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundedGroupRunsAllJobs(t *testing.T) {
	var count int64
	g := NewBoundedGroup(4)
	for i := 0; i < 50; i++ {
		g.Go(func() error {
			atomic.AddInt64(&count, 1)
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.EqualValues(t, 50, count)
}

func TestBoundedGroupReturnsFirstError(t *testing.T) {
	wantErr := errors.New("boom")
	g := NewBoundedGroup(2)
	g.Go(func() error { return wantErr })
	g.Go(func() error { return nil })
	assert.Equal(t, wantErr, g.Wait())
}

func TestBoundedGroupRecoversPanics(t *testing.T) {
	g := NewBoundedGroup(1)
	g.Go(func() error {
		panic("job panicked")
	})
	assert.Error(t, g.Wait(), "expected Wait() to surface the recovered panic as an error")
}

func TestNewBoundedGroupTreatsNonPositiveLimitAsOne(t *testing.T) {
	g := NewBoundedGroup(0)
	assert.Equal(t, 1, g.pool.Size())
	assert.NoError(t, g.Wait())
}
