package xsafe

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallReturnsUnderlyingError(t *testing.T) {
	wantErr := errors.New("boom")
	err := Call(func() error { return wantErr })
	assert.Equal(t, wantErr, err)
}

func TestCallRecoversPanic(t *testing.T) {
	err := Call(func() error {
		panic("kaboom")
	})
	require.Error(t, err)
	var panicErr *PanicError
	require.True(t, errors.As(err, &panicErr), "err = %T, want *PanicError", err)
	assert.Equal(t, "kaboom", panicErr.Info)
}

func TestGoRoutesPanicToHandler(t *testing.T) {
	done := make(chan error, 1)
	Go(func() {
		panic("launched panic")
	}, func(err error) {
		done <- err
	})

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for panic handler")
	}
}
