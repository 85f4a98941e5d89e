package taskpool_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.abhg.dev/gs/internal/taskpool"
)

func TestRun(t *testing.T) {
	p := taskpool.New(4)

	var sum atomic.Int64
	err := taskpool.Run(t.Context(), p, 100, func(_ context.Context, i int) error {
		sum.Add(int64(i))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4950), sum.Load())
}

func TestRun_JoinsErrors(t *testing.T) {
	p := taskpool.New(2)

	boom := errors.New("boom")
	err := taskpool.Run(t.Context(), p, 5, func(_ context.Context, i int) error {
		if i == 2 {
			return boom
		}
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestRun_Empty(t *testing.T) {
	p := taskpool.New(4)
	err := taskpool.Run(t.Context(), p, 0, func(context.Context, int) error {
		t.Fatal("should not be called")
		return nil
	})
	require.NoError(t, err)
}
