package bridge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"htif/protocol"
)

func TestBuffer_NeverExceedsCapacity(t *testing.T) {
	for _, capacity := range []int{5, 6, 13, 64, 1000} {
		tgt := newTarget()
		l := dial(t, tgt, 1)
		b := NewBuffer(l, capacity)
		ctx := context.Background()

		require.NoError(t, b.Append(ctx, protocol.SetAddress(0x80000000).Encode()))
		for i := uint32(0); i < 100; i++ {
			require.NoError(t, b.Append(ctx, protocol.WriteWord(i).Encode()))
			assert.LessOrEqual(t, b.Len(), capacity)
		}
		require.NoError(t, b.Flush(ctx, true))
		assert.Zero(t, b.Len())

		total := 0
		for _, n := range tgt.Writes {
			assert.LessOrEqual(t, n, capacity)
			total += n
		}
		assert.Equal(t, 5*101, total)
		assert.Len(t, tgt.Machine.Commands(), 101)
		assert.Equal(t, 1, tgt.Flushes)
	}
}

func TestBuffer_FlushesBeforeOverflow(t *testing.T) {
	tgt := newTarget()
	l := dial(t, tgt, 1)
	b := NewBuffer(l, 12)
	ctx := context.Background()

	require.NoError(t, b.Append(ctx, []byte("aaaaa")))
	require.NoError(t, b.Append(ctx, []byte("wwwww")))
	assert.Empty(t, tgt.Writes)

	// 10 + 5 > 12, so the first ten bytes go out before this one is queued:
	require.NoError(t, b.Append(ctx, []byte("ddddd")))
	assert.Equal(t, []int{10}, tgt.Writes)
	assert.Equal(t, 5, b.Len())

	require.NoError(t, b.Append(ctx, []byte("R")))
	assert.Equal(t, []int{10}, tgt.Writes)
	assert.Equal(t, 6, b.Len())
}

func TestBuffer_FlushWithoutForce(t *testing.T) {
	tgt := newTarget()
	l := dial(t, tgt, 1)
	b := NewBuffer(l, 2)
	ctx := context.Background()

	require.NoError(t, b.Append(ctx, []byte{'r'}))
	require.NoError(t, b.Flush(ctx, false))
	assert.Empty(t, tgt.Writes)

	require.NoError(t, b.Append(ctx, []byte{'r'}))
	require.NoError(t, b.Flush(ctx, false))
	assert.Equal(t, []int{2}, tgt.Writes)
	assert.Zero(t, tgt.Flushes)
}

func TestBuffer_ChunkTooLarge(t *testing.T) {
	l := dial(t, newTarget(), 1)
	b := NewBuffer(l, 4)
	assert.ErrorIs(t, b.Append(context.Background(), protocol.WriteWord(1).Encode()), ErrChunkTooLarge)
	assert.Equal(t, 4, b.Cap())
}

func TestBuffer_EmptyForcedFlush(t *testing.T) {
	tgt := newTarget()
	l := dial(t, tgt, 1)
	b := NewBuffer(l, 0)

	require.NoError(t, b.Flush(context.Background(), true))
	assert.Empty(t, tgt.Writes)
	assert.Equal(t, 1, tgt.Flushes)
	assert.Equal(t, DefaultBufferSize, b.Cap())
}
