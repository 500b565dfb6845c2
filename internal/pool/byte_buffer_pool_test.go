package pool

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBuffer(t *testing.T) {
	t.Run("New buffer is empty with capacity", func(t *testing.T) {
		bb := NewByteBuffer(1024)

		require.NotNil(t, bb)
		require.Equal(t, 0, bb.Len())
		require.Equal(t, 1024, bb.Cap())
	})

	t.Run("AppendByte and Bytes", func(t *testing.T) {
		bb := NewByteBuffer(16)
		bb.AppendByte(0xAB)
		bb.AppendByte(0xCD)

		require.Equal(t, []byte{0xAB, 0xCD}, bb.Bytes())
		require.Equal(t, 2, bb.Len())
	})

	t.Run("Reset preserves capacity", func(t *testing.T) {
		bb := NewByteBuffer(16)
		_, err := bb.Write([]byte("block data"))
		require.NoError(t, err)

		capBefore := bb.Cap()
		bb.Reset()

		require.Equal(t, 0, bb.Len())
		require.Equal(t, capBefore, bb.Cap())
	})

	t.Run("Grow extends capacity", func(t *testing.T) {
		bb := NewByteBuffer(8)
		bb.Grow(1024)

		require.GreaterOrEqual(t, bb.Cap(), 1024)
	})

	t.Run("WriteTo drains the buffer", func(t *testing.T) {
		bb := NewByteBuffer(16)
		_, err := bb.Write([]byte{1, 2, 3})
		require.NoError(t, err)

		var sink bytes.Buffer
		n, err := bb.WriteTo(&sink)
		require.NoError(t, err)
		require.Equal(t, int64(3), n)
		require.Equal(t, []byte{1, 2, 3}, sink.Bytes())
	})
}

func TestByteBufferPool(t *testing.T) {
	t.Run("Get returns reset buffer", func(t *testing.T) {
		p := NewByteBufferPool(64, 1024)

		bb := p.Get()
		bb.AppendByte(0xFF)
		p.Put(bb)

		bb = p.Get()
		require.Equal(t, 0, bb.Len())
	})

	t.Run("Oversized buffers are dropped", func(t *testing.T) {
		p := NewByteBufferPool(64, 128)

		bb := p.Get()
		bb.Grow(4096)
		p.Put(bb) // exceeds the threshold, must not be retained

		next := p.Get()
		require.LessOrEqual(t, next.Cap(), 4096)
		require.Equal(t, 0, next.Len())
	})
}

func TestBlockBufferHelpers(t *testing.T) {
	bb := GetBlockBuffer()
	require.NotNil(t, bb)
	require.Equal(t, 0, bb.Len())
	require.GreaterOrEqual(t, bb.Cap(), BlockBufferDefaultSize)

	bb.AppendByte(1)
	PutBlockBuffer(bb)
}
