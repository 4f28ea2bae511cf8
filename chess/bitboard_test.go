package chess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSquare(t *testing.T, s string) Square {
	t.Helper()
	sq, err := ParseSquare(s)
	require.NoError(t, err)
	return sq
}

func TestBitboardSetGetClear(t *testing.T) {
	b := NewBitboard()
	e4 := mustSquare(t, "e4")
	a1 := mustSquare(t, "a1")

	assert.True(t, b.None())
	assert.False(t, b.Get(e4))

	assert.False(t, b.Set(e4), "first set reports prior value false")
	assert.True(t, b.Get(e4))
	assert.True(t, b.Set(e4), "second set reports prior value true")
	assert.False(t, b.Get(a1))
	assert.Equal(t, 1, b.Count())

	assert.True(t, b.Clear(e4))
	assert.False(t, b.Get(e4))
	assert.False(t, b.Clear(e4))
	assert.True(t, b.None())
}

func TestBitboardPut(t *testing.T) {
	b := NewBitboard()
	c7 := mustSquare(t, "c7")

	assert.False(t, b.Put(c7, true))
	assert.True(t, b.Get(c7))
	assert.True(t, b.Put(c7, false))
	assert.False(t, b.Get(c7))
	assert.False(t, b.Put(c7, false))
}

func TestBitboardCount(t *testing.T) {
	b := NewBitboard()
	assert.Equal(t, 0, b.Count())
	assert.False(t, b.Any())

	for _, s := range []string{"a1", "h1", "a8", "h8", "e4"} {
		b.Set(mustSquare(t, s))
	}
	assert.Equal(t, 5, b.Count())
	assert.True(t, b.Any())
	assert.False(t, b.None())

	full := BitboardFromBits(^uint64(0))
	assert.Equal(t, 64, full.Count())
}

func TestBitboardFromSquare(t *testing.T) {
	for i := uint8(0); i < 64; i++ {
		sq, err := SquareFromIndex(i)
		require.NoError(t, err)
		b := BitboardFromSquare(sq)
		assert.Equal(t, 1, b.Count())
		assert.True(t, b.Get(sq))
		assert.Equal(t, uint64(1)<<i, b.Bits())
	}
}

func TestBitboardSquare(t *testing.T) {
	e4 := mustSquare(t, "e4")
	b := BitboardFromSquare(e4)
	sq, err := b.Square()
	require.NoError(t, err)
	assert.Equal(t, e4, sq)

	_, err = NewBitboard().Square()
	assert.ErrorIs(t, err, ErrNotOneSquare)

	b.Set(mustSquare(t, "a1"))
	_, err = b.Square()
	assert.ErrorIs(t, err, ErrNotOneSquare)
}

func TestBitboardString(t *testing.T) {
	b := BitboardFromSquare(mustSquare(t, "a1"))
	res := b.String()
	require.GreaterOrEqual(t, len(res), 16)
	assert.Equal(t, "1 0 0 0 0 0 0 0\n", res[:16])
	assert.Equal(t, 8*16, len(res))
}
