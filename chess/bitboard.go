package chess

import (
	"errors"
	"math/bits"
	"strings"
)

var ErrNotOneSquare = errors.New("chess: bitboard does not contain exactly one square")

// Bitboard is a set of squares packed into 64 bits, indexed by Square.Index.
type Bitboard struct {
	bits uint64
}

func NewBitboard() Bitboard {
	return Bitboard{}
}

func BitboardFromBits(bits uint64) Bitboard {
	return Bitboard{bits: bits}
}

func BitboardFromSquare(sq Square) Bitboard {
	return BitboardFromBits(1 << sq.Index())
}

func (b Bitboard) Get(sq Square) bool {
	return b.bits&(1<<sq.Index()) != 0
}

// Set marks sq and reports whether it was already set.
func (b *Bitboard) Set(sq Square) bool {
	old := b.Get(sq)
	b.bits |= 1 << sq.Index()
	return old
}

// Clear unmarks sq and reports whether it was set.
func (b *Bitboard) Clear(sq Square) bool {
	old := b.Get(sq)
	b.bits &^= 1 << sq.Index()
	return old
}

// Put sets or clears sq, returning the prior value.
func (b *Bitboard) Put(sq Square, value bool) bool {
	if value {
		return b.Set(sq)
	}
	return b.Clear(sq)
}

func (b Bitboard) Count() int {
	return bits.OnesCount64(b.bits)
}

func (b Bitboard) Any() bool {
	return b.bits != 0
}

func (b Bitboard) None() bool {
	return b.bits == 0
}

func (b Bitboard) Bits() uint64 { return b.bits }

// Square returns the single square the board contains, failing unless
// exactly one bit is set.
func (b Bitboard) Square() (Square, error) {
	if b.Count() != 1 {
		return Square{}, ErrNotOneSquare
	}
	return SquareFromIndex(uint8(bits.TrailingZeros64(b.bits)))
}

// String renders an 8x8 grid of 0s and 1s, one rank per line, index order.
func (b Bitboard) String() string {
	var sb strings.Builder
	for i := 0; i < 64; i++ {
		if b.bits&(1<<i) != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
		if i%8 == 7 {
			sb.WriteByte('\n')
		} else {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}
