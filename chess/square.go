// Package chess holds the board primitives of the sachy project: squares
// addressed by file and rank, and 64-bit occupancy bitboards.
package chess

import (
	"errors"
	"fmt"
)

var (
	ErrSquareBounds = errors.New("chess: square out of bounds [0..8)")
	ErrSquareIndex  = errors.New("chess: square index out of bounds [0..64)")
	ErrSquareString = errors.New("chess: square must be 2 characters, a1..h8")
)

// Square is a board coordinate. X is the file (a..h), Y the rank (1..8),
// both zero-based.
type Square struct {
	x uint8
	y uint8
}

func NewSquare(x, y uint8) (Square, error) {
	if x >= 8 || y >= 8 {
		return Square{}, ErrSquareBounds
	}
	return Square{x: x, y: y}, nil
}

// SquareFromIndex maps a 0..63 index back to a square, rank-major.
func SquareFromIndex(index uint8) (Square, error) {
	if index >= 64 {
		return Square{}, ErrSquareIndex
	}
	return Square{x: index % 8, y: index / 8}, nil
}

// ParseSquare reads algebraic notation, "a1" through "h8".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return Square{}, ErrSquareString
	}
	x := s[0] - 'a'
	y := s[1] - '1'
	sq, err := NewSquare(x, y)
	if err != nil {
		return Square{}, fmt.Errorf("%w: %q", ErrSquareString, s)
	}
	return sq, nil
}

// Index is the square's rank-major position, 0..63.
func (sq Square) Index() uint8 { return sq.y*8 + sq.x }

func (sq Square) X() uint8 { return sq.x }

func (sq Square) Y() uint8 { return sq.y }

// String renders algebraic notation.
func (sq Square) String() string {
	return string([]byte{sq.x + 'a', sq.y + '1'})
}
