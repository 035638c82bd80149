package engine

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrOutOfBounds    = errors.New("coordinate out of bounds")
	ErrOccupied       = errors.New("cell is occupied")
	ErrEmptyCell      = errors.New("cell is empty")
	ErrBackupMismatch = errors.New("backup was taken for another cell")
)

// IllegalMoveError reports a rejected Place or Remove. The board is left
// untouched when it is returned.
type IllegalMoveError struct {
	Op  string
	X   int
	Y   int
	Err error
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("%s (%d,%d): %v", e.Op, e.X, e.Y, e.Err)
}

func (e *IllegalMoveError) Unwrap() error {
	return e.Err
}

// Cause lets errors.Cause reach the sentinel.
func (e *IllegalMoveError) Cause() error {
	return e.Err
}

func illegal(op string, x, y int, err error) error {
	return &IllegalMoveError{Op: op, X: x, Y: y, Err: err}
}
