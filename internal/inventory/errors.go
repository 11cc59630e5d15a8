package inventory

import (
	"errors"

	"github.com/samber/oops"
)

// Error codes attached to store errors.
const (
	CodeInvalidIndex  = "INVALID_INDEX"
	CodeInvalidAmount = "INVALID_AMOUNT"
	CodeInvalidConfig = "INVALID_CONFIG"
)

var (
	// ErrInvalidIndex is wrapped when a slot index is out of range.
	ErrInvalidIndex = errors.New("invalid slot index")
	// ErrInvalidAmount is wrapped when a quantity argument is not positive.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidConfig is wrapped by New for impossible capacity/hand sizes.
	ErrInvalidConfig = errors.New("invalid inventory config")
)

func errInvalidIndex(op string, index, limit int) error {
	return oops.
		In("inventory").
		Code(CodeInvalidIndex).
		With("op", op, "index", index, "limit", limit).
		Wrapf(ErrInvalidIndex, "%s: index %d outside [0, %d)", op, index, limit)
}
