package paystation

import (
	"fmt"

	"github.com/juju/errors"
)

var ErrInvalidCoin = errors.New("invalid coin")

// InvalidCoinError is returned by AddPayment for value outside accepted set.
type InvalidCoinError struct {
	errors.Err
	Value int
}

func newInvalidCoinError(value int) error {
	e := &InvalidCoinError{
		Err:   errors.NewErr("invalid coin value=%d", value),
		Value: value,
	}
	e.SetLocation(1)
	return e
}

func (e *InvalidCoinError) Error() string { return fmt.Sprintf("invalid coin value=%d", e.Value) }

// Cause makes errors.Cause(err) == ErrInvalidCoin.
func (e *InvalidCoinError) Cause() error { return ErrInvalidCoin }

func (e *InvalidCoinError) Is(target error) bool { return target == ErrInvalidCoin }

func IsInvalidCoin(err error) bool {
	return errors.Cause(err) == ErrInvalidCoin
}
