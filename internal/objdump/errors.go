package objdump

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownFunction is wrapped by every *LookupError.
	ErrUnknownFunction = errors.New("unknown function")

	// ErrUnplacedRelocation is returned when a relocation is encoded before
	// the parser assigned it an origin function and offset.
	ErrUnplacedRelocation = errors.New("relocation has no origin")

	// ErrOrphanRelocation is returned by Load when a relocation site is
	// reached before any symbol header.
	ErrOrphanRelocation = errors.New("relocation site outside any function")

	// ErrDisplacementOverflow is returned when a displacement does not fit
	// in its relocation field.
	ErrDisplacementOverflow = errors.New("displacement does not fit relocation field")

	// ErrBadPlacement is returned by ParsePlacement for malformed requests.
	ErrBadPlacement = errors.New("malformed placement")
)

// LookupError reports a function name missing from a Repository.
type LookupError struct {
	Name string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%v: %q", ErrUnknownFunction, e.Name)
}

func (e *LookupError) Unwrap() error { return ErrUnknownFunction }
