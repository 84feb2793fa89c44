package interp

import (
	"errors"
	"fmt"

	"github.com/Priyanshu23/filterc/ast"
	"github.com/Priyanshu23/filterc/cursor"
	"github.com/Priyanshu23/filterc/intstream"
	"github.com/Priyanshu23/filterc/pagequeue"
)

// The six error kinds of spec.md §7. Lower layers (pagequeue, cursor,
// intstream, ast) define their own sentinels for the same concepts;
// wrapLowerErr wraps whichever one actually fired into the matching
// sentinel below, so callers driving the interpreter can classify
// failures with errors.Is against a single set regardless of which layer
// raised them.
var (
	ErrUnexpectedEOF     = errors.New("interp: unexpected eof")
	ErrBadFormat         = errors.New("interp: bad format")
	ErrProtocolViolation = errors.New("interp: protocol violation")
	ErrUnboundSymbol     = errors.New("interp: unbound symbol")
	ErrFrozenWrite       = errors.New("interp: frozen write")
	ErrInternal          = errors.New("interp: internal invariant violated")
)

// wrapLowerErr classifies err against the lower layers' own sentinels and
// wraps it with the matching interp sentinel above, so both
// errors.Is(err, interp.ErrX) and errors.Is(err, <lower-package>.ErrX)
// succeed on the same returned error. Errors interp already raised
// directly (already wrapping one of the sentinels above) and anything
// unrecognized pass through unchanged.
func wrapLowerErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pagequeue.ErrUnexpectedEOF), errors.Is(err, intstream.ErrUnexpectedEOF):
		return fmt.Errorf("%w: %w", ErrUnexpectedEOF, err)
	case errors.Is(err, pagequeue.ErrFrozenWrite):
		return fmt.Errorf("%w: %w", ErrFrozenWrite, err)
	case errors.Is(err, cursor.ErrProtocolViolation), errors.Is(err, intstream.ErrProtocolViolation):
		return fmt.Errorf("%w: %w", ErrProtocolViolation, err)
	case errors.Is(err, ast.ErrUnboundSymbol):
		return fmt.Errorf("%w: %w", ErrUnboundSymbol, err)
	default:
		return err
	}
}
