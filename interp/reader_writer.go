// Package interp implements the filter interpreter: a stackless,
// single-threaded evaluator driving a Reader over input and a Writer over
// output, plus the concrete Reader/Writer implementations over byte
// streams and integer streams.
package interp

import "github.com/Priyanshu23/filterc/format"

// Reader is the interpreter's input-side contract (spec.md §4.5).
type Reader interface {
	ReadValue(f format.Format) (uint64, error)
	ReadAction(sym string) error
	PeekPush() error
	PeekPop() error
	AtInputEob() bool
	CanProcessMoreInputNow() bool
	StillMoreInputToProcessNow() bool
}

// Writer is the interpreter's output-side contract (spec.md §4.5).
type Writer interface {
	WriteValue(v uint64, f format.Format) error
	WriteAction(sym string) error
	FreezeEOF() error
	SetMinimizeBlocks(bool)
}

// kResumeHeadroom is the minimum guaranteed bytes of input the interpreter
// requires before Resume() may keep running without checking back in with
// the caller, per spec.md §5.
const kResumeHeadroom = 100

// NullWriter discards every call; used by Peek to suppress writes while a
// predicate is evaluated for its read side-effects only (spec.md §4.4:
// "write side is a no-op").
type NullWriter struct{}

func (NullWriter) WriteValue(uint64, format.Format) error { return nil }
func (NullWriter) WriteAction(string) error                { return nil }
func (NullWriter) FreezeEOF() error                        { return nil }
func (NullWriter) SetMinimizeBlocks(bool)                   {}
