// Package ast implements the filter abstract syntax tree: a closed
// enumeration of node kinds realized as a sum type with kind-indexed child
// lists, arena-allocated and owned by a SymbolTable.
package ast

// Kind is the closed set of filter AST node kinds. Polymorphism is
// expressed by this tag plus arity, not by RTTI (spec.md §9).
type Kind int

const (
	// Nullary.
	KindVoid Kind = iota
	KindAlignNode
	KindBinaryBegin
	KindBinaryBit
	KindBinaryEnd
	KindBlockEnterReadOnly
	KindBlockEnterWriteOnly
	KindBlockExitReadOnly
	KindBlockExitWriteOnly
	KindBlockEnter
	KindBlockExit
	KindFile

	// Unary.
	KindPeek
	KindLoop
	KindLoopUnbounded
	KindNot
	KindUndefine

	// Binary.
	KindIf
	KindWrite
	KindEval
	KindEvalDefault
	KindParam
	KindLocals

	// N-ary.
	KindSequence
	KindIfElse
	KindSwitch
	KindCase
	KindMap
	KindDefine
	KindLiteralDef
	KindLiteralUse
	KindAlgorithmFlag
	KindParamArgs

	// Leaves with payload.
	KindInteger
	KindSymbol
	KindHeader

	// Integer-format read/write terminals (IntegerFormatBase + format).
	KindUint8
	KindUint32
	KindUint64
	KindVarint32
	KindVarint64
	KindVaruint32
	KindVaruint64

	// Callback (action) node: references a symbol (block.enter, etc.).
	KindCallback

	// Byte-stream length-prefixed block (spec.md §4.4 "Block: reads a
	// length prefix... on the writer, reserves space... backpatches").
	KindBlock

	// Aggregate.
	KindAlgorithm

	// Marked "not implemented" by spec.md §9 Open Questions: present in
	// the enumeration so the AST shape matches the external parser's
	// contract, but Eval reports ErrInternal (kind-mismatch fatal) rather
	// than guessing at semantics.
	KindByteToByte
	KindFilter
	KindBlockEndNoArgs
)

// Arity classifies how many children a kind expects; used only for
// validation, not for dispatch (dispatch is by Kind directly).
type Arity int

const (
	ArityNullary Arity = iota
	ArityUnary
	ArityBinary
	ArityNary
	ArityLeaf
)

// ArityOf returns the expected arity class of k.
func ArityOf(k Kind) Arity {
	switch k {
	case KindVoid, KindAlignNode, KindBinaryBegin, KindBinaryBit, KindBinaryEnd,
		KindBlockEnterReadOnly, KindBlockEnterWriteOnly,
		KindBlockExitReadOnly, KindBlockExitWriteOnly,
		KindBlockEnter, KindBlockExit, KindFile,
		KindUint8, KindUint32, KindUint64,
		KindVarint32, KindVarint64, KindVaruint32, KindVaruint64,
		KindBlockEndNoArgs:
		return ArityNullary
	case KindPeek, KindLoop, KindLoopUnbounded, KindNot, KindUndefine, KindCallback, KindBlock:
		return ArityUnary
	case KindIf, KindWrite, KindEval, KindEvalDefault, KindParam, KindLocals:
		return ArityBinary
	case KindSequence, KindIfElse, KindSwitch, KindCase, KindMap, KindDefine,
		KindLiteralDef, KindLiteralUse, KindAlgorithmFlag, KindParamArgs,
		KindAlgorithm, KindByteToByte, KindFilter:
		return ArityNary
	case KindInteger, KindSymbol, KindHeader:
		return ArityLeaf
	default:
		return ArityNary
	}
}
