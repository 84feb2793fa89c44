package interp

import (
	"fmt"

	"github.com/Priyanshu23/filterc/ast"
	"github.com/Priyanshu23/filterc/format"
)

// State is the interpreter's run state (spec.md §5).
type State int

const (
	StateEval State = iota
	StateDone
	StateFailed
	StateSuspended
)

func (s State) String() string {
	switch s {
	case StateEval:
		return "eval"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	case StateSuspended:
		return "suspended"
	default:
		return "unknown"
	}
}

// frame is one level of the interpreter's explicit evaluation stack. It
// replaces the Go call stack so a suspended interpreter can be serialized
// and resumed without a goroutine parked mid-call (spec.md §5).
type frame struct {
	node  *ast.Node
	scope *ast.SymbolTable

	pc          int  // next child index to dispatch, for sequence-shaped kinds
	started     bool // predicate/count already computed (If, Loop, Switch, Peek)
	bodyStarted bool // a body child has been pushed (Switch/Case/Map)
	val         uint64

	savedWriter Writer // Peek's real writer, while NullWriter is installed
}

// Interpreter evaluates one AST node tree against a Reader and a Writer,
// transcoding values from the reader's side to the writer's side (spec.md
// §4.4/§4.5). It is stackless in the sense that matters for suspension: all
// in-progress state lives in the frame slice, not in Go's call stack.
type Interpreter struct {
	r Reader
	w Writer

	stack []*frame
	state State
	err   error
}

// NewInterpreter returns an interpreter ready to evaluate root in scope,
// reading from r and writing to w.
func NewInterpreter(root ast.Ref, scope *ast.SymbolTable, r Reader, w Writer) *Interpreter {
	ip := &Interpreter{r: r, w: w}
	ip.stack = []*frame{newFrame(root, scope)}
	return ip
}

func newFrame(ref ast.Ref, scope *ast.SymbolTable) *frame {
	return &frame{node: scope.Node(ref), scope: scope}
}

// State returns the interpreter's current run state.
func (ip *Interpreter) State() State { return ip.state }

// Err returns the failure, once State() == StateFailed.
func (ip *Interpreter) Err() error { return ip.err }

// Start begins evaluation; equivalent to the first Resume call.
func (ip *Interpreter) Start() State { return ip.Resume() }

// Resume runs until the frame stack empties (StateDone), a step fails
// (StateFailed), or the reader can't guarantee kResumeHeadroom further bytes
// of forward progress (StateSuspended). Calling Resume again after a
// suspension picks up exactly where evaluation left off.
func (ip *Interpreter) Resume() State {
	if ip.state == StateDone || ip.state == StateFailed {
		return ip.state
	}
	for len(ip.stack) > 0 {
		if !ip.r.CanProcessMoreInputNow() {
			ip.state = StateSuspended
			return ip.state
		}
		f := ip.stack[len(ip.stack)-1]
		done, err := ip.step(f)
		if err != nil {
			ip.state = StateFailed
			ip.err = err
			return ip.state
		}
		if done {
			ip.stack = ip.stack[:len(ip.stack)-1]
		}
	}
	ip.state = StateDone
	return ip.state
}

func (ip *Interpreter) push(ref ast.Ref, scope *ast.SymbolTable) {
	ip.stack = append(ip.stack, newFrame(ref, scope))
}

// formatForKind maps a format-terminal Kind to its wire format.
func formatForKind(k ast.Kind) (format.Format, bool) {
	switch k {
	case ast.KindUint8:
		return format.Uint8, true
	case ast.KindUint32:
		return format.Uint32, true
	case ast.KindUint64:
		return format.Uint64, true
	case ast.KindVarint32:
		return format.Varint32, true
	case ast.KindVarint64:
		return format.Varint64, true
	case ast.KindVaruint32:
		return format.Varuint32, true
	case ast.KindVaruint64:
		return format.Varuint64, true
	default:
		return 0, false
	}
}

// predefinedActionName returns the action symbol a standalone predefined
// block-action node represents, for the rare case one appears directly in a
// tree rather than behind a KindCallback/KindSymbol indirection.
func predefinedActionName(k ast.Kind) (string, bool) {
	switch k {
	case ast.KindBlockEnter:
		return "block.enter", true
	case ast.KindBlockExit:
		return "block.exit", true
	case ast.KindBlockEnterReadOnly:
		return "block.enter.readonly", true
	case ast.KindBlockEnterWriteOnly:
		return "block.enter.writeonly", true
	case ast.KindBlockExitReadOnly:
		return "block.exit.readonly", true
	case ast.KindBlockExitWriteOnly:
		return "block.exit.writeonly", true
	default:
		return "", false
	}
}

// evalValue evaluates ref as a value-producing expression: a literal, a
// format-terminal read, or a symbol/eval indirection to one of those. It
// consumes from the reader but never writes (see KindIf/KindLoop/KindSwitch
// predicates, which read a discriminant without echoing it to the output
// stream). This is a small recursive helper rather than a stack frame
// because value expressions are shallow by construction; the explicit frame
// stack exists for the (potentially very long) statement sequences that
// actually stream bytes.
func (ip *Interpreter) evalValue(ref ast.Ref, scope *ast.SymbolTable) (uint64, error) {
	n := scope.Node(ref)
	switch n.Kind {
	case ast.KindInteger:
		return n.Value, nil
	case ast.KindNot:
		v, err := ip.evalValue(n.Children[0], scope)
		if err != nil {
			return 0, err
		}
		if v == 0 {
			return 1, nil
		}
		return 0, nil
	case ast.KindSymbol:
		def, err := scope.Lookup(n.Name)
		if err != nil {
			return 0, wrapLowerErr(err)
		}
		return ip.evalValue(def, scope)
	case ast.KindEval:
		nameNode := scope.Node(n.Children[0])
		def, err := scope.Lookup(nameNode.Name)
		if err != nil {
			return 0, wrapLowerErr(err)
		}
		return ip.evalValue(def, scope)
	case ast.KindEvalDefault:
		nameNode := scope.Node(n.Children[0])
		def, err := scope.Lookup(nameNode.Name)
		if err != nil {
			return ip.evalValue(n.Children[1], scope)
		}
		return ip.evalValue(def, scope)
	default:
		if f, ok := formatForKind(n.Kind); ok {
			return ip.r.ReadValue(f)
		}
		return 0, fmt.Errorf("interp: kind %d cannot be evaluated as a value: %w", n.Kind, ErrInternal)
	}
}

// step advances f by one unit of work and reports whether f is fully
// evaluated (should be popped).
func (ip *Interpreter) step(f *frame) (bool, error) {
	n := f.node

	if vf, ok := formatForKind(n.Kind); ok {
		v, err := ip.r.ReadValue(vf)
		if err != nil {
			return false, err
		}
		if err := ip.w.WriteValue(v, vf); err != nil {
			return false, err
		}
		return true, nil
	}

	if name, ok := predefinedActionName(n.Kind); ok {
		if err := ip.r.ReadAction(name); err != nil {
			return false, err
		}
		if err := ip.w.WriteAction(name); err != nil {
			return false, err
		}
		return true, nil
	}

	switch n.Kind {
	case ast.KindVoid, ast.KindAlignNode, ast.KindHeader,
		ast.KindDefine, ast.KindUndefine, ast.KindLiteralDef, ast.KindLiteralUse,
		ast.KindLocals, ast.KindParam, ast.KindParamArgs, ast.KindAlgorithmFlag:
		// Byte/int cursors are already aligned at every format boundary in
		// this implementation, and symbol bindings are resolved statically
		// by whatever builds the tree, so these are no-ops at eval time.
		return true, nil

	case ast.KindSequence, ast.KindAlgorithm:
		scope := f.scope
		if n.Kind == ast.KindAlgorithm && n.Enclosing != nil {
			scope = n.Enclosing
		}
		if f.pc < len(n.Children) {
			child := n.Children[f.pc]
			f.pc++
			ip.push(child, scope)
			return false, nil
		}
		return true, nil

	case ast.KindFile:
		if ip.r.AtInputEob() {
			return true, nil
		}
		v, err := ip.r.ReadValue(format.Uint8)
		if err != nil {
			return false, err
		}
		if err := ip.w.WriteValue(v, format.Uint8); err != nil {
			return false, err
		}
		return false, nil

	case ast.KindBlock:
		if f.pc == 0 {
			if err := ip.r.ReadAction("block.enter"); err != nil {
				return false, err
			}
			if err := ip.w.WriteAction("block.enter"); err != nil {
				return false, err
			}
			f.pc = 1
			ip.push(n.Children[0], f.scope)
			return false, nil
		}
		if err := ip.r.ReadAction("block.exit"); err != nil {
			return false, err
		}
		if err := ip.w.WriteAction("block.exit"); err != nil {
			return false, err
		}
		return true, nil

	case ast.KindCallback:
		sym := f.scope.Node(n.Children[0])
		if err := ip.r.ReadAction(sym.Name); err != nil {
			return false, err
		}
		if err := ip.w.WriteAction(sym.Name); err != nil {
			return false, err
		}
		return true, nil

	case ast.KindInteger:
		if err := ip.w.WriteValue(n.Value, n.ValueFormat); err != nil {
			return false, err
		}
		return true, nil

	case ast.KindSymbol:
		if !f.started {
			def, err := f.scope.Lookup(n.Name)
			if err != nil {
				return false, wrapLowerErr(err)
			}
			f.started = true
			ip.push(def, f.scope)
			return false, nil
		}
		return true, nil

	case ast.KindEval:
		if !f.started {
			nameNode := f.scope.Node(n.Children[0])
			def, err := f.scope.Lookup(nameNode.Name)
			if err != nil {
				return false, wrapLowerErr(err)
			}
			f.started = true
			ip.push(def, f.scope)
			return false, nil
		}
		return true, nil

	case ast.KindEvalDefault:
		if !f.started {
			nameNode := f.scope.Node(n.Children[0])
			target := n.Children[1]
			if def, err := f.scope.Lookup(nameNode.Name); err == nil {
				target = def
			}
			f.started = true
			ip.push(target, f.scope)
			return false, nil
		}
		return true, nil

	case ast.KindWrite:
		v, err := ip.evalValue(n.Children[0], f.scope)
		if err != nil {
			return false, err
		}
		wf, ok := formatForKind(f.scope.Node(n.Children[1]).Kind)
		if !ok {
			return false, fmt.Errorf("interp: write target is not a format terminal: %w", ErrInternal)
		}
		if err := ip.w.WriteValue(v, wf); err != nil {
			return false, err
		}
		return true, nil

	case ast.KindIf:
		if !f.started {
			v, err := ip.evalValue(n.Children[0], f.scope)
			if err != nil {
				return false, err
			}
			f.started = true
			if v != 0 {
				ip.push(n.Children[1], f.scope)
			}
			return false, nil
		}
		return true, nil

	case ast.KindIfElse:
		if !f.started {
			v, err := ip.evalValue(n.Children[0], f.scope)
			if err != nil {
				return false, err
			}
			f.started = true
			if v != 0 {
				ip.push(n.Children[1], f.scope)
			} else {
				ip.push(n.Children[2], f.scope)
			}
			return false, nil
		}
		return true, nil

	case ast.KindLoop:
		if !f.started {
			v, err := ip.evalValue(n.Children[0], f.scope)
			if err != nil {
				return false, err
			}
			f.started = true
			f.val = v
			return false, nil
		}
		if f.val > 0 {
			f.val--
			ip.push(n.Children[1], f.scope)
			return false, nil
		}
		return true, nil

	case ast.KindLoopUnbounded:
		if ip.r.AtInputEob() {
			return true, nil
		}
		ip.push(n.Children[0], f.scope)
		return false, nil

	case ast.KindSwitch, ast.KindMap:
		if !f.started {
			v, err := ip.evalValue(n.Children[0], f.scope)
			if err != nil {
				return false, err
			}
			f.started = true
			f.val = v
			f.pc = 1
			return false, nil
		}
		if f.bodyStarted {
			return true, nil
		}
		for ; f.pc < len(n.Children); f.pc++ {
			c := f.scope.Node(n.Children[f.pc])
			if c.Kind == ast.KindCase {
				lit := f.scope.Node(c.Children[0])
				if lit.Value != f.val {
					continue
				}
				f.bodyStarted = true
				f.pc++
				ip.push(c.Children[1], f.scope)
				return false, nil
			}
			// A non-Case child reached in scan order is the default arm.
			f.bodyStarted = true
			f.pc++
			ip.push(n.Children[f.pc-1], f.scope)
			return false, nil
		}
		f.bodyStarted = true
		return true, nil

	case ast.KindPeek:
		if !f.started {
			if err := ip.r.PeekPush(); err != nil {
				return false, err
			}
			f.savedWriter = ip.w
			ip.w = NullWriter{}
			f.started = true
			ip.push(n.Children[0], f.scope)
			return false, nil
		}
		ip.w = f.savedWriter
		if err := ip.r.PeekPop(); err != nil {
			return false, err
		}
		return true, nil

	default:
		return false, fmt.Errorf("interp: kind %d not evaluable as a statement: %w", n.Kind, ErrInternal)
	}
}
