package ast

import (
	"errors"
	"testing"

	"github.com/Priyanshu23/filterc/format"
)

func TestPredefinedSymbolsResolve(t *testing.T) {
	st := NewSymbolTable(nil)
	for _, name := range PredefinedNames {
		ref, err := st.Lookup(name)
		if err != nil {
			t.Fatalf("lookup %q: %v", name, err)
		}
		if ref == NoRef {
			t.Fatalf("lookup %q returned NoRef", name)
		}
	}
}

func TestScopeChainResolution(t *testing.T) {
	root := NewSymbolTable(nil)
	intNode := root.NewInteger(7, format.Uint8)
	root.Define("seven", intNode)

	child := NewSymbolTable(root)
	ref, err := child.Lookup("seven")
	if err != nil {
		t.Fatalf("expected to resolve through enclosing scope: %v", err)
	}
	if child.Node(ref).Value != 7 {
		t.Fatalf("resolved wrong node")
	}
}

func TestUnboundSymbolFails(t *testing.T) {
	st := NewSymbolTable(nil)
	_, err := st.Lookup("does.not.exist")
	if !errors.Is(err, ErrUnboundSymbol) {
		t.Fatalf("expected ErrUnboundSymbol, got %v", err)
	}
}

func TestUndefineIsLocalOnly(t *testing.T) {
	root := NewSymbolTable(nil)
	ref := root.NewInteger(1, format.Uint8)
	root.Define("x", ref)

	child := NewSymbolTable(root)
	child.Define("x", root.NewInteger(2, format.Uint8))
	child.Undefine("x")

	// falls through to root's binding once undefined locally
	got, err := child.Lookup("x")
	if err != nil {
		t.Fatalf("lookup after undefine: %v", err)
	}
	if child.Node(got).Value != 1 {
		t.Fatalf("expected to fall back to enclosing binding of 1, got %d", child.Node(got).Value)
	}
}

func TestAlgorithmFileDetection(t *testing.T) {
	st := NewSymbolTable(nil)
	hdrA := st.New(KindHeader)
	hdrB := st.New(KindHeader)

	scope := NewAlgorithmScope(st)
	same := st.NewAlgorithm("id", hdrA, hdrA, hdrB, scope)
	diff := st.NewAlgorithm("transform", hdrA, hdrB, hdrB, scope)

	eq := func(a, b Ref) bool { return a == b }
	if !st.IsAlgorithmFile(same, eq) {
		t.Fatal("expected algorithm with matching source/read header to be a file algorithm")
	}
	if st.IsAlgorithmFile(diff, eq) {
		t.Fatal("expected algorithm with differing source/read header to be data-producing")
	}
}
