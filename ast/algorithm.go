package ast

// NewAlgorithmScope creates a child SymbolTable for a nested Algorithm
// definition, chained to enclosing for name resolution (spec.md §4.3:
// "algorithms form a scope chain").
func NewAlgorithmScope(enclosing *SymbolTable) *SymbolTable {
	return NewSymbolTable(enclosing)
}

// NewAlgorithm allocates a KindAlgorithm node aggregating the three
// headers, a name, and the algorithm's own define/constant nodes.
func (t *SymbolTable) NewAlgorithm(name string, sourceHeader, readHeader, writeHeader Ref, scope *SymbolTable, defines ...Ref) Ref {
	ref := t.alloc(Node{
		Kind:         KindAlgorithm,
		Children:     defines,
		AlgoName:     name,
		SourceHeader: sourceHeader,
		ReadHeader:   readHeader,
		WriteHeader:  writeHeader,
		Enclosing:    scope,
	})
	return ref
}

// IsAlgorithmFile reports whether the algorithm at ref is a "file"
// algorithm (its source-header equals its read-header) rather than a
// data-producing algorithm, per spec.md §4.3. headerEqual compares the two
// header nodes' literal byte content.
func (t *SymbolTable) IsAlgorithmFile(ref Ref, headerEqual func(a, b Ref) bool) bool {
	n := t.Node(ref)
	if n.Kind != KindAlgorithm {
		return false
	}
	return headerEqual(n.SourceHeader, n.ReadHeader)
}
