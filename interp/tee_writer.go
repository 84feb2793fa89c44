package interp

import "github.com/Priyanshu23/filterc/format"

// TeeWriter fans a single write side out to multiple Writers, so one
// interpreter pass can simultaneously produce (for example) the compressed
// byte stream and a parallel integer-stream trace of the same algorithm run
// (spec.md §9.1, supplementing the distilled spec's single-writer model).
type TeeWriter struct {
	writers []Writer
}

// NewTeeWriter returns a Writer that forwards every call to each of ws in
// order, stopping at the first error.
func NewTeeWriter(ws ...Writer) *TeeWriter { return &TeeWriter{writers: ws} }

func (t *TeeWriter) WriteValue(v uint64, f format.Format) error {
	for _, w := range t.writers {
		if err := w.WriteValue(v, f); err != nil {
			return err
		}
	}
	return nil
}

func (t *TeeWriter) WriteAction(sym string) error {
	for _, w := range t.writers {
		if err := w.WriteAction(sym); err != nil {
			return err
		}
	}
	return nil
}

func (t *TeeWriter) FreezeEOF() error {
	for _, w := range t.writers {
		if err := w.FreezeEOF(); err != nil {
			return err
		}
	}
	return nil
}

func (t *TeeWriter) SetMinimizeBlocks(v bool) {
	for _, w := range t.writers {
		w.SetMinimizeBlocks(v)
	}
}
