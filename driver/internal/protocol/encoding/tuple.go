// SPDX-FileCopyrightText: 2024-2026 the go-gel authors
//
// SPDX-License-Identifier: Apache-2.0

package encoding

import "fmt"

/*
Objects, tuples and named tuples share one element framing: a 4 byte element
count followed by one entry per element, each a 4 byte reserved word, a 4 byte
length (AbsentLen marking an absent element) and the payload bytes. Array
elements omit the reserved word.
*/

// TupleReader is a cursor over the elements of one encoded tuple-like value.
type TupleReader struct {
	d        *Decoder
	declared int
	consumed int
	reserved bool
}

// OpenObject opens a reader over an encoded object, validating the declared
// element count against expected.
func OpenObject(buf []byte, expected int) (*TupleReader, error) {
	return openTupleLike(buf, expected)
}

// OpenTuple opens a reader over an encoded tuple or named tuple, validating
// the declared element count against expected.
func OpenTuple(buf []byte, expected int) (*TupleReader, error) {
	return openTupleLike(buf, expected)
}

func openTupleLike(buf []byte, expected int) (*TupleReader, error) {
	d := NewDecoder(buf)
	declared := int(d.Int32())
	if err := d.Error(); err != nil {
		return nil, err
	}
	switch {
	case declared < expected:
		return nil, fmt.Errorf("%d elements declared, %d expected: %w", declared, expected, ErrUnderflow)
	case declared > expected:
		return nil, fmt.Errorf("%d elements declared, %d expected: %w", declared, expected, ErrTrailingData)
	}
	return &TupleReader{d: d, declared: declared, reserved: true}, nil
}

// OpenElements opens a reader over count length-only framed elements on basis
// of an already positioned decoder (array and set bodies).
func OpenElements(d *Decoder, count int) *TupleReader {
	return &TupleReader{d: d, declared: count}
}

// next reads the framing of the next element and returns its payload.
func (r *TupleReader) next() ([]byte, bool, error) {
	if r.consumed >= r.declared {
		return nil, false, ErrUnexpectedEnd
	}
	r.consumed++
	if r.reserved {
		r.d.Skip(4)
	}
	length := r.d.Uint32()
	if err := r.d.Error(); err != nil {
		return nil, false, err
	}
	if length == AbsentLen {
		return nil, false, nil
	}
	p := r.d.Bytes(int(length))
	if err := r.d.Error(); err != nil {
		return nil, false, err
	}
	return p, true, nil
}

// Read returns the payload of the next element. Absent elements are reported
// with present == false. The payload aliases the decode buffer.
func (r *TupleReader) Read() (p []byte, present bool, err error) {
	return r.next()
}

// Skip discards the next element without materializing it.
func (r *TupleReader) Skip() error {
	_, _, err := r.next()
	return err
}

// Finish validates that exactly the declared number of elements was consumed
// and no bytes are left over. It is checked once at decode completion, not per
// element.
func (r *TupleReader) Finish() error {
	if r.consumed < r.declared {
		return fmt.Errorf("%d of %d elements consumed: %w", r.consumed, r.declared, ErrUnderflow)
	}
	if n := r.d.Remaining(); n != 0 {
		return fmt.Errorf("%d bytes left over: %w", n, ErrTrailingData)
	}
	return nil
}

// TupleWriter builds the element framing read by TupleReader.
type TupleWriter struct {
	reserved bool
	elements [][]byte
	absent   []bool
}

// NewObjectWriter creates a writer producing object framed elements.
func NewObjectWriter() *TupleWriter { return &TupleWriter{reserved: true} }

// NewTupleWriter creates a writer producing tuple framed elements.
func NewTupleWriter() *TupleWriter { return &TupleWriter{reserved: true} }

// NewElementWriter creates a writer producing length-only framed elements
// without a leading count (array and set bodies).
func NewElementWriter() *TupleWriter { return &TupleWriter{} }

// Element appends one element payload.
func (w *TupleWriter) Element(p []byte) {
	w.elements = append(w.elements, p)
	w.absent = append(w.absent, false)
}

// Absent appends one absent element.
func (w *TupleWriter) Absent() {
	w.elements = append(w.elements, nil)
	w.absent = append(w.absent, true)
}

// Len returns the number of appended elements.
func (w *TupleWriter) Len() int { return len(w.elements) }

// Data returns the encoded element sequence.
func (w *TupleWriter) Data() []byte {
	enc := NewEncoder()
	if w.reserved {
		enc.Int32(int32(len(w.elements))) //nolint: gosec
	}
	for i, p := range w.elements {
		if w.reserved {
			enc.Int32(0)
		}
		if w.absent[i] {
			enc.Uint32(AbsentLen)
			continue
		}
		enc.Uint32(uint32(len(p))) //nolint: gosec
		enc.Bytes(p)
	}
	return enc.Data()
}
