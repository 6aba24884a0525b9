// SPDX-FileCopyrightText: 2024-2026 the go-gel authors
//
// SPDX-License-Identifier: Apache-2.0

// Package encoding implements the byte level decoding and encoding of the gel wire format.
package encoding

import (
	"encoding/binary"
	"errors"
	"math"

	textencoding "golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Structural wire format errors.
var (
	// ErrUnderflow is returned if a buffer holds fewer bytes or elements than declared.
	ErrUnderflow = errors.New("buffer underflow")
	// ErrTrailingData is returned if bytes are left over after the last declared element.
	ErrTrailingData = errors.New("trailing data after last element")
	// ErrUnexpectedEnd is returned on reading an element after the declared count is exhausted.
	ErrUnexpectedEnd = errors.New("unexpected end of elements")
)

// AbsentLen is the reserved element length denoting an absent (unset) element.
const AbsentLen = 0xFFFFFFFF

// Decoder decodes gel wire protocol datatypes on basis of a byte buffer.
// All multi byte values are transferred in network byte order (big endian).
type Decoder struct {
	b   []byte
	pos int
	/* err: fatal read error
	- not set by conversion errors
	- conversion errors are returned by the reader function itself
	*/
	err error
	tr  transform.Transformer
}

// NewDecoder creates a new Decoder instance based on a byte buffer.
func NewDecoder(b []byte) *Decoder {
	return &Decoder{b: b, tr: textencoding.UTF8Validator}
}

// Error returns the reader error.
func (d *Decoder) Error() error { return d.err }

// ResetError returns and resets the reader error.
func (d *Decoder) ResetError() error {
	err := d.err
	d.err = nil
	return err
}

// Pos returns the current buffer position.
func (d *Decoder) Pos() int { return d.pos }

// Remaining returns the number of bytes not yet consumed.
func (d *Decoder) Remaining() int { return len(d.b) - d.pos }

// read returns the next n bytes of the buffer + error handling.
func (d *Decoder) read(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || d.pos+n > len(d.b) {
		d.err = ErrUnderflow
		return nil
	}
	p := d.b[d.pos : d.pos+n]
	d.pos += n
	return p
}

// Skip skips cnt bytes from reading.
func (d *Decoder) Skip(cnt int) {
	d.read(cnt)
}

// Byte reads and returns a byte.
func (d *Decoder) Byte() byte {
	p := d.read(1)
	if p == nil {
		return 0
	}
	return p[0]
}

// Bytes reads and returns a byte slice of size n.
// The returned slice aliases the decode buffer and is only valid until the buffer is reused.
func (d *Decoder) Bytes(n int) []byte {
	return d.read(n)
}

// Bool reads and returns a boolean.
func (d *Decoder) Bool() bool {
	return d.Byte() != 0
}

// Int8 reads and returns an int8.
func (d *Decoder) Int8() int8 {
	return int8(d.Byte())
}

// Int16 reads and returns an int16.
func (d *Decoder) Int16() int16 {
	return int16(d.Uint16()) //nolint: gosec
}

// Uint16 reads and returns an uint16.
func (d *Decoder) Uint16() uint16 {
	p := d.read(2)
	if p == nil {
		return 0
	}
	return binary.BigEndian.Uint16(p)
}

// Int32 reads and returns an int32.
func (d *Decoder) Int32() int32 {
	return int32(d.Uint32()) //nolint: gosec
}

// Uint32 reads and returns an uint32.
func (d *Decoder) Uint32() uint32 {
	p := d.read(4)
	if p == nil {
		return 0
	}
	return binary.BigEndian.Uint32(p)
}

// Int64 reads and returns an int64.
func (d *Decoder) Int64() int64 {
	return int64(d.Uint64()) //nolint: gosec
}

// Uint64 reads and returns an uint64.
func (d *Decoder) Uint64() uint64 {
	p := d.read(8)
	if p == nil {
		return 0
	}
	return binary.BigEndian.Uint64(p)
}

// Float32 reads and returns a float32.
func (d *Decoder) Float32() float32 {
	return math.Float32frombits(d.Uint32())
}

// Float64 reads and returns a float64.
func (d *Decoder) Float64() float64 {
	return math.Float64frombits(d.Uint64())
}

// String reads a size byte sequence and returns it as string after UTF-8 validation.
// - error is only returned in case of validation errors.
func (d *Decoder) String(size int) (string, error) {
	p := d.read(size)
	if p == nil {
		return "", nil
	}
	return validateUTF8(d.tr, p)
}

func validateUTF8(tr transform.Transformer, p []byte) (string, error) {
	r, _, err := transform.Bytes(tr, p)
	if err != nil {
		return "", err
	}
	return string(r), nil
}

// UTF8String converts wire bytes to a string, validating the encoding.
func UTF8String(p []byte) (string, error) {
	return validateUTF8(textencoding.UTF8Validator, p)
}
