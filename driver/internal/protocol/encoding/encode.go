// SPDX-FileCopyrightText: 2024-2026 the go-gel authors
//
// SPDX-License-Identifier: Apache-2.0

package encoding

import (
	"encoding/binary"
	"math"
)

// Encoder encodes gel wire protocol datatypes into a byte buffer.
// It is the counterpart of Decoder and is used by tests, fixtures and the sniffer.
// Encoding of query arguments is not part of this package.
type Encoder struct {
	b []byte
}

// NewEncoder creates a new Encoder instance.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Data returns the encoded bytes.
func (e *Encoder) Data() []byte { return e.b }

// Zeroes writes cnt zero byte values.
func (e *Encoder) Zeroes(cnt int) {
	e.b = append(e.b, make([]byte, cnt)...)
}

// Bytes writes a byte slice.
func (e *Encoder) Bytes(p []byte) {
	e.b = append(e.b, p...)
}

// Byte writes a byte.
func (e *Encoder) Byte(b byte) {
	e.b = append(e.b, b)
}

// Bool writes a boolean.
func (e *Encoder) Bool(v bool) {
	if v {
		e.Byte(1)
	} else {
		e.Byte(0)
	}
}

// Int8 writes an int8.
func (e *Encoder) Int8(i int8) {
	e.Byte(byte(i))
}

// Int16 writes an int16.
func (e *Encoder) Int16(i int16) {
	e.Uint16(uint16(i)) //nolint: gosec
}

// Uint16 writes an uint16.
func (e *Encoder) Uint16(i uint16) {
	e.b = binary.BigEndian.AppendUint16(e.b, i)
}

// Int32 writes an int32.
func (e *Encoder) Int32(i int32) {
	e.Uint32(uint32(i)) //nolint: gosec
}

// Uint32 writes an uint32.
func (e *Encoder) Uint32(i uint32) {
	e.b = binary.BigEndian.AppendUint32(e.b, i)
}

// Int64 writes an int64.
func (e *Encoder) Int64(i int64) {
	e.Uint64(uint64(i)) //nolint: gosec
}

// Uint64 writes an uint64.
func (e *Encoder) Uint64(i uint64) {
	e.b = binary.BigEndian.AppendUint64(e.b, i)
}

// Float32 writes a float32.
func (e *Encoder) Float32(f float32) {
	e.Uint32(math.Float32bits(f))
}

// Float64 writes a float64.
func (e *Encoder) Float64(f float64) {
	e.Uint64(math.Float64bits(f))
}

// String writes a string as plain UTF-8 bytes (no length prefix).
func (e *Encoder) String(s string) {
	e.b = append(e.b, s...)
}

// LenString writes a string as uint32 length prefix plus UTF-8 bytes.
func (e *Encoder) LenString(s string) {
	e.Uint32(uint32(len(s))) //nolint: gosec
	e.String(s)
}
