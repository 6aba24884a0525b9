// SPDX-FileCopyrightText: 2024-2026 the go-gel authors
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"reflect"

	"github.com/gel-contrib/go-gel/driver/internal/protocol"
)

/*
A DecodeContext carries the read-only per-query decode state: the descriptor
Catalog built once per query result and the per connection negotiated
DecodeFlags. It is immutable after construction and safe to share across
concurrent row decodes.
*/
type DecodeContext struct {
	catalog *protocol.Catalog
	flags   protocol.DecodeFlags
}

// NewDecodeContext creates a new DecodeContext instance.
func NewDecodeContext(catalog *Catalog, flags DecodeFlags) *DecodeContext {
	return &DecodeContext{catalog: catalog, flags: flags}
}

// Catalog returns the descriptor catalog of the query result.
func (dcx *DecodeContext) Catalog() *Catalog { return dcx.catalog }

// Flags returns the negotiated implicit field settings.
func (dcx *DecodeContext) Flags() DecodeFlags { return dcx.flags }

/*
A RowDecoder decodes row buffers of one query result into values of type T.

Compiling a RowDecoder walks the result's descriptor graph and the target
type together and is thereby the shape validation: a mismatch is reported
with the exact field and position before any payload byte is touched.
Compilation runs once per query/target-type pair; Decode runs once per row
and keeps no state between calls.
*/
type RowDecoder[T any] struct {
	cd codec
}

// NewRowDecoder compiles a decoder for T against the result descriptor at pos.
func NewRowDecoder[T any](dcx *DecodeContext, pos TypePos) (*RowDecoder[T], error) {
	cd, err := buildCodec(dcx, pos, reflect.TypeOf((*T)(nil)).Elem(), false)
	if err != nil {
		return nil, err
	}
	return &RowDecoder[T]{cd: cd}, nil
}

// NewJSONDecoder compiles a decoder for T against a result that was cast to
// std::json on the server: the whole row is one json wrapped element.
func NewJSONDecoder[T any](dcx *DecodeContext, pos TypePos) (*RowDecoder[T], error) {
	cd, err := buildCodec(dcx, pos, reflect.TypeOf((*T)(nil)).Elem(), true)
	if err != nil {
		return nil, err
	}
	return &RowDecoder[T]{cd: cd}, nil
}

// Decode decodes one row buffer. On error no partial value is returned: the
// decode of an object is all or nothing.
func (d *RowDecoder[T]) Decode(buf []byte) (T, error) {
	var value T
	if err := d.cd.decode(buf, reflect.ValueOf(&value).Elem()); err != nil {
		var zero T
		return zero, err
	}
	return value, nil
}

// DecodeRow is a one-shot convenience for single-row results. Callers
// decoding many rows should compile a RowDecoder once and reuse it.
func DecodeRow[T any](dcx *DecodeContext, pos TypePos, buf []byte) (T, error) {
	d, err := NewRowDecoder[T](dcx, pos)
	if err != nil {
		var zero T
		return zero, err
	}
	return d.Decode(buf)
}
