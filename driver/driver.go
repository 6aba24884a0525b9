// SPDX-FileCopyrightText: 2024-2026 the go-gel authors
//
// SPDX-License-Identifier: Apache-2.0

/*
Package driver implements the typed result decoding layer of a gel client:
it converts the binary, self-describing tuple/object wire encoding produced
by the server into strongly-typed Go values, validating up front that the
advertised result shape matches the statically declared target type.

The surrounding collaborators - connection establishment, query execution,
transaction orchestration and argument encoding - are external to this
package. A connection supplies a row buffer, a descriptor Catalog parsed once
per query result and the negotiated DecodeFlags; this package does the rest.

Decoding is synchronous and CPU bound. A DecodeContext and the Catalog it
references are immutable after construction, so distinct rows may decode
concurrently without coordination. No failure at this layer is retryable:
shape and structural errors are deterministic for a given query and schema
revision.
*/
package driver

import (
	"github.com/gel-contrib/go-gel/driver/internal/protocol"
	"github.com/gel-contrib/go-gel/driver/internal/protocol/encoding"
)

// DriverVersion is the version number of the gel driver.
const DriverVersion = "0.19.4"

// DriverName is the driver name.
const DriverName = "gel"

// TypePos is the position of one descriptor within a query result's Catalog.
type TypePos = protocol.TypePos

// Catalog is the position addressable descriptor table of one query result.
type Catalog = protocol.Catalog

// DecodeFlags are the per connection negotiated implicit field settings.
type DecodeFlags = protocol.DecodeFlags

// ParseCatalog parses the type descriptor segment of a query result.
func ParseCatalog(blob []byte) (*Catalog, error) { return protocol.ParseCatalog(blob) }

// TupleReader is a cursor over the elements of one encoded row. It is
// exported for hand-written Queryable implementations.
type TupleReader = encoding.TupleReader

// OpenObject opens a TupleReader over an encoded object row, validating the
// declared element count against nfields.
func OpenObject(buf []byte, nfields int) (*TupleReader, error) {
	return encoding.OpenObject(buf, nfields)
}

// OpenTuple opens a TupleReader over an encoded tuple, validating the
// declared element count against n.
func OpenTuple(buf []byte, n int) (*TupleReader, error) {
	return encoding.OpenTuple(buf, n)
}
