// SPDX-FileCopyrightText: 2024-2026 the go-gel authors
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/gel-contrib/go-gel/driver/internal/protocol"
)

// ImplicitKind identifies one implicit metadata field of the fixed prefix
// order {__tid__, __tname__, id}.
type ImplicitKind = protocol.ImplicitKind

/*
Queryable is the escape hatch for hand-written per-type decoders. A type
implementing Queryable on its pointer receiver bypasses the reflection based
plan and decodes its own row buffer, typically via OpenObject and the Decode*
scalar helpers:

	func (a *Account) DecodeGel(dcx *driver.DecodeContext, buf []byte) error {
		flags := dcx.Flags()
		r, err := driver.OpenObject(buf, 2+flags.NumImplicit())
		if err != nil {
			return err
		}
		for range flags.ImplicitFields() {
			if err := r.Skip(); err != nil {
				return err
			}
		}
		...
		return r.Finish()
	}

Implementations must consume exactly the declared element count and finish
with TupleReader.Finish.
*/
type Queryable interface {
	DecodeGel(dcx *DecodeContext, buf []byte) error
}

// ShapeChecker is optionally implemented by Queryable types to validate the
// result shape ahead of the first row's decode. Implementations usually
// delegate to CheckShape with their declared field list.
type ShapeChecker interface {
	CheckShape(dcx *DecodeContext, pos TypePos) error
}

// ShapeField is one declared field of a hand-written shape check: its wire
// name and the checker for its element type.
type ShapeField = protocol.Field

// CheckShape validates one object shape descriptor against an ordered field
// list, accounting for the negotiated implicit field prefix. It is the
// building block for hand-written ShapeChecker implementations and uses the
// same index arithmetic as the row decoder.
func CheckShape(dcx *DecodeContext, pos TypePos, fields []ShapeField) error {
	return protocol.CheckObjectShape(dcx.catalog, dcx.flags, pos, fields)
}

// CheckScalar validates that the descriptor at pos resolves to the given
// well-known base scalar type name (e.g. "std::str").
func CheckScalar(dcx *DecodeContext, pos TypePos, typeName string) error {
	id := protocol.BaseScalarID(typeName)
	if id == uuid.Nil {
		return fmt.Errorf("unknown scalar type %q", typeName)
	}
	return checkScalar(dcx, pos, id, typeName)
}
