// SPDX-FileCopyrightText: 2024-2026 the go-gel authors
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"github.com/gel-contrib/go-gel/driver/internal/protocol"
	"github.com/gel-contrib/go-gel/driver/internal/protocol/encoding"
)

/*
Decode failure taxonomy. All errors are terminal for the decode attempt and
deterministic for a given query and schema revision - callers must not retry
at this layer. Nested failures propagate unchanged (first error wins, no
aggregation), so errors.As against these types addresses the exact failing
field or position.
*/

// Shape and value mismatch errors.
type (
	// BadPositionError - descriptor reference outside its catalog.
	BadPositionError = protocol.BadPositionError
	// WrongTypeError - descriptor kind does not match the target type.
	WrongTypeError = protocol.WrongTypeError
	// ExpectedImplicitError - negotiated implicit field missing from the shape prefix.
	ExpectedImplicitError = protocol.ExpectedImplicitError
	// WrongFieldError - shape element name mismatch at a field position.
	WrongFieldError = protocol.WrongFieldError
	// FieldCountError - shape element count mismatch.
	FieldCountError = protocol.FieldCountError
	// MissingRequiredFieldError - absent element for a non optional field.
	MissingRequiredFieldError = protocol.MissingRequiredFieldError
	// JSONFormatError - unknown json wrapper version byte.
	JSONFormatError = protocol.JSONFormatError
	// MalformedScalarError - scalar payload violating its encoding.
	MalformedScalarError = protocol.MalformedScalarError
)

// Structural sentinel errors, matched with errors.Is.
var (
	ErrUnderflow     = encoding.ErrUnderflow
	ErrTrailingData  = encoding.ErrTrailingData
	ErrUnexpectedEnd = encoding.ErrUnexpectedEnd
)
