// SPDX-FileCopyrightText: 2024-2026 the go-gel authors
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import "fmt"

/*
Decode and shape mismatch errors. All errors of this layer are terminal for
the decode attempt: propagation is strict first-error-wins, there is no
aggregation and no partial result. Retrying is the concern of the surrounding
query layer and pointless for shape and structural errors, which are
deterministic for a given query and schema revision.
*/

// BadPositionError is returned on a descriptor reference outside the catalog
// that produced it.
type BadPositionError struct {
	Pos  TypePos
	Size int
}

func (e *BadPositionError) Error() string {
	return fmt.Sprintf("descriptor position %d out of range - catalog holds %d descriptors", e.Pos, e.Size)
}

// WrongTypeError is returned if a descriptor is not of the kind the target
// type expects.
type WrongTypeError struct {
	Pos  TypePos
	Got  string
	Want string
}

func (e *WrongTypeError) Error() string {
	return fmt.Sprintf("unexpected %s descriptor at position %d - %s expected", e.Got, e.Pos, e.Want)
}

// ExpectedImplicitError is returned if a negotiated implicit field is missing
// from the shape prefix.
type ExpectedImplicitError struct {
	Kind ImplicitKind
}

func (e *ExpectedImplicitError) Error() string {
	return fmt.Sprintf("expected implicit %s field", e.Kind)
}

// WrongFieldError is returned if a shape element name does not match the
// target field at the same position. Field order, not set membership, is
// authoritative.
type WrongFieldError struct {
	Unexpected string
	Expected   string
}

func (e *WrongFieldError) Error() string {
	return fmt.Sprintf("unexpected field %q - %q expected", e.Unexpected, e.Expected)
}

// FieldCountError is returned if the shape element count does not equal the
// number of fields the target type consumes.
type FieldCountError struct {
	Actual   int
	Expected int
}

func (e *FieldCountError) Error() string {
	return fmt.Sprintf("unexpected number of fields %d - %d expected", e.Actual, e.Expected)
}

// MissingRequiredFieldError is returned if an absent element is decoded into
// a non optional field.
type MissingRequiredFieldError struct {
	Field string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("missing value for required field %q", e.Field)
}

// JSONFormatError is returned on an unknown json wrapper version byte. The
// trailing text is never parsed in this case.
type JSONFormatError struct {
	Version byte
}

func (e *JSONFormatError) Error() string {
	return fmt.Sprintf("unsupported json format version %d", e.Version)
}

// MalformedScalarError is returned on a scalar payload that does not satisfy
// its encoding.
type MalformedScalarError struct {
	Type   string
	Reason string
}

func (e *MalformedScalarError) Error() string {
	return fmt.Sprintf("malformed %s encoding: %s", e.Type, e.Reason)
}
