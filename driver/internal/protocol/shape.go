// SPDX-FileCopyrightText: 2024-2026 the go-gel authors
//
// SPDX-License-Identifier: Apache-2.0

package protocol

// A Field is one statically declared target field: its wire name and the
// checker validating the descriptor its shape element references.
type Field struct {
	Name  string
	Check func(cat *Catalog, pos TypePos) error
}

/*
CheckObjectShape validates one object shape descriptor against the ordered
field list a target type declares, accounting for the negotiated implicit
field prefix. It touches only descriptor metadata, never payload bytes, and
is meant to run once per query/target-type pair, ahead of the first row's
decode. Nested checker failures propagate unchanged.
*/
func CheckObjectShape(cat *Catalog, flags DecodeFlags, pos TypePos, fields []Field) error {
	desc, err := cat.Get(pos)
	if err != nil {
		return err
	}
	shape, ok := desc.(*ObjectShapeDescriptor)
	if !ok {
		return &WrongTypeError{Pos: pos, Got: Describe(desc), Want: DkObjectShape.String()}
	}

	expected := flags.NumImplicit() + len(fields)
	idx := 0
	for _, kind := range flags.ImplicitFields() {
		if idx >= len(shape.Elements) || !shape.Elements[idx].FlagImplicit {
			return &ExpectedImplicitError{Kind: kind}
		}
		idx++
	}
	for _, field := range fields {
		if idx >= len(shape.Elements) {
			return &FieldCountError{Actual: len(shape.Elements), Expected: expected}
		}
		el := &shape.Elements[idx]
		if el.Name != field.Name {
			return &WrongFieldError{Unexpected: el.Name, Expected: field.Name}
		}
		if err := field.Check(cat, el.TypePos); err != nil {
			return err
		}
		idx++
	}
	if len(shape.Elements) != idx {
		return &FieldCountError{Actual: len(shape.Elements), Expected: expected}
	}
	return nil
}
