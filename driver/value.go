// SPDX-FileCopyrightText: 2024-2026 the go-gel authors
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"fmt"

	"github.com/gel-contrib/go-gel/driver/internal/protocol"
	"github.com/gel-contrib/go-gel/driver/internal/protocol/encoding"
)

// An ObjectField is one decoded field of a dynamically decoded object.
// Absent fields decode to a nil Value.
type ObjectField struct {
	Name  string
	Value any
}

// An Object is the dynamic decode result of an object-like value. Its fields
// follow the shape order and include the implicit fields the shape reports.
type Object struct {
	Fields []ObjectField
}

// Field returns the value of the named field.
func (o Object) Field(name string) (any, bool) {
	for _, f := range o.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

/*
DecodeValue decodes a row buffer without a static target type: objects and
named tuples decode to Object, tuples, arrays and sets to []any, enums to
string and scalars to their Go value. Unlike the typed path it takes the
element count from the shape itself, so no implicit field is skipped - the
metadata fields appear in the result the way the server sent them.
*/
func (dcx *DecodeContext) DecodeValue(pos TypePos, buf []byte) (any, error) {
	return decodeValue(dcx.catalog, pos, buf)
}

func decodeValue(cat *protocol.Catalog, pos protocol.TypePos, p []byte) (any, error) {
	desc, pos, err := cat.ResolveBase(pos)
	if err != nil {
		return nil, err
	}

	switch d := desc.(type) {
	case *protocol.ObjectShapeDescriptor:
		r, err := encoding.OpenObject(p, len(d.Elements))
		if err != nil {
			return nil, err
		}
		obj := Object{Fields: make([]ObjectField, 0, len(d.Elements))}
		for _, el := range d.Elements {
			value, err := decodeElementValue(cat, el.TypePos, r)
			if err != nil {
				return nil, err
			}
			obj.Fields = append(obj.Fields, ObjectField{Name: el.Name, Value: value})
		}
		if err := r.Finish(); err != nil {
			return nil, err
		}
		return obj, nil

	case *protocol.NamedTupleDescriptor:
		r, err := encoding.OpenTuple(p, len(d.Elements))
		if err != nil {
			return nil, err
		}
		obj := Object{Fields: make([]ObjectField, 0, len(d.Elements))}
		for _, el := range d.Elements {
			value, err := decodeElementValue(cat, el.TypePos, r)
			if err != nil {
				return nil, err
			}
			obj.Fields = append(obj.Fields, ObjectField{Name: el.Name, Value: value})
		}
		if err := r.Finish(); err != nil {
			return nil, err
		}
		return obj, nil

	case *protocol.TupleDescriptor:
		r, err := encoding.OpenTuple(p, len(d.Elements))
		if err != nil {
			return nil, err
		}
		values := make([]any, 0, len(d.Elements))
		for _, elPos := range d.Elements {
			value, err := decodeElementValue(cat, elPos, r)
			if err != nil {
				return nil, err
			}
			values = append(values, value)
		}
		if err := r.Finish(); err != nil {
			return nil, err
		}
		return values, nil

	case *protocol.ArrayDescriptor:
		return decodeArrayValue(cat, d.Elem, p)
	case *protocol.SetDescriptor:
		return decodeArrayValue(cat, d.Elem, p)

	case *protocol.EnumDescriptor:
		return DecodeString(p)

	case *protocol.BaseScalarDescriptor:
		return decodeBaseScalarValue(d, p)

	default:
		return nil, fmt.Errorf("decode: unsupported %s descriptor at position %d", desc.Kind(), pos)
	}
}

func decodeElementValue(cat *protocol.Catalog, pos protocol.TypePos, r *encoding.TupleReader) (any, error) {
	elem, present, err := r.Read()
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	return decodeValue(cat, pos, elem)
}

func decodeArrayValue(cat *protocol.Catalog, elemPos protocol.TypePos, p []byte) ([]any, error) {
	r, count, err := openArrayBody(p)
	if err != nil {
		return nil, err
	}
	values := make([]any, 0, count)
	for i := 0; i < count; i++ {
		value, err := decodeElementValue(cat, elemPos, r)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	if err := r.Finish(); err != nil {
		return nil, err
	}
	return values, nil
}

func decodeBaseScalarValue(d *protocol.BaseScalarDescriptor, p []byte) (any, error) {
	switch d.TypeID {
	case protocol.IDBool:
		return DecodeBool(p)
	case protocol.IDInt16:
		return DecodeInt16(p)
	case protocol.IDInt32:
		return DecodeInt32(p)
	case protocol.IDInt64:
		return DecodeInt64(p)
	case protocol.IDFloat32:
		return DecodeFloat32(p)
	case protocol.IDFloat64:
		return DecodeFloat64(p)
	case protocol.IDStr:
		return DecodeString(p)
	case protocol.IDBytes:
		return DecodeBytes(p)
	case protocol.IDUUID:
		return DecodeUUID(p)
	case protocol.IDDatetime:
		return DecodeDatetime(p)
	case protocol.IDDuration:
		return DecodeDuration(p)
	case protocol.IDJSON:
		var value any
		if err := DecodeJSON(p, &value); err != nil {
			return nil, err
		}
		return value, nil
	default:
		name := protocol.BaseScalarName(d.TypeID)
		if name == "" {
			name = d.TypeID.String()
		}
		return nil, fmt.Errorf("decode: unsupported scalar type %s", name)
	}
}
