// SPDX-FileCopyrightText: 2024-2026 the go-gel authors
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/gel-contrib/go-gel/driver/internal/protocol/encoding"
)

// catalog blob builders shared by the protocol tests.

func encodeTypeID(enc *encoding.Encoder, id uuid.UUID) {
	enc.Bytes(id[:])
}

func encodeBaseScalar(enc *encoding.Encoder, id uuid.UUID) {
	enc.Byte(byte(DkBaseScalar))
	encodeTypeID(enc, id)
}

func encodeScalar(enc *encoding.Encoder, id uuid.UUID, base TypePos) {
	enc.Byte(byte(DkScalar))
	encodeTypeID(enc, id)
	enc.Uint16(uint16(base))
}

type shapeElementDef struct {
	flags       uint32
	cardinality Cardinality
	name        string
	typePos     TypePos
}

func encodeObjectShape(enc *encoding.Encoder, id uuid.UUID, elements ...shapeElementDef) {
	enc.Byte(byte(DkObjectShape))
	encodeTypeID(enc, id)
	enc.Uint16(uint16(len(elements))) //nolint: gosec
	for _, el := range elements {
		enc.Uint32(el.flags)
		enc.Byte(byte(el.cardinality))
		enc.LenString(el.name)
		enc.Uint16(uint16(el.typePos))
	}
}

func encodeTuple(enc *encoding.Encoder, id uuid.UUID, elements ...TypePos) {
	enc.Byte(byte(DkTuple))
	encodeTypeID(enc, id)
	enc.Uint16(uint16(len(elements))) //nolint: gosec
	for _, pos := range elements {
		enc.Uint16(uint16(pos))
	}
}

func encodeNamedTuple(enc *encoding.Encoder, id uuid.UUID, elements ...NamedTupleElement) {
	enc.Byte(byte(DkNamedTuple))
	encodeTypeID(enc, id)
	enc.Uint16(uint16(len(elements))) //nolint: gosec
	for _, el := range elements {
		enc.LenString(el.Name)
		enc.Uint16(uint16(el.TypePos))
	}
}

func encodeArray(enc *encoding.Encoder, id uuid.UUID, elem TypePos, dimensions ...int32) {
	enc.Byte(byte(DkArray))
	encodeTypeID(enc, id)
	enc.Uint16(uint16(elem))
	enc.Uint16(uint16(len(dimensions))) //nolint: gosec
	for _, dim := range dimensions {
		enc.Int32(dim)
	}
}

func encodeSet(enc *encoding.Encoder, id uuid.UUID, elem TypePos) {
	enc.Byte(byte(DkSet))
	encodeTypeID(enc, id)
	enc.Uint16(uint16(elem))
}

func encodeEnum(enc *encoding.Encoder, id uuid.UUID, members ...string) {
	enc.Byte(byte(DkEnum))
	encodeTypeID(enc, id)
	enc.Uint16(uint16(len(members))) //nolint: gosec
	for _, member := range members {
		enc.LenString(member)
	}
}

var testShapeID = uuid.MustParse("8e564e97-51b5-4b1b-b288-02b6a323a160")

func testParseCatalog(t *testing.T) {
	enc := encoding.NewEncoder()
	encodeBaseScalar(enc, IDStr)
	encodeBaseScalar(enc, IDInt64)
	encodeScalar(enc, uuid.MustParse("d1f50468-0d8e-4b9e-9e0a-0a1c2b3c4d5e"), 1)
	encodeObjectShape(enc, testShapeID,
		shapeElementDef{flags: 1, cardinality: CardinalityOne, name: "id", typePos: 0},
		shapeElementDef{flags: 0, cardinality: CardinalityOne, name: "name", typePos: 0},
		shapeElementDef{flags: 0, cardinality: CardinalityAtMostOne, name: "age", typePos: 2},
	)
	encodeArray(enc, uuid.MustParse("a2b3c4d5-e6f7-4890-8a1b-2c3d4e5f6071"), 1, -1)
	encodeSet(enc, uuid.MustParse("b3c4d5e6-f708-4192-a3b4-c5d6e7f80912"), 0)
	encodeEnum(enc, uuid.MustParse("c4d5e6f7-0819-42a3-b4c5-d6e7f8091a2b"), "red", "green")
	encodeTuple(enc, uuid.MustParse("d5e6f708-192a-43b4-85d6-e7f8091a2b3c"), 0, 1)
	encodeNamedTuple(enc, uuid.MustParse("e6f70819-2a3b-44c5-96e7-f8091a2b3c4d"),
		NamedTupleElement{Name: "x", TypePos: 0},
		NamedTupleElement{Name: "y", TypePos: 1},
	)

	cat, err := ParseCatalog(enc.Data())
	if err != nil {
		t.Fatal(err)
	}
	if cat.Len() != 9 {
		t.Fatalf("catalog length %d - expected 9", cat.Len())
	}

	kinds := []DescriptorKind{DkBaseScalar, DkBaseScalar, DkScalar, DkObjectShape, DkArray, DkSet, DkEnum, DkTuple, DkNamedTuple}
	for pos, kind := range kinds {
		desc, err := cat.Get(TypePos(pos)) //nolint: gosec
		if err != nil {
			t.Fatal(err)
		}
		if desc.Kind() != kind {
			t.Fatalf("position %d kind %s - expected %s", pos, desc.Kind(), kind)
		}
	}

	desc, err := cat.Get(3)
	if err != nil {
		t.Fatal(err)
	}
	shape := desc.(*ObjectShapeDescriptor)
	if shape.TypeID != testShapeID {
		t.Fatalf("shape id %s - expected %s", shape.TypeID, testShapeID)
	}
	if len(shape.Elements) != 3 {
		t.Fatalf("shape element count %d - expected 3", len(shape.Elements))
	}
	el := shape.Elements[0]
	if el.Name != "id" || !el.FlagImplicit || el.Cardinality != CardinalityOne {
		t.Fatalf("element %s - expected implicit id with cardinality one", el.String())
	}
	el = shape.Elements[2]
	if el.Name != "age" || el.FlagImplicit || el.TypePos != 2 || el.Cardinality != CardinalityAtMostOne {
		t.Fatalf("element %s - expected age at position 2 with cardinality at most one", el.String())
	}

	desc, err = cat.Get(6)
	if err != nil {
		t.Fatal(err)
	}
	enum := desc.(*EnumDescriptor)
	if len(enum.Members) != 2 || enum.Members[0] != "red" || enum.Members[1] != "green" {
		t.Fatalf("enum members %v - expected [red green]", enum.Members)
	}
}

func testParseCatalogTruncated(t *testing.T) {
	enc := encoding.NewEncoder()
	encodeObjectShape(enc, testShapeID,
		shapeElementDef{flags: 0, cardinality: CardinalityOne, name: "name", typePos: 0},
	)
	blob := enc.Data()

	for size := 1; size < len(blob); size++ {
		if _, err := ParseCatalog(blob[:size]); err == nil {
			t.Fatalf("error expected parsing %d of %d catalog bytes", size, len(blob))
		}
	}
}

func testParseCatalogUnknownKind(t *testing.T) {
	enc := encoding.NewEncoder()
	enc.Byte(42)
	encodeTypeID(enc, testShapeID)
	if _, err := ParseCatalog(enc.Data()); err == nil {
		t.Fatal("error expected for unknown descriptor kind")
	}
}

func testCatalogBadPosition(t *testing.T) {
	enc := encoding.NewEncoder()
	encodeBaseScalar(enc, IDStr)
	cat, err := ParseCatalog(enc.Data())
	if err != nil {
		t.Fatal(err)
	}

	_, err = cat.Get(1)
	var posErr *BadPositionError
	if !errors.As(err, &posErr) {
		t.Fatalf("error %v - expected BadPositionError", err)
	}
	if posErr.Pos != 1 || posErr.Size != 1 {
		t.Fatalf("position %d size %d - expected position 1 size 1", posErr.Pos, posErr.Size)
	}
}

func testResolveBase(t *testing.T) {
	enc := encoding.NewEncoder()
	encodeBaseScalar(enc, IDInt64)
	encodeScalar(enc, uuid.MustParse("d1f50468-0d8e-4b9e-9e0a-0a1c2b3c4d5e"), 0)
	encodeScalar(enc, uuid.MustParse("e2f61579-1e9f-4caf-af1b-1b2d3c4d5e6f"), 1)
	encodeScalar(enc, uuid.MustParse("f3072680-2fa0-4db0-b02c-2c3e4d5e6f70"), 3) // references itself
	cat, err := ParseCatalog(enc.Data())
	if err != nil {
		t.Fatal(err)
	}

	desc, pos, err := cat.ResolveBase(2)
	if err != nil {
		t.Fatal(err)
	}
	if pos != 0 {
		t.Fatalf("base position %d - expected 0", pos)
	}
	if base := desc.(*BaseScalarDescriptor); base.TypeID != IDInt64 {
		t.Fatalf("base id %s - expected %s", base.TypeID, IDInt64)
	}

	if _, _, err := cat.ResolveBase(3); err == nil {
		t.Fatal("error expected resolving a descriptor reference cycle")
	}
}

func testBaseScalarNames(t *testing.T) {
	if name := BaseScalarName(IDStr); name != "std::str" {
		t.Fatalf("name %q - expected %q", name, "std::str")
	}
	if id := BaseScalarID("std::duration"); id != IDDuration {
		t.Fatalf("id %s - expected %s", id, IDDuration)
	}
	if name := BaseScalarName(testShapeID); name != "" {
		t.Fatalf("name %q - expected empty name for unknown id", name)
	}
	if id := BaseScalarID("std::nope"); id != uuid.Nil {
		t.Fatalf("id %s - expected nil id for unknown name", id)
	}
}

func TestCatalog(t *testing.T) {
	tests := []struct {
		name string
		fct  func(t *testing.T)
	}{
		{"parse", testParseCatalog},
		{"parseTruncated", testParseCatalogTruncated},
		{"parseUnknownKind", testParseCatalogUnknownKind},
		{"badPosition", testCatalogBadPosition},
		{"resolveBase", testResolveBase},
		{"baseScalarNames", testBaseScalarNames},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			test.fct(t)
		})
	}
}
