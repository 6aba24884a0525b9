// SPDX-FileCopyrightText: 2024-2026 the go-gel authors
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"encoding/binary"
	"testing"

	"github.com/google/uuid"

	"github.com/gel-contrib/go-gel/driver/internal/protocol"
	"github.com/gel-contrib/go-gel/driver/internal/protocol/encoding"
)

// catalog fixture builder

type catalogBuilder struct {
	enc    *encoding.Encoder
	nextID uint32
}

func newCatalogBuilder() *catalogBuilder {
	return &catalogBuilder{enc: encoding.NewEncoder()}
}

// typeID returns a fresh synthetic descriptor id.
func (b *catalogBuilder) typeID() uuid.UUID {
	b.nextID++
	var id uuid.UUID
	binary.BigEndian.PutUint32(id[12:], b.nextID)
	id[0] = 0x0f
	return id
}

func (b *catalogBuilder) baseScalar(id uuid.UUID) *catalogBuilder {
	b.enc.Byte(byte(protocol.DkBaseScalar))
	b.enc.Bytes(id[:])
	return b
}

func (b *catalogBuilder) scalar(base TypePos) *catalogBuilder {
	b.enc.Byte(byte(protocol.DkScalar))
	id := b.typeID()
	b.enc.Bytes(id[:])
	b.enc.Uint16(uint16(base))
	return b
}

type shapeEl struct {
	name     string
	pos      TypePos
	implicit bool
}

func (b *catalogBuilder) objectShape(elements ...shapeEl) *catalogBuilder {
	b.enc.Byte(byte(protocol.DkObjectShape))
	id := b.typeID()
	b.enc.Bytes(id[:])
	b.enc.Uint16(uint16(len(elements))) //nolint: gosec
	for _, el := range elements {
		var flags uint32
		if el.implicit {
			flags = 1
		}
		b.enc.Uint32(flags)
		b.enc.Byte(byte(protocol.CardinalityOne))
		b.enc.LenString(el.name)
		b.enc.Uint16(uint16(el.pos))
	}
	return b
}

func (b *catalogBuilder) tuple(elements ...TypePos) *catalogBuilder {
	b.enc.Byte(byte(protocol.DkTuple))
	id := b.typeID()
	b.enc.Bytes(id[:])
	b.enc.Uint16(uint16(len(elements))) //nolint: gosec
	for _, pos := range elements {
		b.enc.Uint16(uint16(pos))
	}
	return b
}

type namedTupleEl struct {
	name string
	pos  TypePos
}

func (b *catalogBuilder) namedTuple(elements ...namedTupleEl) *catalogBuilder {
	b.enc.Byte(byte(protocol.DkNamedTuple))
	id := b.typeID()
	b.enc.Bytes(id[:])
	b.enc.Uint16(uint16(len(elements))) //nolint: gosec
	for _, el := range elements {
		b.enc.LenString(el.name)
		b.enc.Uint16(uint16(el.pos))
	}
	return b
}

func (b *catalogBuilder) array(elem TypePos) *catalogBuilder {
	b.enc.Byte(byte(protocol.DkArray))
	id := b.typeID()
	b.enc.Bytes(id[:])
	b.enc.Uint16(uint16(elem))
	b.enc.Uint16(1)
	b.enc.Int32(-1)
	return b
}

func (b *catalogBuilder) set(elem TypePos) *catalogBuilder {
	b.enc.Byte(byte(protocol.DkSet))
	id := b.typeID()
	b.enc.Bytes(id[:])
	b.enc.Uint16(uint16(elem))
	return b
}

func (b *catalogBuilder) enum(members ...string) *catalogBuilder {
	b.enc.Byte(byte(protocol.DkEnum))
	id := b.typeID()
	b.enc.Bytes(id[:])
	b.enc.Uint16(uint16(len(members))) //nolint: gosec
	for _, member := range members {
		b.enc.LenString(member)
	}
	return b
}

func (b *catalogBuilder) build(t *testing.T) *Catalog {
	t.Helper()
	cat, err := ParseCatalog(b.enc.Data())
	if err != nil {
		t.Fatal(err)
	}
	return cat
}

// row fixture builders

// absentElement marks an absent element in objectRow and tupleRow element lists.
var absentElement = []byte{0xab, 0x5e, 0x47}

func writeElements(w *encoding.TupleWriter, elements [][]byte) []byte {
	for _, el := range elements {
		if len(el) == len(absentElement) && &el[0] == &absentElement[0] {
			w.Absent()
			continue
		}
		w.Element(el)
	}
	return w.Data()
}

func objectRow(elements ...[]byte) []byte {
	return writeElements(encoding.NewObjectWriter(), elements)
}

func tupleRow(elements ...[]byte) []byte {
	return writeElements(encoding.NewTupleWriter(), elements)
}

// arrayBody encodes a one dimensional array body.
func arrayBody(elements ...[]byte) []byte {
	enc := encoding.NewEncoder()
	enc.Int32(1) // ndims
	enc.Zeroes(8)
	enc.Int32(int32(len(elements))) //nolint: gosec
	enc.Int32(1)
	enc.Bytes(writeElements(encoding.NewElementWriter(), elements))
	return enc.Data()
}

func emptyArrayBody() []byte {
	enc := encoding.NewEncoder()
	enc.Int32(0)
	enc.Zeroes(8)
	return enc.Data()
}

// scalar payload builders

func strPayload(s string) []byte { return []byte(s) }

func int16Payload(i int16) []byte {
	return binary.BigEndian.AppendUint16(nil, uint16(i)) //nolint: gosec
}

func int32Payload(i int32) []byte {
	return binary.BigEndian.AppendUint32(nil, uint32(i)) //nolint: gosec
}

func int64Payload(i int64) []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(i)) //nolint: gosec
}

func float64Payload(f float64) []byte {
	enc := encoding.NewEncoder()
	enc.Float64(f)
	return enc.Data()
}

func boolPayload(b bool) []byte {
	if b {
		return []byte{1}
	}
	return []byte{0}
}

func uuidPayload(id uuid.UUID) []byte { return id[:] }

func datetimePayload(micros int64) []byte { return int64Payload(micros) }

func durationPayload(micros int64, days, months int32) []byte {
	enc := encoding.NewEncoder()
	enc.Int64(micros)
	enc.Int32(days)
	enc.Int32(months)
	return enc.Data()
}

func jsonPayload(doc string) []byte {
	return append([]byte{1}, doc...)
}
