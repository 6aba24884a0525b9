// SPDX-FileCopyrightText: 2024-2026 the go-gel authors
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/gel-contrib/go-gel/driver/internal/protocol/encoding"
)

// DescriptorKind identifies the variant of a type descriptor.
type DescriptorKind byte

// Descriptor kind constants (wire values).
const (
	DkSet         DescriptorKind = 0
	DkObjectShape DescriptorKind = 1
	DkBaseScalar  DescriptorKind = 2
	DkScalar      DescriptorKind = 3
	DkTuple       DescriptorKind = 4
	DkNamedTuple  DescriptorKind = 5
	DkArray       DescriptorKind = 6
	DkEnum        DescriptorKind = 7
)

var descriptorKindText = map[DescriptorKind]string{
	DkSet:         "set",
	DkObjectShape: "object shape",
	DkBaseScalar:  "base scalar",
	DkScalar:      "scalar",
	DkTuple:       "tuple",
	DkNamedTuple:  "named tuple",
	DkArray:       "array",
	DkEnum:        "enum",
}

func (k DescriptorKind) String() string {
	if text, ok := descriptorKindText[k]; ok {
		return text
	}
	return fmt.Sprintf("DescriptorKind(%d)", byte(k))
}

// TypePos is the position of one descriptor within the catalog that produced
// it. It carries no meaning outside that catalog.
type TypePos uint16

// Cardinality describes the cardinality of a shape element (wire values).
type Cardinality byte

// Cardinality constants.
const (
	CardinalityNoResult   Cardinality = 'n'
	CardinalityAtMostOne  Cardinality = 'o'
	CardinalityOne        Cardinality = 'A'
	CardinalityMany       Cardinality = 'm'
	CardinalityAtLeastOne Cardinality = 'M'
)

var cardinalityText = map[Cardinality]string{
	CardinalityNoResult:   "no result",
	CardinalityAtMostOne:  "at most one",
	CardinalityOne:        "one",
	CardinalityMany:       "many",
	CardinalityAtLeastOne: "at least one",
}

func (c Cardinality) String() string {
	if text, ok := cardinalityText[c]; ok {
		return text
	}
	return fmt.Sprintf("Cardinality(%d)", byte(c))
}

// Shape element flags (wire values).
const (
	flagImplicit     = 1 << 0
	flagLinkProperty = 1 << 1
	flagLink         = 1 << 2
)

// A ShapeElement is one named, typed field of an object shape. The element
// order within a shape is authoritative.
type ShapeElement struct {
	Name         string
	TypePos      TypePos
	Cardinality  Cardinality
	FlagImplicit bool
	FlagLinkProp bool
	FlagLink     bool
}

func (e *ShapeElement) String() string {
	return fmt.Sprintf("name %s typePos %d cardinality %s implicit %t", e.Name, e.TypePos, e.Cardinality, e.FlagImplicit)
}

// A NamedTupleElement is one named, typed member of a named tuple.
type NamedTupleElement struct {
	Name    string
	TypePos TypePos
}

// Descriptor is the tagged variant over the type descriptors of one query
// result.
type Descriptor interface {
	Kind() DescriptorKind
	ID() uuid.UUID
}

// SetDescriptor describes a set of an element type.
type SetDescriptor struct {
	TypeID uuid.UUID
	Elem   TypePos
}

// ObjectShapeDescriptor describes an object-like result type as an ordered
// list of shape elements.
type ObjectShapeDescriptor struct {
	TypeID   uuid.UUID
	Elements []ShapeElement
}

// BaseScalarDescriptor describes a well-known scalar type identified by its
// type id.
type BaseScalarDescriptor struct {
	TypeID uuid.UUID
}

// ScalarDescriptor describes a user defined scalar in terms of its base type.
type ScalarDescriptor struct {
	TypeID uuid.UUID
	Base   TypePos
}

// TupleDescriptor describes a tuple as ordered member type positions.
type TupleDescriptor struct {
	TypeID   uuid.UUID
	Elements []TypePos
}

// NamedTupleDescriptor describes a named tuple as ordered named member type
// positions.
type NamedTupleDescriptor struct {
	TypeID   uuid.UUID
	Elements []NamedTupleElement
}

// ArrayDescriptor describes an array of an element type.
type ArrayDescriptor struct {
	TypeID     uuid.UUID
	Elem       TypePos
	Dimensions []int32
}

// EnumDescriptor describes an enumeration type.
type EnumDescriptor struct {
	TypeID  uuid.UUID
	Members []string
}

// Kind implements the Descriptor interface.
func (d *SetDescriptor) Kind() DescriptorKind         { return DkSet }
func (d *ObjectShapeDescriptor) Kind() DescriptorKind { return DkObjectShape }
func (d *BaseScalarDescriptor) Kind() DescriptorKind  { return DkBaseScalar }
func (d *ScalarDescriptor) Kind() DescriptorKind      { return DkScalar }
func (d *TupleDescriptor) Kind() DescriptorKind       { return DkTuple }
func (d *NamedTupleDescriptor) Kind() DescriptorKind  { return DkNamedTuple }
func (d *ArrayDescriptor) Kind() DescriptorKind       { return DkArray }
func (d *EnumDescriptor) Kind() DescriptorKind        { return DkEnum }

// ID implements the Descriptor interface.
func (d *SetDescriptor) ID() uuid.UUID         { return d.TypeID }
func (d *ObjectShapeDescriptor) ID() uuid.UUID { return d.TypeID }
func (d *BaseScalarDescriptor) ID() uuid.UUID  { return d.TypeID }
func (d *ScalarDescriptor) ID() uuid.UUID      { return d.TypeID }
func (d *TupleDescriptor) ID() uuid.UUID       { return d.TypeID }
func (d *NamedTupleDescriptor) ID() uuid.UUID  { return d.TypeID }
func (d *ArrayDescriptor) ID() uuid.UUID       { return d.TypeID }
func (d *EnumDescriptor) ID() uuid.UUID        { return d.TypeID }

// Describe returns a short description of a descriptor for diagnostics: the
// qualified type name for well-known base scalars, the kind otherwise.
func Describe(d Descriptor) string {
	if b, ok := d.(*BaseScalarDescriptor); ok {
		if name := BaseScalarName(b.TypeID); name != "" {
			return name
		}
	}
	return d.Kind().String()
}

// Catalog is the ordered, position addressable table of type descriptors of
// one query result. It is built exactly once per result and read-only
// afterwards.
type Catalog struct {
	descs []Descriptor
}

// Len returns the number of descriptors in the catalog.
func (c *Catalog) Len() int { return len(c.descs) }

// Get returns the descriptor at position pos. Lookups are always bounds
// checked - the descriptor graph is not trusted to be well-formed.
func (c *Catalog) Get(pos TypePos) (Descriptor, error) {
	if int(pos) >= len(c.descs) {
		return nil, &BadPositionError{Pos: pos, Size: len(c.descs)}
	}
	return c.descs[pos], nil
}

// ResolveBase follows user defined scalar references down to their base
// descriptor. The chase is bounds checked and bounded by the catalog size,
// so reference cycles terminate with an error instead of spinning.
func (c *Catalog) ResolveBase(pos TypePos) (Descriptor, TypePos, error) {
	for i := 0; i < len(c.descs)+1; i++ {
		desc, err := c.Get(pos)
		if err != nil {
			return nil, pos, err
		}
		s, ok := desc.(*ScalarDescriptor)
		if !ok {
			return desc, pos, nil
		}
		pos = s.Base
	}
	return nil, pos, fmt.Errorf("descriptor reference chain too deep at position %d", pos)
}

// ParseCatalog parses the type descriptor segment preceding the row data of a
// query result. Descriptor positions are assigned in wire order.
func ParseCatalog(blob []byte) (*Catalog, error) {
	dec := encoding.NewDecoder(blob)
	c := &Catalog{}
	for dec.Remaining() > 0 {
		desc, err := parseDescriptor(dec)
		if err != nil {
			return nil, err
		}
		if protocolTrace.On() {
			protocolTrace.Output(2, fmt.Sprintf("catalog[%d] %s id %s", len(c.descs), desc.Kind(), desc.ID()))
		}
		c.descs = append(c.descs, desc)
	}
	return c, nil
}

func parseDescriptor(dec *encoding.Decoder) (Descriptor, error) {
	kind := DescriptorKind(dec.Byte())
	id, err := parseTypeID(dec)
	if err != nil {
		return nil, err
	}

	var desc Descriptor
	switch kind {
	case DkSet:
		desc = &SetDescriptor{TypeID: id, Elem: TypePos(dec.Uint16())}
	case DkObjectShape:
		desc, err = parseObjectShape(dec, id)
	case DkBaseScalar:
		desc = &BaseScalarDescriptor{TypeID: id}
	case DkScalar:
		desc = &ScalarDescriptor{TypeID: id, Base: TypePos(dec.Uint16())}
	case DkTuple:
		d := &TupleDescriptor{TypeID: id}
		n := int(dec.Uint16())
		for i := 0; i < n; i++ {
			d.Elements = append(d.Elements, TypePos(dec.Uint16()))
		}
		desc = d
	case DkNamedTuple:
		desc, err = parseNamedTuple(dec, id)
	case DkArray:
		d := &ArrayDescriptor{TypeID: id, Elem: TypePos(dec.Uint16())}
		n := int(dec.Uint16())
		for i := 0; i < n; i++ {
			d.Dimensions = append(d.Dimensions, dec.Int32())
		}
		desc = d
	case DkEnum:
		d := &EnumDescriptor{TypeID: id}
		n := int(dec.Uint16())
		for i := 0; i < n; i++ {
			member, err := parseName(dec)
			if err != nil {
				return nil, err
			}
			d.Members = append(d.Members, member)
		}
		desc = d
	default:
		return nil, fmt.Errorf("catalog: unknown descriptor kind %d (id %s)", byte(kind), id)
	}
	if err != nil {
		return nil, err
	}
	if err := dec.Error(); err != nil {
		return nil, fmt.Errorf("catalog: truncated %s descriptor: %w", kind, err)
	}
	return desc, nil
}

func parseObjectShape(dec *encoding.Decoder, id uuid.UUID) (*ObjectShapeDescriptor, error) {
	d := &ObjectShapeDescriptor{TypeID: id}
	n := int(dec.Uint16())
	for i := 0; i < n; i++ {
		flags := dec.Uint32()
		cardinality := Cardinality(dec.Byte())
		name, err := parseName(dec)
		if err != nil {
			return nil, err
		}
		d.Elements = append(d.Elements, ShapeElement{
			Name:         name,
			TypePos:      TypePos(dec.Uint16()),
			Cardinality:  cardinality,
			FlagImplicit: flags&flagImplicit != 0,
			FlagLinkProp: flags&flagLinkProperty != 0,
			FlagLink:     flags&flagLink != 0,
		})
	}
	return d, nil
}

func parseNamedTuple(dec *encoding.Decoder, id uuid.UUID) (*NamedTupleDescriptor, error) {
	d := &NamedTupleDescriptor{TypeID: id}
	n := int(dec.Uint16())
	for i := 0; i < n; i++ {
		name, err := parseName(dec)
		if err != nil {
			return nil, err
		}
		d.Elements = append(d.Elements, NamedTupleElement{Name: name, TypePos: TypePos(dec.Uint16())})
	}
	return d, nil
}

func parseTypeID(dec *encoding.Decoder) (uuid.UUID, error) {
	p := dec.Bytes(16)
	if err := dec.Error(); err != nil {
		return uuid.Nil, fmt.Errorf("catalog: truncated descriptor id: %w", err)
	}
	id, err := uuid.FromBytes(p)
	if err != nil {
		return uuid.Nil, fmt.Errorf("catalog: %w", err)
	}
	return id, nil
}

func parseName(dec *encoding.Decoder) (string, error) {
	size := int(dec.Uint32())
	if size > dec.Remaining() {
		return "", fmt.Errorf("catalog: name length %d exceeds descriptor data: %w", size, encoding.ErrUnderflow)
	}
	s, err := dec.String(size)
	if err != nil {
		return "", fmt.Errorf("catalog: malformed name: %w", err)
	}
	return s, nil
}
