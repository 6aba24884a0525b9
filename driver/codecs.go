// SPDX-FileCopyrightText: 2024-2026 the go-gel authors
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/gel-contrib/go-gel/driver/internal/protocol"
	"github.com/gel-contrib/go-gel/driver/internal/protocol/encoding"
)

/*
A codec decodes one element payload into a reflect value. Codecs are compiled
once per query/target-type pair by buildCodec, which walks the descriptor
graph and the Go type together - that walk is the shape validation. Decoding
afterwards trusts the validated plan but never the payload bytes.
*/
type codec interface {
	decode(p []byte, v reflect.Value) error
}

var (
	uuidType       = reflect.TypeOf((*uuid.UUID)(nil)).Elem()
	timeType       = reflect.TypeOf((*time.Time)(nil)).Elem()
	durationType   = reflect.TypeOf((*time.Duration)(nil)).Elem()
	rawMessageType = reflect.TypeOf((*json.RawMessage)(nil)).Elem()
	queryableType  = reflect.TypeOf((*Queryable)(nil)).Elem()
)

func buildCodec(dcx *DecodeContext, pos protocol.TypePos, t reflect.Type, jsonField bool) (codec, error) {
	if jsonField {
		if err := checkScalar(dcx, pos, protocol.IDJSON, "std::json"); err != nil {
			return nil, err
		}
		return &jsonCodec{typ: t}, nil
	}

	if t.Kind() == reflect.Pointer {
		elem, err := buildCodec(dcx, pos, t.Elem(), false)
		if err != nil {
			return nil, err
		}
		return &ptrCodec{typ: t, elem: elem}, nil
	}

	if reflect.PointerTo(t).Implements(queryableType) {
		return buildQueryableCodec(dcx, pos, t)
	}

	switch t {
	case uuidType:
		return scalarCodecFor(dcx, pos, protocol.IDUUID, "std::uuid", uuidCodec{})
	case timeType:
		return scalarCodecFor(dcx, pos, protocol.IDDatetime, "std::datetime", datetimeCodec{})
	case durationType:
		return scalarCodecFor(dcx, pos, protocol.IDDuration, "std::duration", durationCodec{})
	}

	switch t.Kind() {
	case reflect.Bool:
		return scalarCodecFor(dcx, pos, protocol.IDBool, "std::bool", boolCodec{})
	case reflect.Int16:
		return scalarCodecFor(dcx, pos, protocol.IDInt16, "std::int16", int16Codec{})
	case reflect.Int32:
		return scalarCodecFor(dcx, pos, protocol.IDInt32, "std::int32", int32Codec{})
	case reflect.Int64, reflect.Int:
		return scalarCodecFor(dcx, pos, protocol.IDInt64, "std::int64", int64Codec{})
	case reflect.Float32:
		return scalarCodecFor(dcx, pos, protocol.IDFloat32, "std::float32", float32Codec{})
	case reflect.Float64:
		return scalarCodecFor(dcx, pos, protocol.IDFloat64, "std::float64", float64Codec{})
	case reflect.String:
		return buildStringCodec(dcx, pos)
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return scalarCodecFor(dcx, pos, protocol.IDBytes, "std::bytes", bytesCodec{})
		}
		return buildSliceCodec(dcx, pos, t)
	case reflect.Struct:
		return buildCompositeCodec(dcx, pos, t)
	default:
		return nil, fmt.Errorf("decode: unsupported target type %s", t)
	}
}

// checkScalar validates that the descriptor at pos resolves to the wanted
// base scalar, following user defined scalar references.
func checkScalar(dcx *DecodeContext, pos protocol.TypePos, want uuid.UUID, name string) error {
	desc, basePos, err := dcx.catalog.ResolveBase(pos)
	if err != nil {
		return err
	}
	base, ok := desc.(*protocol.BaseScalarDescriptor)
	if !ok || base.TypeID != want {
		return &protocol.WrongTypeError{Pos: basePos, Got: protocol.Describe(desc), Want: name}
	}
	return nil
}

func scalarCodecFor(dcx *DecodeContext, pos protocol.TypePos, want uuid.UUID, name string, cd codec) (codec, error) {
	if err := checkScalar(dcx, pos, want, name); err != nil {
		return nil, err
	}
	return cd, nil
}

func buildStringCodec(dcx *DecodeContext, pos protocol.TypePos) (codec, error) {
	desc, _, err := dcx.catalog.ResolveBase(pos)
	if err != nil {
		return nil, err
	}
	if _, ok := desc.(*protocol.EnumDescriptor); ok {
		return strCodec{}, nil
	}
	return scalarCodecFor(dcx, pos, protocol.IDStr, "std::str", strCodec{})
}

// scalar codecs

type (
	boolCodec     struct{}
	int16Codec    struct{}
	int32Codec    struct{}
	int64Codec    struct{}
	float32Codec  struct{}
	float64Codec  struct{}
	strCodec      struct{}
	bytesCodec    struct{}
	uuidCodec     struct{}
	datetimeCodec struct{}
	durationCodec struct{}
)

func (boolCodec) decode(p []byte, v reflect.Value) error {
	b, err := DecodeBool(p)
	if err != nil {
		return err
	}
	v.SetBool(b)
	return nil
}

func (int16Codec) decode(p []byte, v reflect.Value) error {
	i, err := DecodeInt16(p)
	if err != nil {
		return err
	}
	v.SetInt(int64(i))
	return nil
}

func (int32Codec) decode(p []byte, v reflect.Value) error {
	i, err := DecodeInt32(p)
	if err != nil {
		return err
	}
	v.SetInt(int64(i))
	return nil
}

func (int64Codec) decode(p []byte, v reflect.Value) error {
	i, err := DecodeInt64(p)
	if err != nil {
		return err
	}
	v.SetInt(i)
	return nil
}

func (float32Codec) decode(p []byte, v reflect.Value) error {
	f, err := DecodeFloat32(p)
	if err != nil {
		return err
	}
	v.SetFloat(float64(f))
	return nil
}

func (float64Codec) decode(p []byte, v reflect.Value) error {
	f, err := DecodeFloat64(p)
	if err != nil {
		return err
	}
	v.SetFloat(f)
	return nil
}

func (strCodec) decode(p []byte, v reflect.Value) error {
	s, err := DecodeString(p)
	if err != nil {
		return err
	}
	v.SetString(s)
	return nil
}

func (bytesCodec) decode(p []byte, v reflect.Value) error {
	b, err := DecodeBytes(p)
	if err != nil {
		return err
	}
	v.SetBytes(b)
	return nil
}

func (uuidCodec) decode(p []byte, v reflect.Value) error {
	id, err := DecodeUUID(p)
	if err != nil {
		return err
	}
	v.Set(reflect.ValueOf(id).Convert(v.Type()))
	return nil
}

func (datetimeCodec) decode(p []byte, v reflect.Value) error {
	t, err := DecodeDatetime(p)
	if err != nil {
		return err
	}
	v.Set(reflect.ValueOf(t).Convert(v.Type()))
	return nil
}

func (durationCodec) decode(p []byte, v reflect.Value) error {
	d, err := DecodeDuration(p)
	if err != nil {
		return err
	}
	v.SetInt(int64(d))
	return nil
}

// ptrCodec marks an optional field: an absent element decodes to nil.
type ptrCodec struct {
	typ  reflect.Type
	elem codec
}

func (c *ptrCodec) decode(p []byte, v reflect.Value) error {
	nv := reflect.New(c.typ.Elem())
	if err := c.elem.decode(p, nv.Elem()); err != nil {
		return err
	}
	v.Set(nv)
	return nil
}

// struct targets

type structField struct {
	name     string
	index    int
	jsonMode bool
	optional bool
	codec    codec
}

// reflectFields collects the declared fields of a struct target in struct
// order. The declaration order is the order the query must select in.
func reflectFields(t reflect.Type) ([]structField, error) {
	var fields []structField
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" { // unexported
			continue
		}
		name, opts, _ := strings.Cut(sf.Tag.Get("gel"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = strings.ToLower(sf.Name)
		}
		fields = append(fields, structField{
			name:     name,
			index:    i,
			jsonMode: opts == "json",
			optional: sf.Type.Kind() == reflect.Pointer,
		})
	}
	return fields, nil
}

func buildCompositeCodec(dcx *DecodeContext, pos protocol.TypePos, t reflect.Type) (codec, error) {
	desc, err := dcx.catalog.Get(pos)
	if err != nil {
		return nil, err
	}
	switch d := desc.(type) {
	case *protocol.ObjectShapeDescriptor:
		return buildStructCodec(dcx, pos, t)
	case *protocol.TupleDescriptor:
		return buildTupleCodec(dcx, d, t)
	case *protocol.NamedTupleDescriptor:
		return buildNamedTupleCodec(dcx, d, t)
	default:
		return nil, &protocol.WrongTypeError{Pos: pos, Got: protocol.Describe(desc), Want: protocol.DkObjectShape.String()}
	}
}

type structCodec struct {
	flags  protocol.DecodeFlags
	fields []structField
}

func buildStructCodec(dcx *DecodeContext, pos protocol.TypePos, t reflect.Type) (codec, error) {
	fields, err := reflectFields(t)
	if err != nil {
		return nil, err
	}
	c := &structCodec{flags: dcx.flags, fields: fields}

	checks := make([]protocol.Field, len(c.fields))
	for i := range c.fields {
		f := &c.fields[i]
		ft := t.Field(f.index).Type
		checks[i] = protocol.Field{
			Name: f.name,
			Check: func(_ *protocol.Catalog, elPos protocol.TypePos) error {
				cd, err := buildCodec(dcx, elPos, ft, f.jsonMode)
				if err != nil {
					return err
				}
				f.codec = cd
				return nil
			},
		}
	}
	if err := protocol.CheckObjectShape(dcx.catalog, dcx.flags, pos, checks); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *structCodec) decode(p []byte, v reflect.Value) error {
	nfields := len(c.fields) + c.flags.NumImplicit()
	r, err := encoding.OpenObject(p, nfields)
	if err != nil {
		return err
	}
	// The implicit prefix order {__tid__, __tname__, id} is a protocol
	// contract shared with the shape validator.
	for range c.flags.ImplicitFields() {
		if err := r.Skip(); err != nil {
			return err
		}
	}
	for i := range c.fields {
		f := &c.fields[i]
		elem, present, err := r.Read()
		if err != nil {
			return err
		}
		fv := v.Field(f.index)
		if !present {
			if !f.optional {
				return &protocol.MissingRequiredFieldError{Field: f.name}
			}
			fv.SetZero()
			continue
		}
		if err := f.codec.decode(elem, fv); err != nil {
			return err
		}
	}
	return r.Finish()
}

type tupleCodec struct {
	fields []structField
}

func buildTupleCodec(dcx *DecodeContext, d *protocol.TupleDescriptor, t reflect.Type) (codec, error) {
	fields, err := reflectFields(t)
	if err != nil {
		return nil, err
	}
	if len(d.Elements) != len(fields) {
		return nil, &protocol.FieldCountError{Actual: len(d.Elements), Expected: len(fields)}
	}
	c := &tupleCodec{fields: fields}
	// tuple members are positional - names carry no meaning on the wire
	for i := range c.fields {
		f := &c.fields[i]
		cd, err := buildCodec(dcx, d.Elements[i], t.Field(f.index).Type, f.jsonMode)
		if err != nil {
			return nil, err
		}
		f.codec = cd
	}
	return c, nil
}

func buildNamedTupleCodec(dcx *DecodeContext, d *protocol.NamedTupleDescriptor, t reflect.Type) (codec, error) {
	fields, err := reflectFields(t)
	if err != nil {
		return nil, err
	}
	if len(d.Elements) != len(fields) {
		return nil, &protocol.FieldCountError{Actual: len(d.Elements), Expected: len(fields)}
	}
	c := &tupleCodec{fields: fields}
	for i := range c.fields {
		f := &c.fields[i]
		if el := d.Elements[i]; el.Name != f.name {
			return nil, &protocol.WrongFieldError{Unexpected: el.Name, Expected: f.name}
		}
		cd, err := buildCodec(dcx, d.Elements[i].TypePos, t.Field(f.index).Type, f.jsonMode)
		if err != nil {
			return nil, err
		}
		f.codec = cd
	}
	return c, nil
}

func (c *tupleCodec) decode(p []byte, v reflect.Value) error {
	r, err := encoding.OpenTuple(p, len(c.fields))
	if err != nil {
		return err
	}
	for i := range c.fields {
		f := &c.fields[i]
		elem, present, err := r.Read()
		if err != nil {
			return err
		}
		fv := v.Field(f.index)
		if !present {
			if !f.optional {
				return &protocol.MissingRequiredFieldError{Field: f.name}
			}
			fv.SetZero()
			continue
		}
		if err := f.codec.decode(elem, fv); err != nil {
			return err
		}
	}
	return r.Finish()
}

// slice targets

type sliceCodec struct {
	typ      reflect.Type
	elem     codec
	optional bool
}

func buildSliceCodec(dcx *DecodeContext, pos protocol.TypePos, t reflect.Type) (codec, error) {
	desc, err := dcx.catalog.Get(pos)
	if err != nil {
		return nil, err
	}
	var elemPos protocol.TypePos
	switch d := desc.(type) {
	case *protocol.ArrayDescriptor:
		elemPos = d.Elem
	case *protocol.SetDescriptor:
		elemPos = d.Elem
	default:
		return nil, &protocol.WrongTypeError{Pos: pos, Got: protocol.Describe(desc), Want: protocol.DkArray.String()}
	}
	elem, err := buildCodec(dcx, elemPos, t.Elem(), false)
	if err != nil {
		return nil, err
	}
	return &sliceCodec{typ: t, elem: elem, optional: t.Elem().Kind() == reflect.Pointer}, nil
}

func (c *sliceCodec) decode(p []byte, v reflect.Value) error {
	r, count, err := openArrayBody(p)
	if err != nil {
		return err
	}
	out := reflect.MakeSlice(c.typ, count, count)
	for i := 0; i < count; i++ {
		elem, present, err := r.Read()
		if err != nil {
			return err
		}
		if !present {
			if !c.optional {
				return &protocol.MissingRequiredFieldError{Field: fmt.Sprintf("[%d]", i)}
			}
			continue
		}
		if err := c.elem.decode(elem, out.Index(i)); err != nil {
			return err
		}
	}
	if err := r.Finish(); err != nil {
		return err
	}
	v.Set(out)
	return nil
}

// openArrayBody parses the dimension header of an array or set body and
// returns a reader over its elements.
func openArrayBody(p []byte) (*encoding.TupleReader, int, error) {
	d := encoding.NewDecoder(p)
	ndims := int(d.Int32())
	d.Skip(8) // flags + reserved
	if err := d.Error(); err != nil {
		return nil, 0, err
	}
	switch ndims {
	case 0:
		return encoding.OpenElements(d, 0), 0, nil
	case 1:
		// header continues below
	default:
		return nil, 0, &protocol.MalformedScalarError{Type: "array", Reason: fmt.Sprintf("%d dimensions, at most one expected", ndims)}
	}
	upper := int(d.Int32())
	lower := int(d.Int32())
	if err := d.Error(); err != nil {
		return nil, 0, err
	}
	count := upper - lower + 1
	if count < 0 {
		return nil, 0, &protocol.MalformedScalarError{Type: "array", Reason: fmt.Sprintf("invalid bounds [%d, %d]", lower, upper)}
	}
	// Each element carries at least a 4 byte length word, bounding the
	// count a buffer of this size can declare. Checked before any
	// count-sized allocation.
	if limit := d.Remaining() / 4; count > limit {
		return nil, 0, fmt.Errorf("%d elements declared, buffer holds at most %d: %w", count, limit, encoding.ErrUnderflow)
	}
	return encoding.OpenElements(d, count), count, nil
}

// queryable escape hatch

type queryableCodec struct {
	dcx *DecodeContext
}

func buildQueryableCodec(dcx *DecodeContext, pos protocol.TypePos, t reflect.Type) (codec, error) {
	if checker, ok := reflect.New(t).Interface().(ShapeChecker); ok {
		if err := checker.CheckShape(dcx, pos); err != nil {
			return nil, err
		}
	}
	return &queryableCodec{dcx: dcx}, nil
}

func (c *queryableCodec) decode(p []byte, v reflect.Value) error {
	return v.Addr().Interface().(Queryable).DecodeGel(c.dcx, p)
}

// json wrapped mode

type jsonCodec struct {
	typ reflect.Type
}

func (c *jsonCodec) decode(p []byte, v reflect.Value) error {
	body, err := JSONBody(p)
	if err != nil {
		return err
	}
	if c.typ == rawMessageType {
		v.SetBytes(append([]byte(nil), body...))
		return nil
	}
	// The json transport shares the failure taxonomy of the binary path:
	// a required target field missing from the document is reported as
	// MissingRequiredFieldError, not as a zero value.
	if c.typ.Kind() == reflect.Struct && c.typ != timeType {
		if err := checkJSONRequired(c.typ, body); err != nil {
			return err
		}
	}
	nv := reflect.New(c.typ)
	if err := json.Unmarshal(body, nv.Interface()); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}
	v.Set(nv.Elem())
	return nil
}

func checkJSONRequired(t reflect.Type, body []byte) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(body, &keys); err != nil {
		// not an object document - leave it to the target unmarshal
		return nil //nolint: nilerr
	}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" { // unexported
			continue
		}
		if sf.Type.Kind() == reflect.Pointer { // optional
			continue
		}
		gelName, _, _ := strings.Cut(sf.Tag.Get("gel"), ",")
		if gelName == "-" {
			continue
		}
		if gelName == "" {
			gelName = strings.ToLower(sf.Name)
		}
		// the unmarshal below matches on the json tag when present, the
		// field name otherwise - both case-insensitively
		key, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		switch key {
		case "-":
			continue
		case "":
			key = sf.Name
		}
		if !hasJSONKey(keys, key) {
			return &protocol.MissingRequiredFieldError{Field: gelName}
		}
	}
	return nil
}

func hasJSONKey(keys map[string]json.RawMessage, key string) bool {
	if _, ok := keys[key]; ok {
		return true
	}
	for k := range keys {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}
