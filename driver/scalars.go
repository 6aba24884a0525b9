// SPDX-FileCopyrightText: 2024-2026 the go-gel authors
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/gel-contrib/go-gel/driver/internal/protocol"
	"github.com/gel-contrib/go-gel/driver/internal/protocol/encoding"
)

// jsonFormatVersion is the single supported version byte of the json wrapped
// sub-format. Unknown version bytes are rejected outright, the trailing text
// is never parsed speculatively.
const jsonFormatVersion = 1

// datetimeEpoch is the zero point of the std::datetime encoding
// (microseconds since 2000-01-01T00:00:00 UTC).
var datetimeEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

func fixedSize(typ string, p []byte, size int) error {
	if len(p) != size {
		return &protocol.MalformedScalarError{Type: typ, Reason: fmt.Sprintf("%d bytes expected, got %d", size, len(p))}
	}
	return nil
}

// DecodeBool decodes a std::bool element payload.
func DecodeBool(p []byte) (bool, error) {
	if err := fixedSize("std::bool", p, 1); err != nil {
		return false, err
	}
	if p[0] > 1 {
		return false, &protocol.MalformedScalarError{Type: "std::bool", Reason: fmt.Sprintf("invalid value %d", p[0])}
	}
	return p[0] != 0, nil
}

// DecodeInt16 decodes a std::int16 element payload.
func DecodeInt16(p []byte) (int16, error) {
	if err := fixedSize("std::int16", p, 2); err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(p)), nil //nolint: gosec
}

// DecodeInt32 decodes a std::int32 element payload.
func DecodeInt32(p []byte) (int32, error) {
	if err := fixedSize("std::int32", p, 4); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(p)), nil //nolint: gosec
}

// DecodeInt64 decodes a std::int64 element payload.
func DecodeInt64(p []byte) (int64, error) {
	if err := fixedSize("std::int64", p, 8); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(p)), nil //nolint: gosec
}

// DecodeFloat32 decodes a std::float32 element payload.
func DecodeFloat32(p []byte) (float32, error) {
	if err := fixedSize("std::float32", p, 4); err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(p)), nil
}

// DecodeFloat64 decodes a std::float64 element payload.
func DecodeFloat64(p []byte) (float64, error) {
	if err := fixedSize("std::float64", p, 8); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(p)), nil
}

// DecodeString decodes a std::str element payload, validating the UTF-8
// encoding.
func DecodeString(p []byte) (string, error) {
	s, err := encoding.UTF8String(p)
	if err != nil {
		return "", &protocol.MalformedScalarError{Type: "std::str", Reason: "invalid utf-8"}
	}
	return s, nil
}

// DecodeBytes decodes a std::bytes element payload. The result does not alias
// the row buffer.
func DecodeBytes(p []byte) ([]byte, error) {
	return append([]byte(nil), p...), nil
}

// DecodeUUID decodes a std::uuid element payload.
func DecodeUUID(p []byte) (uuid.UUID, error) {
	if err := fixedSize("std::uuid", p, 16); err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.FromBytes(p)
	if err != nil {
		return uuid.Nil, &protocol.MalformedScalarError{Type: "std::uuid", Reason: err.Error()}
	}
	return id, nil
}

// DecodeDatetime decodes a std::datetime element payload.
func DecodeDatetime(p []byte) (time.Time, error) {
	if err := fixedSize("std::datetime", p, 8); err != nil {
		return time.Time{}, err
	}
	micros := int64(binary.BigEndian.Uint64(p)) //nolint: gosec
	return datetimeEpoch.Add(time.Duration(micros) * time.Microsecond), nil
}

// DecodeDuration decodes a std::duration element payload. The day and month
// words are reserved and must be zero.
func DecodeDuration(p []byte) (time.Duration, error) {
	if err := fixedSize("std::duration", p, 16); err != nil {
		return 0, err
	}
	micros := int64(binary.BigEndian.Uint64(p)) //nolint: gosec
	days := int32(binary.BigEndian.Uint32(p[8:]))    //nolint: gosec
	months := int32(binary.BigEndian.Uint32(p[12:])) //nolint: gosec
	if days != 0 || months != 0 {
		return 0, &protocol.MalformedScalarError{Type: "std::duration", Reason: "reserved day and month fields not zero"}
	}
	return time.Duration(micros) * time.Microsecond, nil
}

// JSONBody validates the version byte of a json wrapped element and returns
// the raw JSON text.
func JSONBody(p []byte) ([]byte, error) {
	if len(p) == 0 {
		return nil, &protocol.MalformedScalarError{Type: "std::json", Reason: "empty payload"}
	}
	if p[0] != jsonFormatVersion {
		return nil, &protocol.JSONFormatError{Version: p[0]}
	}
	return p[1:], nil
}

// DecodeJSON decodes a json wrapped element payload into v.
func DecodeJSON(p []byte, v any) error {
	body, err := JSONBody(p)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}
	return nil
}
