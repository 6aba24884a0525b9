// SPDX-FileCopyrightText: 2024-2026 the go-gel authors
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"errors"
	"testing"
	"time"
)

func testScalarBool(t *testing.T) {
	if v, err := DecodeBool([]byte{1}); err != nil || !v {
		t.Fatalf("value %t error %v - expected true", v, err)
	}
	if v, err := DecodeBool([]byte{0}); err != nil || v {
		t.Fatalf("value %t error %v - expected false", v, err)
	}

	var scalarErr *MalformedScalarError
	if _, err := DecodeBool([]byte{2}); !errors.As(err, &scalarErr) {
		t.Fatalf("error %v - expected MalformedScalarError", err)
	}
	if _, err := DecodeBool([]byte{0, 1}); !errors.As(err, &scalarErr) {
		t.Fatalf("error %v - expected MalformedScalarError", err)
	}
}

func testScalarInts(t *testing.T) {
	if v, err := DecodeInt16(int16Payload(-32768)); err != nil || v != -32768 {
		t.Fatalf("value %d error %v - expected -32768", v, err)
	}
	if v, err := DecodeInt32(int32Payload(1 << 30)); err != nil || v != 1<<30 {
		t.Fatalf("value %d error %v - expected %d", v, err, 1<<30)
	}
	if v, err := DecodeInt64(int64Payload(-1)); err != nil || v != -1 {
		t.Fatalf("value %d error %v - expected -1", v, err)
	}

	var scalarErr *MalformedScalarError
	if _, err := DecodeInt64(int32Payload(1)); !errors.As(err, &scalarErr) {
		t.Fatalf("error %v - expected MalformedScalarError", err)
	}
	if scalarErr.Type != "std::int64" {
		t.Fatalf("type %q - expected %q", scalarErr.Type, "std::int64")
	}
}

func testScalarString(t *testing.T) {
	if s, err := DecodeString([]byte("grüße")); err != nil || s != "grüße" {
		t.Fatalf("value %q error %v - expected %q", s, err, "grüße")
	}
	if s, err := DecodeString(nil); err != nil || s != "" {
		t.Fatalf("value %q error %v - expected empty string", s, err)
	}

	var scalarErr *MalformedScalarError
	if _, err := DecodeString([]byte{0xff, 0xfe}); !errors.As(err, &scalarErr) {
		t.Fatalf("error %v - expected MalformedScalarError", err)
	}
}

func testScalarBytes(t *testing.T) {
	p := []byte{1, 2, 3}
	b, err := DecodeBytes(p)
	if err != nil {
		t.Fatal(err)
	}
	p[0] = 9
	if b[0] != 1 {
		t.Fatal("decoded bytes alias the row buffer")
	}
}

func testScalarDatetime(t *testing.T) {
	v, err := DecodeDatetime(datetimePayload(0))
	if err != nil {
		t.Fatal(err)
	}
	epoch := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	if !v.Equal(epoch) {
		t.Fatalf("value %s - expected %s", v, epoch)
	}

	v, err = DecodeDatetime(datetimePayload(-1_000_000))
	if err != nil {
		t.Fatal(err)
	}
	if !v.Equal(epoch.Add(-time.Second)) {
		t.Fatalf("value %s - expected one second before the epoch", v)
	}
}

func testScalarDuration(t *testing.T) {
	v, err := DecodeDuration(durationPayload(1_000_000, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if v != time.Second {
		t.Fatalf("value %s - expected 1s", v)
	}

	var scalarErr *MalformedScalarError
	if _, err := DecodeDuration(durationPayload(0, 1, 0)); !errors.As(err, &scalarErr) {
		t.Fatalf("error %v - expected MalformedScalarError for non zero day field", err)
	}
	if _, err := DecodeDuration(durationPayload(0, 0, 2)); !errors.As(err, &scalarErr) {
		t.Fatalf("error %v - expected MalformedScalarError for non zero month field", err)
	}
	if _, err := DecodeDuration(int64Payload(0)); !errors.As(err, &scalarErr) {
		t.Fatalf("error %v - expected MalformedScalarError for short payload", err)
	}
}

func testScalarJSON(t *testing.T) {
	var v struct {
		A int64
	}
	if err := DecodeJSON(jsonPayload(`{"a": 7}`), &v); err != nil {
		t.Fatal(err)
	}
	if v.A != 7 {
		t.Fatalf("value %d - expected 7", v.A)
	}

	var formatErr *JSONFormatError
	if err := DecodeJSON(append([]byte{0}, `{}`...), &v); !errors.As(err, &formatErr) {
		t.Fatalf("error %v - expected JSONFormatError", err)
	}
	if err := DecodeJSON(jsonPayload(`{`), &v); err == nil {
		t.Fatal("error expected for malformed json document")
	}
}

func TestScalarDecode(t *testing.T) {
	tests := []struct {
		name string
		fct  func(t *testing.T)
	}{
		{"bool", testScalarBool},
		{"ints", testScalarInts},
		{"string", testScalarString},
		{"bytes", testScalarBytes},
		{"datetime", testScalarDatetime},
		{"duration", testScalarDuration},
		{"json", testScalarJSON},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			test.fct(t)
		})
	}
}
