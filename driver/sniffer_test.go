// SPDX-FileCopyrightText: 2024-2026 the go-gel authors
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/gel-contrib/go-gel/driver/internal/protocol"
	"github.com/gel-contrib/go-gel/driver/internal/protocol/encoding"
)

func TestReadMessage(t *testing.T) {
	enc := encoding.NewEncoder()
	enc.Byte(byte(protocol.MtData))
	enc.Uint32(4 + 2) // length includes itself
	enc.Uint16(1)

	mt, payload, err := readMessage(bytes.NewReader(enc.Data()))
	if err != nil {
		t.Fatal(err)
	}
	if mt != protocol.MtData {
		t.Fatalf("message type %s - expected %s", mt, protocol.MtData)
	}
	if len(payload) != 2 {
		t.Fatalf("payload length %d - expected 2", len(payload))
	}

	if _, _, err := readMessage(bytes.NewReader(nil)); !errors.Is(err, io.EOF) {
		t.Fatalf("error %v - expected %v", err, io.EOF)
	}

	// truncated payload
	if _, _, err := readMessage(bytes.NewReader(enc.Data()[:6])); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("error %v - expected %v", err, io.ErrUnexpectedEOF)
	}

	// length smaller than its own size
	bad := encoding.NewEncoder()
	bad.Byte(byte(protocol.MtData))
	bad.Uint32(3)
	if _, _, err := readMessage(bytes.NewReader(bad.Data())); err == nil {
		t.Fatal("error expected for invalid message length")
	}
}
