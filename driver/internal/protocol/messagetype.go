// SPDX-FileCopyrightText: 2024-2026 the go-gel authors
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import "fmt"

// MessageType identifies a protocol message. Messages are framed as one
// message type byte plus a uint32 length (including itself) plus payload.
type MessageType byte

// Server message types.
const (
	MtServerHandshake        MessageType = 'v'
	MtAuthentication         MessageType = 'R'
	MtServerKeyData          MessageType = 'K'
	MtParameterStatus        MessageType = 'S'
	MtCommandDataDescription MessageType = 'T'
	MtData                   MessageType = 'D'
	MtCommandComplete        MessageType = 'C'
	MtReadyForCommand        MessageType = 'Z'
	MtErrorResponse          MessageType = 'E'
	MtLogMessage             MessageType = 'L'
)

// Client message types.
const (
	MtClientHandshake MessageType = 'V'
	MtParse           MessageType = 'P'
	MtExecute         MessageType = 'O'
	MtTerminate       MessageType = 'X'
)

var messageTypeText = map[MessageType]string{
	MtServerHandshake:        "serverHandshake",
	MtAuthentication:         "authentication",
	MtServerKeyData:          "serverKeyData",
	MtParameterStatus:        "parameterStatus",
	MtCommandDataDescription: "commandDataDescription",
	MtData:                   "data",
	MtCommandComplete:        "commandComplete",
	MtReadyForCommand:        "readyForCommand",
	MtErrorResponse:          "errorResponse",
	MtLogMessage:             "logMessage",
	MtClientHandshake:        "clientHandshake",
	MtParse:                  "parse",
	MtExecute:                "execute",
	MtTerminate:              "terminate",
}

func (mt MessageType) String() string {
	if text, ok := messageTypeText[mt]; ok {
		return text
	}
	return fmt.Sprintf("MessageType(%c)", byte(mt))
}
