// SPDX-FileCopyrightText: 2024-2026 the go-gel authors
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"flag"
	"fmt"

	"github.com/gel-contrib/go-gel/driver/internal/trace"
)

var protocolTrace = trace.New("gel protocol")

var protocolTraceFlag = trace.NewFlag(protocolTrace)

func init() {
	flag.Var(protocolTraceFlag, "gel.protocol.trace", "enabling gel protocol trace")
}

const (
	upStreamPrefix   = "→"
	downStreamPrefix = "←"
)

func streamPrefix(upStream bool) string {
	if upStream {
		return upStreamPrefix
	}
	return downStreamPrefix
}

// TraceMessage writes one protocol message header to the protocol trace.
func TraceMessage(up bool, mt MessageType, length int) {
	if !protocolTrace.On() {
		return
	}
	protocolTrace.Output(2, fmt.Sprintf("%sMSG %s length %d", streamPrefix(up), mt, length))
}
