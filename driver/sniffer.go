// SPDX-FileCopyrightText: 2024-2026 the go-gel authors
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/google/uuid"

	p "github.com/gel-contrib/go-gel/driver/internal/protocol"
	"github.com/gel-contrib/go-gel/driver/internal/protocol/encoding"
)

// A Sniffer is a simple proxy for logging gel protocol requests and
// responses. On a command data description message it parses and dumps the
// descriptor catalog; row payloads are reported by size only.
type Sniffer struct {
	logger *slog.Logger
	conn   net.Conn
	dbConn net.Conn
}

// NewSniffer creates a new sniffer instance. The conn parameter is the
// net.Conn connection the Sniffer is listening on for gel protocol calls,
// dbConn the connection to the database server.
func NewSniffer(conn, dbConn net.Conn) *Sniffer {
	return &Sniffer{
		logger: slog.Default().With(slog.String("conn", conn.RemoteAddr().String())),
		conn:   conn,
		dbConn: dbConn,
	}
}

func pipeData(wg *sync.WaitGroup, conn, dbConn net.Conn, wr io.WriteCloser) {
	defer wg.Done()
	defer wr.Close()

	mwr := io.MultiWriter(dbConn, wr)
	trd := io.TeeReader(conn, mwr)
	buf := make([]byte, 4096)

	var err error
	for err == nil {
		_, err = trd.Read(buf)
	}
}

func readMessage(rd io.Reader) (p.MessageType, []byte, error) {
	var hdr [5]byte
	if _, err := io.ReadFull(rd, hdr[:]); err != nil {
		return 0, nil, err
	}
	mt := p.MessageType(hdr[0])
	length := binary.BigEndian.Uint32(hdr[1:]) // includes itself
	if length < 4 {
		return 0, nil, fmt.Errorf("sniffer: invalid message length %d", length)
	}
	payload := make([]byte, length-4)
	if _, err := io.ReadFull(rd, payload); err != nil {
		return 0, nil, err
	}
	return mt, payload, nil
}

func (s *Sniffer) logMessages(wg *sync.WaitGroup, rd io.Reader, up bool) {
	defer wg.Done()

	dir := "server→client"
	if up {
		dir = "client→server"
	}
	for {
		mt, payload, err := readMessage(rd)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrClosedPipe) {
				s.logger.Error("sniffer read", "error", err)
			}
			return
		}
		p.TraceMessage(up, mt, len(payload))
		s.logger.Info("message", slog.String("dir", dir), slog.String("type", mt.String()), slog.Int("length", len(payload)))
		if up {
			continue
		}
		switch mt {
		case p.MtCommandDataDescription:
			s.logDataDescription(payload)
		case p.MtData:
			s.logData(payload)
		}
	}
}

func (s *Sniffer) logDataDescription(payload []byte) {
	dec := encoding.NewDecoder(payload)
	for n := int(dec.Uint16()); n > 0; n-- { // annotations
		dec.Skip(int(dec.Uint32()))
		dec.Skip(int(dec.Uint32()))
	}
	dec.Uint64() // capabilities
	cardinality := p.Cardinality(dec.Byte())
	dec.Skip(16)                       // input descriptor id
	dec.Skip(int(dec.Uint32()))        // input descriptor data
	outID, _ := uuid.FromBytes(dec.Bytes(16)) //nolint: errcheck
	blob := dec.Bytes(int(dec.Uint32()))
	if err := dec.Error(); err != nil {
		s.logger.Error("sniffer data description", "error", err)
		return
	}
	cat, err := p.ParseCatalog(blob)
	if err != nil {
		s.logger.Error("sniffer catalog", "error", err)
		return
	}
	s.logger.Info("command data description",
		slog.String("cardinality", cardinality.String()),
		slog.String("output", outID.String()),
		slog.Int("descriptors", cat.Len()),
	)
	for pos := 0; pos < cat.Len(); pos++ {
		desc, err := cat.Get(p.TypePos(pos)) //nolint: gosec
		if err != nil {
			return
		}
		s.logger.Info("descriptor", slog.Int("pos", pos), slog.String("kind", desc.Kind().String()), slog.String("id", desc.ID().String()))
	}
}

func (s *Sniffer) logData(payload []byte) {
	dec := encoding.NewDecoder(payload)
	count := int(dec.Uint16())
	sizes := make([]int, 0, count)
	for i := 0; i < count; i++ {
		size := int(dec.Uint32())
		dec.Skip(size)
		sizes = append(sizes, size)
	}
	if err := dec.Error(); err != nil {
		s.logger.Error("sniffer data", "error", err)
		return
	}
	s.logger.Info("data", slog.Int("rows", count), slog.Any("sizes", sizes))
}

// Run starts the protocol request and response logging.
func (s *Sniffer) Run() error {
	clientRd, clientWr := io.Pipe()
	dbRd, dbWr := io.Pipe()

	wg := &sync.WaitGroup{}
	wg.Add(4)
	go pipeData(wg, s.conn, s.dbConn, clientWr)
	go pipeData(wg, s.dbConn, s.conn, dbWr)
	go s.logMessages(wg, clientRd, true)
	go s.logMessages(wg, dbRd, false)
	wg.Wait()

	s.logger.Info("end run")
	return nil
}
