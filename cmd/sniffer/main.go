// SPDX-FileCopyrightText: 2024-2026 the go-gel authors
//
// SPDX-License-Identifier: Apache-2.0

// Sniffer is a gel network protocol analyzer: a logging proxy between a gel
// client and the database server, dumping message framing and the descriptor
// catalogs of command data description messages.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"

	"github.com/gel-contrib/go-gel/driver"
)

const (
	defaultAddr   = "localhost:5657"
	defaultDBAddr = "localhost:5656"
)

type addrValue struct {
	addr string
}

func (v *addrValue) String() string  { return v.addr }
func (v *addrValue) Network() string { return "tcp" }
func (v *addrValue) Set(s string) error {
	if _, _, err := net.SplitHostPort(s); err != nil {
		return err
	}
	v.addr = s
	return nil
}

func cli() (addr, dbAddr net.Addr) {
	const usageText = `
%[1]s is a gel network protocol analyzer. It lets you see whats happening
on protocol level connecting a client to the database server.

Usage of %[1]s:
`
	a := &addrValue{addr: defaultAddr}
	dba := &addrValue{addr: defaultDBAddr}

	args := flag.NewFlagSet("", flag.ExitOnError)
	args.Usage = func() {
		fmt.Fprintf(args.Output(), usageText, os.Args[0])
		args.PrintDefaults()
	}
	args.Var(a, "s", "<host:port>: Sniffer address to accept connections. (required)")
	args.Var(dba, "db", "<host:port>: Database address to connect to. (required)")

	args.Parse(os.Args[1:]) //nolint: errcheck

	return a, dba
}

func handler(conn net.Conn, dbAddr net.Addr) {
	defer conn.Close()

	dbConn, err := net.Dial(dbAddr.Network(), dbAddr.String())
	if err != nil {
		log.Printf("database connection error: %s", err)
		return
	}
	defer dbConn.Close()

	switch err := driver.NewSniffer(conn, dbConn).Run(); {
	case err == nil:
		return
	case errors.Is(err, io.EOF):
		log.Printf("client connection closed - local address %s - remote address %s",
			conn.LocalAddr().String(),
			conn.RemoteAddr().String(),
		)
	default:
		log.Printf("sniffer protocol error: %s - close connection - local address %s - remote address %s",
			err,
			conn.LocalAddr().String(),
			conn.RemoteAddr().String(),
		)
	}
}

func main() {
	addr, dbAddr := cli()

	log.Printf("listening on %s (database address %s)", addr.String(), dbAddr.String())

	l, err := net.Listen(addr.Network(), addr.String())
	if err != nil {
		log.Fatal(err)
	}
	defer l.Close()

	for {
		conn, err := l.Accept()
		if err != nil {
			log.Fatal(err)
		}
		go handler(conn, dbAddr)
	}
}
