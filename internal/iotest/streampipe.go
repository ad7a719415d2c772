// Package iotest holds synchronous effect drivers used only by tests: they
// fulfill ioeffect.StreamIo/FsIo requests against an in-process byte pipe or
// an in-memory tree, standing in for a real blocking or async driver.
package iotest

import (
	"io"
	"net"
	"time"

	"github.com/iocoro/caldav/ioeffect"
)

// StreamPipe fulfills StreamIo requests against an in-process net.Pipe, so a
// workflow state machine can be driven end-to-end without a real socket. The
// test owns the other end (Server) and plays the role of the remote peer.
type StreamPipe struct {
	Client net.Conn
	Server net.Conn
}

// NewStreamPipe returns a connected pair.
func NewStreamPipe() *StreamPipe {
	client, server := net.Pipe()
	return &StreamPipe{Client: client, Server: server}
}

// Fulfill performs req against the client end and returns the result to feed
// into the state machine's next Resume call.
func (p *StreamPipe) Fulfill(req ioeffect.StreamIo) ioeffect.StreamIoResult {
	switch req.Op {
	case ioeffect.StreamWrite:
		n, err := p.Client.Write(req.Write)
		return ioeffect.StreamIoResult{Op: req.Op, Data: req.Write[:n], Err: err}

	case ioeffect.StreamRead:
		buf := make([]byte, req.Hint)
		p.Client.SetReadDeadline(time.Now().Add(5 * time.Second))
		n, err := p.Client.Read(buf)
		if err == io.EOF {
			return ioeffect.StreamIoResult{Op: req.Op}
		}
		return ioeffect.StreamIoResult{Op: req.Op, Data: buf[:n], Err: err}

	case ioeffect.StreamClose:
		return ioeffect.StreamIoResult{Op: req.Op, Err: p.Client.Close()}

	case ioeffect.StreamConnect:
		// The pipe is already connected; a fresh StreamPipe stands in for a
		// reconnect after a Reset.
		return ioeffect.StreamIoResult{Op: req.Op}

	default:
		return ioeffect.StreamIoResult{Op: req.Op, Err: io.ErrClosedPipe}
	}
}

// Close closes both ends.
func (p *StreamPipe) Close() {
	p.Client.Close()
	p.Server.Close()
}
