// Package coroutines holds the pausable CalDAV workflow state machines: each
// type's Resume method advances one step, either returning a finished result
// or an I/O effect for the caller to fulfill and feed back into the next
// Resume call. None of these types open a connection or own a socket.
package coroutines

import (
	"fmt"

	"github.com/iocoro/caldav/internal/httpwire"
	"github.com/iocoro/caldav/ioeffect"
)

// Decode turns a response body into T, or reports why it couldn't.
type Decode[T any] func(body []byte) (T, error)

// SendOk is the successful, terminal outcome of a Send[T].
type SendOk[T any] struct {
	Response  *httpwire.Response
	KeepAlive bool
	Body      T
}

// SendResult is returned by Send[T].Resume.
type SendResult[T any] struct {
	Io  *ioeffect.StreamIo
	Ok  *SendOk[T]
	Err error
}

// Send drives a single HTTP/1.1 request/response exchange and decodes the
// response body with decode once the exchange completes successfully.
type Send[T any] struct {
	send   *httpwire.SendHTTP
	decode Decode[T]
}

// NewSend builds a Send ready to drive via Resume(nil).
func NewSend[T any](req httpwire.Request, decode Decode[T]) *Send[T] {
	return &Send[T]{send: httpwire.NewSendHTTP(req), decode: decode}
}

// Resume advances the exchange.
func (s *Send[T]) Resume(arg *ioeffect.StreamIoResult) SendResult[T] {
	result := s.send.Resume(arg)
	if result.Err != nil {
		return SendResult[T]{Err: result.Err}
	}
	if result.Io != nil {
		return SendResult[T]{Io: result.Io}
	}

	resp := result.Response
	if !httpwire.StatusIsSuccess(resp.StatusCode) {
		return SendResult[T]{Err: fmt.Errorf("caldav: http response error %d %s: %s", resp.StatusCode, resp.Reason, string(resp.Body))}
	}

	body, err := s.decode(resp.Body)
	if err != nil {
		return SendResult[T]{Err: err}
	}

	return SendResult[T]{Ok: &SendOk[T]{Response: resp, KeepAlive: resp.KeepAlive, Body: body}}
}

// Empty is the decode target for requests whose response body carries no
// useful payload (PUT, MKCOL on success).
type Empty struct{}

// DecodeEmpty is a Decode[Empty] that ignores the body entirely.
func DecodeEmpty(body []byte) (Empty, error) {
	return Empty{}, nil
}

// DecodeRaw is a Decode[[]byte] that returns the body unparsed, used by
// ReadCalendarItem.
func DecodeRaw(body []byte) ([]byte, error) {
	return body, nil
}
