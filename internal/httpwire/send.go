package httpwire

import (
	"bytes"
	"fmt"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/iocoro/caldav/ioeffect"
)

type sendStep int

const (
	stepWrite sendStep = iota
	stepReadHeaders
	stepReadBody
	stepDone
)

// SendHTTP is a pausable HTTP/1.1 request/response exchange over a single
// connection. Construct with NewSendHTTP, then call Resume repeatedly,
// passing nil the first time and the caller's fulfillment of the previously
// returned effect on every subsequent call, until it returns a Result
// carrying Response, Err, or a terminal state.
type SendHTTP struct {
	step sendStep

	wire []byte // serialized request, pending write
	sent int    // bytes of wire already acknowledged written

	raw           []byte // accumulated bytes read from the connection
	headerEnd     int    // index of the blank line terminating headers, -1 until found
	resp          Response
	contentLength int
	haveLength    bool
	chunked       bool
	bodyStart     int // offset into raw where the body begins
}

// NewSendHTTP serializes req and returns a SendHTTP ready to drive.
func NewSendHTTP(req Request) *SendHTTP {
	return &SendHTTP{
		step: stepWrite,
		wire: serializeRequest(req),
	}
}

// SendHTTPResult is the outcome of one Resume call.
type SendHTTPResult struct {
	// Io is set when the codec needs a stream effect performed; the caller
	// fulfills it and passes the result into the next Resume call.
	Io *ioeffect.StreamIo

	// Response is set once the exchange completes successfully.
	Response *Response

	// Err is set on a framing or transport failure. Terminal: Resume must
	// not be called again.
	Err error
}

func serializeRequest(req Request) []byte {
	var buf bytes.Buffer
	target := req.URI.RequestURI()
	fmt.Fprintf(&buf, "%s %s HTTP/1.1\r\n", req.Method, target)
	for key, values := range req.Headers {
		for _, v := range values {
			fmt.Fprintf(&buf, "%s: %s\r\n", key, v)
		}
	}
	if req.Headers.Get("Content-Length") == "" {
		fmt.Fprintf(&buf, "Content-Length: %d\r\n", len(req.Body))
	}
	buf.WriteString("\r\n")
	buf.Write(req.Body)
	return buf.Bytes()
}

// Resume advances the exchange. arg is nil on the very first call.
func (s *SendHTTP) Resume(arg *ioeffect.StreamIoResult) SendHTTPResult {
	if arg != nil && arg.Err != nil {
		s.step = stepDone
		return SendHTTPResult{Err: fmt.Errorf("httpwire: stream error: %w", arg.Err)}
	}

	switch s.step {
	case stepWrite:
		if arg != nil {
			s.sent += len(arg.Data)
			if s.sent >= len(s.wire) {
				s.step = stepReadHeaders
				s.headerEnd = -1
				return s.wantRead()
			}
		}
		return SendHTTPResult{Io: &ioeffect.StreamIo{Op: ioeffect.StreamWrite, Write: s.wire[s.sent:]}}

	case stepReadHeaders:
		if arg != nil {
			if len(arg.Data) == 0 {
				s.step = stepDone
				return SendHTTPResult{Err: fmt.Errorf("httpwire: connection closed before headers completed")}
			}
			s.raw = append(s.raw, arg.Data...)
		}

		if idx := bytes.Index(s.raw, []byte("\r\n\r\n")); idx >= 0 {
			s.headerEnd = idx
			if err := s.parseHeaders(); err != nil {
				s.step = stepDone
				return SendHTTPResult{Err: err}
			}
			s.bodyStart = s.headerEnd + 4
			s.step = stepReadBody
			return s.tryFinishBody()
		}

		return s.wantRead()

	case stepReadBody:
		if arg != nil {
			if len(arg.Data) == 0 && s.chunked {
				s.step = stepDone
				return SendHTTPResult{Err: fmt.Errorf("httpwire: connection closed mid-chunked-body")}
			}
			s.raw = append(s.raw, arg.Data...)
		}
		return s.tryFinishBody()

	default:
		panic("httpwire: SendHTTP.Resume called after completion")
	}
}

func (s *SendHTTP) wantRead() SendHTTPResult {
	return SendHTTPResult{Io: &ioeffect.StreamIo{Op: ioeffect.StreamRead, Hint: 4096}}
}

func (s *SendHTTP) parseHeaders() error {
	reader := textproto.NewReader(bufioReader(s.raw[:s.headerEnd+2]))

	statusLine, err := reader.ReadLine()
	if err != nil {
		return fmt.Errorf("httpwire: reading status line: %w", err)
	}
	parts := strings.SplitN(statusLine, " ", 3)
	if len(parts) < 2 {
		return fmt.Errorf("httpwire: malformed status line %q", statusLine)
	}
	code, err := strconv.Atoi(parts[1])
	if err != nil {
		return fmt.Errorf("httpwire: malformed status code %q: %w", parts[1], err)
	}
	reason := ""
	if len(parts) == 3 {
		reason = parts[2]
	}

	mimeHeader, err := reader.ReadMIMEHeader()
	if err != nil && mimeHeader == nil {
		return fmt.Errorf("httpwire: reading headers: %w", err)
	}

	s.resp = Response{
		StatusCode: code,
		Reason:     reason,
		Headers:    http.Header(mimeHeader),
	}

	if cl := s.resp.Headers.Get("Content-Length"); cl != "" {
		n, err := strconv.Atoi(cl)
		if err != nil {
			return fmt.Errorf("httpwire: malformed Content-Length %q: %w", cl, err)
		}
		s.contentLength = n
		s.haveLength = true
	}
	s.chunked = strings.Contains(strings.ToLower(s.resp.Headers.Get("Transfer-Encoding")), "chunked")

	s.resp.KeepAlive = !strings.EqualFold(s.resp.Headers.Get("Connection"), "close")

	return nil
}

// tryFinishBody checks whether the body accumulated in raw[bodyStart:] is
// complete, returning the finished result or requesting more bytes.
func (s *SendHTTP) tryFinishBody() SendHTTPResult {
	bodyBuf := s.raw[s.bodyStart:]

	switch {
	case s.chunked:
		decoded, complete, err := decodeChunked(bodyBuf)
		if err != nil {
			s.step = stepDone
			return SendHTTPResult{Err: fmt.Errorf("httpwire: chunked body: %w", err)}
		}
		if !complete {
			return s.wantRead()
		}
		s.resp.Body = decoded
		s.step = stepDone
		resp := s.resp
		return SendHTTPResult{Response: &resp}

	case s.haveLength:
		if len(bodyBuf) < s.contentLength {
			return s.wantRead()
		}
		s.resp.Body = bodyBuf[:s.contentLength]
		s.step = stepDone
		resp := s.resp
		return SendHTTPResult{Response: &resp}

	default:
		// No Content-Length and not chunked: CalDAV servers don't use
		// close-delimited bodies for PROPFIND/REPORT/PUT responses in
		// practice, so an empty body is assumed (e.g. 204/304 responses).
		s.resp.Body = nil
		s.step = stepDone
		resp := s.resp
		return SendHTTPResult{Response: &resp}
	}
}

// decodeChunked decodes as much of a chunked-transfer body as buf currently
// holds. complete is true once the terminating zero-length chunk and its
// trailing CRLF (and any trailers) have been consumed.
func decodeChunked(buf []byte) (decoded []byte, complete bool, err error) {
	rest := buf
	for {
		lineEnd := bytes.Index(rest, []byte("\r\n"))
		if lineEnd < 0 {
			return decoded, false, nil
		}
		sizeLine := rest[:lineEnd]
		if i := bytes.IndexByte(sizeLine, ';'); i >= 0 {
			sizeLine = sizeLine[:i]
		}
		size, err := strconv.ParseInt(strings.TrimSpace(string(sizeLine)), 16, 64)
		if err != nil {
			return decoded, false, fmt.Errorf("malformed chunk size %q: %w", sizeLine, err)
		}

		rest = rest[lineEnd+2:]

		if size == 0 {
			// Trailer section terminated by a blank line.
			if trailerEnd := bytes.Index(rest, []byte("\r\n\r\n")); trailerEnd >= 0 {
				return decoded, true, nil
			}
			if len(rest) == 0 || bytes.Equal(rest, []byte("\r\n")) {
				return decoded, true, nil
			}
			return decoded, false, nil
		}

		if int64(len(rest)) < size+2 {
			return decoded, false, nil
		}

		decoded = append(decoded, rest[:size]...)
		rest = rest[size+2:]
	}
}
