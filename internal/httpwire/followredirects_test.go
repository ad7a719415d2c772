package httpwire

import (
	"bufio"
	"io"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iocoro/caldav/internal/iotest"
	"github.com/iocoro/caldav/ioeffect"
)

// driveFollow pumps sm against pipe, handing each server response in order
// to requests as they arrive, until sm stops needing I/O.
func driveFollow(t *testing.T, pipe *iotest.StreamPipe, sm *FollowHTTPRedirects) FollowHTTPRedirectsResult {
	t.Helper()
	var arg *ioeffect.StreamIoResult
	var final FollowHTTPRedirectsResult
	for {
		final = sm.Resume(arg)
		if final.Err != nil || final.Response != nil || final.Reset != nil {
			return final
		}
		result := pipe.Fulfill(*final.Io)
		arg = &result
	}
}

// readOneRequest consumes exactly one HTTP/1.1 request's headers (and body,
// if Content-Length says there is one) from reader, tolerating the absence
// of a Host header the way a permissive test double can afford to.
func readOneRequest(reader *bufio.Reader) error {
	contentLength := 0
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "" {
			break
		}
		if name, value, ok := strings.Cut(trimmed, ":"); ok && strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
				contentLength = n
			}
		}
	}
	if contentLength > 0 {
		if _, err := io.CopyN(io.Discard, reader, int64(contentLength)); err != nil {
			return err
		}
	}
	return nil
}

// serveResponses reads and discards one HTTP request per entry in
// responses, writing the matching canned response, on the server end of
// pipe, closing the connection after the last one.
func serveResponses(pipe *iotest.StreamPipe, responses [][]byte) {
	go func() {
		reader := bufio.NewReader(pipe.Server)
		for _, resp := range responses {
			pipe.Server.SetReadDeadline(time.Now().Add(5 * time.Second))
			if err := readOneRequest(reader); err != nil {
				return
			}
			pipe.Server.Write(resp)
		}
		pipe.Server.Close()
	}()
}

func TestFollowRedirectsSameConnection(t *testing.T) {
	pipe := iotest.NewStreamPipe()
	defer pipe.Close()

	req := Request{Method: "GET", URI: mustURL(t, "http://example.com/old"), Headers: http.Header{}}
	sm := NewFollowHTTPRedirects(req)

	serveResponses(pipe, [][]byte{
		[]byte("HTTP/1.1 301 Moved Permanently\r\nLocation: /new\r\nContent-Length: 0\r\n\r\n"),
		[]byte("HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nok"),
	})

	result := driveFollow(t, pipe, sm)
	require.NoError(t, result.Err)
	require.NotNil(t, result.Response)
	assert.Equal(t, 200, result.Response.StatusCode)
	assert.Equal(t, "ok", string(result.Response.Body))
	assert.Nil(t, result.Reset)
}

func TestFollowRedirectsCrossHostResets(t *testing.T) {
	pipe := iotest.NewStreamPipe()
	defer pipe.Close()

	req := Request{Method: "GET", URI: mustURL(t, "http://example.com/old"), Headers: http.Header{}}
	sm := NewFollowHTTPRedirects(req)

	serveResponses(pipe, [][]byte{
		[]byte("HTTP/1.1 302 Found\r\nLocation: http://other.example.com/elsewhere\r\nContent-Length: 0\r\n\r\n"),
	})

	result := driveFollow(t, pipe, sm)
	require.NoError(t, result.Err)
	require.NotNil(t, result.Reset)
	assert.Equal(t, "other.example.com", result.Reset.Host)
	assert.Equal(t, "/elsewhere", result.Reset.Path)
	assert.Nil(t, result.Response)
}

func TestFollowRedirectsTooMany(t *testing.T) {
	pipe := iotest.NewStreamPipe()
	defer pipe.Close()

	req := Request{Method: "GET", URI: mustURL(t, "http://example.com/loop"), Headers: http.Header{}}
	sm := NewFollowHTTPRedirects(req)

	responses := make([][]byte, 0, maxRedirects+1)
	for i := 0; i < maxRedirects+1; i++ {
		responses = append(responses, []byte("HTTP/1.1 301 Moved Permanently\r\nLocation: /loop\r\nContent-Length: 0\r\n\r\n"))
	}
	serveResponses(pipe, responses)

	result := driveFollow(t, pipe, sm)
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "too many redirects")
	assert.Nil(t, result.Response)
}

func TestStatusIsSuccess(t *testing.T) {
	assert.True(t, StatusIsSuccess(200))
	assert.True(t, StatusIsSuccess(204))
	assert.False(t, StatusIsSuccess(301))
	assert.False(t, StatusIsSuccess(404))
}
