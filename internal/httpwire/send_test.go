package httpwire

import (
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iocoro/caldav/internal/iotest"
	"github.com/iocoro/caldav/ioeffect"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

// driveSend pumps sm against the server end of pipe, writing serverResponse
// once the client has finished writing its request, and returns the final
// result once sm stops requesting I/O.
func driveSend(t *testing.T, pipe *iotest.StreamPipe, sm *SendHTTP, serverResponse []byte) SendHTTPResult {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 65536)
		pipe.Server.SetReadDeadline(time.Now().Add(5 * time.Second))
		n, _ := pipe.Server.Read(buf)
		_ = n
		pipe.Server.Write(serverResponse)
		pipe.Server.Close()
	}()

	var arg *ioeffect.StreamIoResult
	var final SendHTTPResult
	for {
		final = sm.Resume(arg)
		if final.Io == nil {
			break
		}
		result := pipe.Fulfill(*final.Io)
		arg = &result
	}
	<-done
	return final
}

func TestSendHTTPSimpleResponse(t *testing.T) {
	pipe := iotest.NewStreamPipe()
	defer pipe.Close()

	req := Request{
		Method:  "GET",
		URI:     mustURL(t, "http://example.com/cal/work.ics"),
		Headers: http.Header{},
	}
	sm := NewSendHTTP(req)

	serverResponse := []byte("HTTP/1.1 200 OK\r\nContent-Length: 5\r\nContent-Type: text/calendar\r\n\r\nhello")
	result := driveSend(t, pipe, sm, serverResponse)

	require.NoError(t, result.Err)
	require.NotNil(t, result.Response)
	assert.Equal(t, 200, result.Response.StatusCode)
	assert.Equal(t, "hello", string(result.Response.Body))
	assert.True(t, result.Response.KeepAlive)
}

func TestSendHTTPConnectionClose(t *testing.T) {
	pipe := iotest.NewStreamPipe()
	defer pipe.Close()

	req := Request{Method: "DELETE", URI: mustURL(t, "http://example.com/cal/work/"), Headers: http.Header{}}
	sm := NewSendHTTP(req)

	serverResponse := []byte("HTTP/1.1 204 No Content\r\nConnection: close\r\n\r\n")
	result := driveSend(t, pipe, sm, serverResponse)

	require.NoError(t, result.Err)
	require.NotNil(t, result.Response)
	assert.Equal(t, 204, result.Response.StatusCode)
	assert.False(t, result.Response.KeepAlive)
}

func TestSendHTTPChunkedBody(t *testing.T) {
	pipe := iotest.NewStreamPipe()
	defer pipe.Close()

	req := Request{Method: "GET", URI: mustURL(t, "http://example.com/cal/"), Headers: http.Header{}}
	sm := NewSendHTTP(req)

	serverResponse := []byte("HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n5\r\nhello\r\n6\r\n world\r\n0\r\n\r\n")
	result := driveSend(t, pipe, sm, serverResponse)

	require.NoError(t, result.Err)
	require.NotNil(t, result.Response)
	assert.Equal(t, "hello world", string(result.Response.Body))
}

func TestSendHTTPTransportError(t *testing.T) {
	pipe := iotest.NewStreamPipe()
	defer pipe.Close()

	req := Request{Method: "GET", URI: mustURL(t, "http://example.com/cal/"), Headers: http.Header{}}
	sm := NewSendHTTP(req)

	arg := &ioeffect.StreamIoResult{Err: io.ErrClosedPipe}
	// Resume checks arg.Err before anything else, so after the first call
	// requests the write, feeding a transport error back in place of that
	// write's result terminates the exchange.
	result := sm.Resume(nil)
	require.NotNil(t, result.Io)

	result = sm.Resume(arg)
	require.Error(t, result.Err)
}
