package caldav

import (
	"encoding/base64"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Request builds the HTTP/1.1 request a workflow state machine sends. It
// only assembles method, URI, and headers; caldav/coroutines attaches the
// body when handing it to the wire codec.
type Request struct {
	Method  string
	URI     *url.URL
	Headers http.Header
}

// NewRequest builds a request against config for method and path, setting
// Host and Authorization per the config's auth variant (spec.md §4.1).
func NewRequest(config *Config, method, path string) Request {
	uri := PushURIPath(cloneURI(config.URI), path)

	headers := make(http.Header)
	if host := uri.Host; host != "" {
		headers.Set("Host", host)
	}

	switch config.Auth.kind {
	case authBasic:
		digest := base64.StdEncoding.EncodeToString(
			[]byte(config.Auth.username + ":" + config.Auth.secret.Expose()))
		headers.Set("Authorization", "Basic "+digest)
	case authBearer:
		headers.Set("Authorization", "Bearer "+config.Auth.secret.Expose())
	}

	return Request{Method: method, URI: uri, Headers: headers}
}

func cloneURI(u *url.URL) *url.URL {
	cp := *u
	return &cp
}

// Delete builds a DELETE request.
func Delete(config *Config, path string) Request { return NewRequest(config, http.MethodDelete, path) }

// Get builds a GET request.
func Get(config *Config, path string) Request { return NewRequest(config, http.MethodGet, path) }

// Mkcol builds an MKCOL request.
func Mkcol(config *Config, path string) Request { return NewRequest(config, "MKCOL", path) }

// Proppatch builds a PROPPATCH request.
func Proppatch(config *Config, path string) Request { return NewRequest(config, "PROPPATCH", path) }

// Propfind builds a PROPFIND request.
func Propfind(config *Config, path string) Request { return NewRequest(config, "PROPFIND", path) }

// Put builds a PUT request.
func Put(config *Config, path string) Request { return NewRequest(config, http.MethodPut, path) }

// Report builds a REPORT request.
func Report(config *Config, path string) Request { return NewRequest(config, "REPORT", path) }

// Depth sets the Depth header and returns the request for chaining.
func (r Request) Depth(depth int) Request {
	r.Headers = cloneHeaders(r.Headers)
	r.Headers.Set("Depth", strconv.Itoa(depth))
	return r
}

// ContentType sets the Content-Type header and returns the request for
// chaining.
func (r Request) ContentType(value string) Request {
	r.Headers = cloneHeaders(r.Headers)
	r.Headers.Set("Content-Type", value)
	return r
}

// ContentTypeXML sets "text/xml; charset=utf-8".
func (r Request) ContentTypeXML() Request {
	return r.ContentType("text/xml; charset=utf-8")
}

// ContentTypeIcal sets "text/calendar; charset=utf-8".
func (r Request) ContentTypeIcal() Request {
	return r.ContentType("text/calendar; charset=utf-8")
}

func cloneHeaders(h http.Header) http.Header {
	cp := make(http.Header, len(h)+1)
	for k, v := range h {
		cp[k] = v
	}
	return cp
}

// SetURIPath replaces uri's path-and-query with path (spec.md §4.1).
func SetURIPath(uri *url.URL, path string) *url.URL {
	out := cloneURI(uri)
	rest, query, hasQuery := strings.Cut(path, "?")
	out.Path = rest
	out.RawPath = ""
	if hasQuery {
		out.RawQuery = query
	} else {
		out.RawQuery = ""
	}
	return out
}

// PushURIPath appends path to uri's existing path. uri's query string is kept
// verbatim unless path carries its own "?query", which then replaces it. An
// empty path is a no-op (spec.md §4.1).
func PushURIPath(uri *url.URL, path string) *url.URL {
	if path == "" {
		return uri
	}

	out := cloneURI(uri)

	newPath, newQuery, hasQuery := strings.Cut(path, "?")
	newPath = strings.TrimPrefix(newPath, "/")

	basePath := strings.TrimSuffix(out.Path, "/")
	out.Path = basePath + "/" + newPath
	out.RawPath = ""

	if hasQuery {
		out.RawQuery = newQuery
	}
	// else: preserve out.RawQuery verbatim, as already copied from uri.

	return out
}
