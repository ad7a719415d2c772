// Package caldav implements the CalDAV protocol core: request building, the
// XML response model, and (in caldav/coroutines) the pausable state
// machines that drive CalDAV workflows without owning a network stack.
package caldav

import (
	"log/slog"
	"net/url"

	"github.com/iocoro/caldav/secret"
)

// Config is the CalDAV server endpoint and credentials a workflow state
// machine is built against.
type Config struct {
	// URI is the absolute HTTP(S) endpoint. Request builders copy it and
	// never modify it; after discovery or a Reset the caller replaces it
	// with the new target.
	URI *url.URL

	// Auth selects the authentication variant.
	Auth Auth
}

// Auth is one of Plain, Basic, or Bearer.
type Auth struct {
	kind     authKind
	username string
	secret   secret.Value
}

type authKind int

const (
	authPlain authKind = iota
	authBasic
	authBearer
)

// PlainAuth sends no Authorization header.
func PlainAuth() Auth {
	return Auth{kind: authPlain}
}

// BasicAuth sends "Authorization: Basic base64(username:password)".
func BasicAuth(username, password string) Auth {
	return Auth{kind: authBasic, username: username, secret: secret.New(password)}
}

// BearerAuth sends "Authorization: Bearer token".
func BearerAuth(token string) Auth {
	return Auth{kind: authBearer, secret: secret.New(token)}
}

// LogValue implements slog.LogValuer; it never reveals the wrapped secret.
func (a Auth) LogValue() slog.Value {
	switch a.kind {
	case authBasic:
		return slog.StringValue("basic(" + a.username + ")")
	case authBearer:
		return slog.StringValue("bearer(" + a.secret.String() + ")")
	default:
		return slog.StringValue("plain")
	}
}

// String implements fmt.Stringer with the same redacted form as LogValue, so
// formatting a Config with fmt or slog never reveals the wrapped secret.
func (a Auth) String() string {
	return a.LogValue().String()
}

// GoString implements fmt.GoStringer so %#v also redacts.
func (a Auth) GoString() string {
	return a.String()
}
