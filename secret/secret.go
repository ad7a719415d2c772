// Package secret holds a small redacting wrapper for credentials that must
// never be printed, logged, or compared without an explicit opt-in.
package secret

import "log/slog"

// Value wraps a sensitive string (a password or a bearer token). Its zero
// value holds no secret. Formatting it through fmt, %v/%+v, or log/slog
// never reveals the wrapped value; Expose is the only way out, and it is
// meant to be called in exactly one place: header emission.
type Value struct {
	inner string
}

// New wraps s as a secret.
func New(s string) Value {
	return Value{inner: s}
}

// Expose returns the wrapped value. Callers must not log or persist the
// result; it exists solely for handing the credential to the transport.
func (v Value) Expose() string {
	return v.inner
}

const redacted = "[REDACTED]"

// String implements fmt.Stringer.
func (v Value) String() string {
	return redacted
}

// GoString implements fmt.GoStringer so %#v also redacts.
func (v Value) GoString() string {
	return redacted
}

// LogValue implements slog.LogValuer so structured logging redacts too.
func (v Value) LogValue() slog.Value {
	return slog.StringValue(redacted)
}
