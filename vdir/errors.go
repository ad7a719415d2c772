package vdir

import "errors"

// Filesystem error kinds an FsIo driver wraps into ioeffect.FsIoResult.Err.
// Callers pattern-match on these with errors.Is to decide idempotence
// (spec.md §7, §8 property 3).
var (
	ErrNotFound         = errors.New("vdir: not found")
	ErrAlreadyExists    = errors.New("vdir: already exists")
	ErrPermissionDenied = errors.New("vdir: permission denied")
)
