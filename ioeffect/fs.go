package ioeffect

// FsOp names the filesystem operation a vdir state machine needs performed.
type FsOp int

const (
	// FsReadFile reads the whole file at Path.
	FsReadFile FsOp = iota
	// FsWriteFile writes Data to Path, truncating any existing file unless
	// CreateExclusive is set, in which case an existing file must fail with
	// an error wrapping ErrAlreadyExists (see package vdir).
	FsWriteFile
	// FsRemoveFile removes the file at Path.
	FsRemoveFile
	// FsMkdirAll creates the directory at Path (and parents) if absent. If
	// CreateExclusive is set, an already-existing directory must fail with
	// an error wrapping ErrAlreadyExists.
	FsMkdirAll
	// FsRemoveAll recursively removes the tree rooted at Path.
	FsRemoveAll
	// FsReadDir lists the immediate children of the directory at Path.
	FsReadDir
	// FsStat reports whether Path exists and whether it is a directory.
	FsStat
)

// FsIo is one pending filesystem effect.
type FsIo struct {
	Op   FsOp
	Path string

	// Data holds the bytes to write, set when Op == FsWriteFile.
	Data []byte

	// CreateExclusive requests create-or-fail-if-exists semantics for
	// FsWriteFile and FsMkdirAll.
	CreateExclusive bool
}

// DirEntry is one entry returned by an FsReadDir effect.
type DirEntry struct {
	Name  string
	IsDir bool
}

// FsIoResult is the caller's answer to an FsIo request.
type FsIoResult struct {
	Op FsOp

	// Data holds the bytes read, set when Op == FsReadFile.
	Data []byte

	// Entries holds the directory listing, set when Op == FsReadDir.
	Entries []DirEntry

	// Exists and IsDir answer Op == FsStat.
	Exists bool
	IsDir  bool

	// Err reports a filesystem failure. Drivers should wrap one of the
	// vdir package's ErrNotFound, ErrAlreadyExists, or ErrPermissionDenied
	// sentinels so callers can pattern-match with errors.Is.
	Err error
}
