package iotest

import (
	"path"
	"sort"
	"strings"

	"github.com/iocoro/caldav/ioeffect"
	"github.com/iocoro/caldav/vdir"
)

type memNode struct {
	isDir    bool
	data     []byte
	children map[string]*memNode
}

// MemFS fulfills FsIo requests against an in-memory tree, replicating the
// error-kind sentinels (vdir.ErrNotFound, vdir.ErrAlreadyExists) a real
// filesystem driver surfaces.
type MemFS struct {
	root *memNode
}

// NewMemFS returns an empty filesystem with just a root directory.
func NewMemFS() *MemFS {
	return &MemFS{root: &memNode{isDir: true, children: map[string]*memNode{}}}
}

func segments(p string) []string {
	p = path.Clean("/" + p)
	if p == "/" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(p, "/"), "/")
}

func (m *MemFS) lookup(p string) (*memNode, bool) {
	node := m.root
	for _, seg := range segments(p) {
		if !node.isDir {
			return nil, false
		}
		child, ok := node.children[seg]
		if !ok {
			return nil, false
		}
		node = child
	}
	return node, true
}

func (m *MemFS) parentAndName(p string) (*memNode, string, bool) {
	segs := segments(p)
	if len(segs) == 0 {
		return nil, "", false
	}
	node := m.root
	for _, seg := range segs[:len(segs)-1] {
		child, ok := node.children[seg]
		if !ok || !child.isDir {
			return nil, "", false
		}
		node = child
	}
	return node, segs[len(segs)-1], true
}

// Fulfill performs req against the tree and returns the result to feed into
// the state machine's next Resume call.
func (m *MemFS) Fulfill(req ioeffect.FsIo) ioeffect.FsIoResult {
	switch req.Op {
	case ioeffect.FsReadFile:
		node, ok := m.lookup(req.Path)
		if !ok || node.isDir {
			return ioeffect.FsIoResult{Op: req.Op, Err: vdir.ErrNotFound}
		}
		return ioeffect.FsIoResult{Op: req.Op, Data: append([]byte(nil), node.data...)}

	case ioeffect.FsWriteFile:
		parent, name, ok := m.parentAndName(req.Path)
		if !ok {
			return ioeffect.FsIoResult{Op: req.Op, Err: vdir.ErrNotFound}
		}
		if existing, exists := parent.children[name]; exists {
			if req.CreateExclusive {
				return ioeffect.FsIoResult{Op: req.Op, Err: vdir.ErrAlreadyExists}
			}
			if existing.isDir {
				return ioeffect.FsIoResult{Op: req.Op, Err: vdir.ErrPermissionDenied}
			}
		}
		parent.children[name] = &memNode{data: append([]byte(nil), req.Data...)}
		return ioeffect.FsIoResult{Op: req.Op}

	case ioeffect.FsRemoveFile:
		parent, name, ok := m.parentAndName(req.Path)
		if !ok {
			return ioeffect.FsIoResult{Op: req.Op, Err: vdir.ErrNotFound}
		}
		node, exists := parent.children[name]
		if !exists {
			return ioeffect.FsIoResult{Op: req.Op, Err: vdir.ErrNotFound}
		}
		if node.isDir {
			return ioeffect.FsIoResult{Op: req.Op, Err: vdir.ErrPermissionDenied}
		}
		delete(parent.children, name)
		return ioeffect.FsIoResult{Op: req.Op}

	case ioeffect.FsMkdirAll:
		node := m.root
		for _, seg := range segments(req.Path) {
			child, ok := node.children[seg]
			if !ok {
				child = &memNode{isDir: true, children: map[string]*memNode{}}
				node.children[seg] = child
			} else if !child.isDir {
				return ioeffect.FsIoResult{Op: req.Op, Err: vdir.ErrPermissionDenied}
			} else if req.CreateExclusive && seg == lastSegment(req.Path) {
				return ioeffect.FsIoResult{Op: req.Op, Err: vdir.ErrAlreadyExists}
			}
			node = child
		}
		return ioeffect.FsIoResult{Op: req.Op}

	case ioeffect.FsRemoveAll:
		parent, name, ok := m.parentAndName(req.Path)
		if !ok {
			return ioeffect.FsIoResult{Op: req.Op}
		}
		delete(parent.children, name)
		return ioeffect.FsIoResult{Op: req.Op}

	case ioeffect.FsReadDir:
		node, ok := m.lookup(req.Path)
		if !ok || !node.isDir {
			return ioeffect.FsIoResult{Op: req.Op, Err: vdir.ErrNotFound}
		}
		var entries []ioeffect.DirEntry
		for name, child := range node.children {
			entries = append(entries, ioeffect.DirEntry{Name: name, IsDir: child.isDir})
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
		return ioeffect.FsIoResult{Op: req.Op, Entries: entries}

	case ioeffect.FsStat:
		node, ok := m.lookup(req.Path)
		if !ok {
			return ioeffect.FsIoResult{Op: req.Op, Exists: false}
		}
		return ioeffect.FsIoResult{Op: req.Op, Exists: true, IsDir: node.isDir}

	default:
		return ioeffect.FsIoResult{Op: req.Op, Err: vdir.ErrNotFound}
	}
}

func lastSegment(p string) string {
	segs := segments(p)
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1]
}
