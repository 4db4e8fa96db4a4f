package testutil

import (
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryFS implements types.FS with in-memory storage so filesystem logic
// can be tested without touching the real disk.
type MemoryFS struct {
	mu   sync.RWMutex
	root *fileNode

	// Error injection, keyed by normalized path
	errorPaths map[string]error
}

// fileNode represents a file or directory in memory
type fileNode struct {
	name     string
	mode     fs.FileMode
	modTime  time.Time
	content  []byte
	isDir    bool
	children map[string]*fileNode
}

// NewMemoryFS creates a new in-memory filesystem
func NewMemoryFS() *MemoryFS {
	return &MemoryFS{
		root: &fileNode{
			name:     "/",
			mode:     0755 | fs.ModeDir,
			modTime:  time.Now(),
			isDir:    true,
			children: make(map[string]*fileNode),
		},
		errorPaths: make(map[string]error),
	}
}

// InjectError makes every operation on the given path fail with err.
func (m *MemoryFS) InjectError(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorPaths[normalize(name)] = err
}

// normalize converts a path to a clean, rooted, slash-separated form.
func normalize(name string) string {
	p := path.Clean("/" + strings.ReplaceAll(name, "\\", "/"))
	return p
}

// segments splits a normalized path into its components.
func segments(name string) []string {
	p := normalize(name)
	if p == "/" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(p, "/"), "/")
}

func (m *MemoryFS) injected(name string) error {
	if err, ok := m.errorPaths[normalize(name)]; ok {
		return err
	}
	return nil
}

// find walks to the node for name, returning fs.ErrNotExist when any
// component is missing.
func (m *MemoryFS) find(name string) (*fileNode, error) {
	node := m.root
	for _, seg := range segments(name) {
		if !node.isDir {
			return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrInvalid}
		}
		child, ok := node.children[seg]
		if !ok {
			return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
		}
		node = child
	}
	return node, nil
}

// findParent returns the parent directory node and the final path segment.
func (m *MemoryFS) findParent(name string) (*fileNode, string, error) {
	segs := segments(name)
	if len(segs) == 0 {
		return nil, "", &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	parent, err := m.find(path.Dir(normalize(name)))
	if err != nil {
		return nil, "", err
	}
	if !parent.isDir {
		return nil, "", &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	return parent, segs[len(segs)-1], nil
}

func (m *MemoryFS) Stat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.injected(name); err != nil {
		return nil, err
	}
	node, err := m.find(name)
	if err != nil {
		return nil, err
	}
	return &memFileInfo{node: node}, nil
}

func (m *MemoryFS) Lstat(name string) (fs.FileInfo, error) {
	// No symlink support, Lstat falls back to Stat
	return m.Stat(name)
}

func (m *MemoryFS) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.injected(name); err != nil {
		return nil, err
	}
	node, err := m.find(name)
	if err != nil {
		return nil, err
	}
	if node.isDir {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}
	out := make([]byte, len(node.content))
	copy(out, node.content)
	return out, nil
}

func (m *MemoryFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected(name); err != nil {
		return err
	}
	parent, base, err := m.findParent(name)
	if err != nil {
		return err
	}
	if existing, ok := parent.children[base]; ok && existing.isDir {
		return &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	content := make([]byte, len(data))
	copy(content, data)
	parent.children[base] = &fileNode{
		name:    base,
		mode:    perm,
		modTime: time.Now(),
		content: content,
	}
	return nil
}

func (m *MemoryFS) MkdirAll(name string, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected(name); err != nil {
		return err
	}
	node := m.root
	for _, seg := range segments(name) {
		child, ok := node.children[seg]
		if !ok {
			child = &fileNode{
				name:     seg,
				mode:     perm | fs.ModeDir,
				modTime:  time.Now(),
				isDir:    true,
				children: make(map[string]*fileNode),
			}
			node.children[seg] = child
		} else if !child.isDir {
			return &fs.PathError{Op: "mkdir", Path: name, Err: fs.ErrExist}
		}
		node = child
	}
	return nil
}

func (m *MemoryFS) ReadDir(name string) ([]fs.DirEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.injected(name); err != nil {
		return nil, err
	}
	node, err := m.find(name)
	if err != nil {
		return nil, err
	}
	if !node.isDir {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrInvalid}
	}
	names := make([]string, 0, len(node.children))
	for n := range node.children {
		names = append(names, n)
	}
	sort.Strings(names)
	entries := make([]fs.DirEntry, 0, len(names))
	for _, n := range names {
		entries = append(entries, &memDirEntry{node: node.children[n]})
	}
	return entries, nil
}

func (m *MemoryFS) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected(name); err != nil {
		return err
	}
	parent, base, err := m.findParent(name)
	if err != nil {
		return err
	}
	node, ok := parent.children[base]
	if !ok {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrNotExist}
	}
	if node.isDir && len(node.children) > 0 {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrInvalid}
	}
	delete(parent.children, base)
	return nil
}

func (m *MemoryFS) RemoveAll(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected(name); err != nil {
		return err
	}
	parent, base, err := m.findParent(name)
	if err != nil {
		// RemoveAll on a missing path is a no-op
		return nil
	}
	delete(parent.children, base)
	return nil
}

func (m *MemoryFS) Chtimes(name string, atime, mtime time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected(name); err != nil {
		return err
	}
	node, err := m.find(name)
	if err != nil {
		return err
	}
	node.modTime = mtime
	return nil
}

// memFileInfo adapts a fileNode to fs.FileInfo
type memFileInfo struct {
	node *fileNode
}

func (i *memFileInfo) Name() string       { return i.node.name }
func (i *memFileInfo) Size() int64        { return int64(len(i.node.content)) }
func (i *memFileInfo) Mode() fs.FileMode  { return i.node.mode }
func (i *memFileInfo) ModTime() time.Time { return i.node.modTime }
func (i *memFileInfo) IsDir() bool        { return i.node.isDir }
func (i *memFileInfo) Sys() interface{}   { return nil }

// memDirEntry adapts a fileNode to fs.DirEntry
type memDirEntry struct {
	node *fileNode
}

func (e *memDirEntry) Name() string      { return e.node.name }
func (e *memDirEntry) IsDir() bool       { return e.node.isDir }
func (e *memDirEntry) Type() fs.FileMode { return e.node.mode.Type() }
func (e *memDirEntry) Info() (fs.FileInfo, error) {
	return &memFileInfo{node: e.node}, nil
}
