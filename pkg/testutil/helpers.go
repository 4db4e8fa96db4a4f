package testutil

import (
	"path"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tunafish2k/minipatch/pkg/types"
)

// WriteTree creates the given files under base, making parent directories
// as needed. Keys are slash-separated paths relative to base; values are
// file contents. A value-less directory can be forced by listing it in
// dirs.
func WriteTree(t *testing.T, fsys types.FS, base string, files map[string]string, dirs ...string) {
	t.Helper()

	require.NoError(t, fsys.MkdirAll(base, 0755))
	for _, d := range dirs {
		require.NoError(t, fsys.MkdirAll(path.Join(base, d), 0755))
	}
	for rel, content := range files {
		full := path.Join(base, rel)
		require.NoError(t, fsys.MkdirAll(path.Dir(full), 0755))
		require.NoError(t, fsys.WriteFile(full, []byte(content), 0644))
	}
}

// Exists reports whether name exists in fsys.
func Exists(fsys types.FS, name string) bool {
	_, err := fsys.Stat(name)
	return err == nil
}

// AssertExists fails the test when name does not exist.
func AssertExists(t *testing.T, fsys types.FS, name string) {
	t.Helper()
	if !Exists(fsys, name) {
		t.Errorf("expected %s to exist", name)
	}
}

// AssertNotExists fails the test when name exists.
func AssertNotExists(t *testing.T, fsys types.FS, name string) {
	t.Helper()
	if Exists(fsys, name) {
		t.Errorf("expected %s to not exist", name)
	}
}
