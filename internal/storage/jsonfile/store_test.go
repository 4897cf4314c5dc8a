package jsonfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Version int      `json:"version"`
	Items   []string `json:"items"`
}

func TestStoreReadMissing(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "data"))
	var d doc
	ok, err := s.Read("missing.json", &d)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, d)
}

func TestStoreWriteReplaces(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, s.Write("doc.json", doc{Version: 1, Items: []string{"a"}}))
	require.NoError(t, s.Write("doc.json", doc{Version: 1, Items: []string{"a", "b"}}))

	var d doc
	ok, err := s.Read("doc.json", &d)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, d.Items)

	entries, err := os.ReadDir(s.Dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestStoreReadCorrupt(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, os.WriteFile(s.Path("bad.json"), []byte("{"), 0o644))
	var d doc
	_, err := s.Read("bad.json", &d)
	assert.Error(t, err)
}
