package cache

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for content cache:
// - FileSource reads whole files and wraps errors with the path
// - Cache serves repeated reads from memory
// - Invalidate forces the next read back to the source
// - Source errors are returned and not cached

type countingSource struct {
	reads   map[string]int
	content map[string]string
	err     error
}

func (s *countingSource) Read(path string) (string, error) {
	s.reads[path]++
	if s.err != nil {
		return "", s.err
	}
	return s.content[path], nil
}

func newCountingSource() *countingSource {
	return &countingSource{
		reads:   map[string]int{},
		content: map[string]string{"/a.kt": "class A", "/b.kt": "class B"},
	}
}

func TestFileSource_Read(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Foo.kt")
	require.NoError(t, os.WriteFile(path, []byte("class Foo"), 0644))

	got, err := FileSource{}.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "class Foo", got)

	_, err = FileSource{}.Read(filepath.Join(dir, "missing.kt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.kt")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestCache_ServesRepeatedReadsFromMemory(t *testing.T) {
	src := newCountingSource()
	c, err := NewCache(src, 0)
	require.NoError(t, err)
	defer c.Close()

	for i := 0; i < 3; i++ {
		got, err := c.Read("/a.kt")
		require.NoError(t, err)
		assert.Equal(t, "class A", got)
	}

	assert.Equal(t, 1, src.reads["/a.kt"])
	assert.Equal(t, int64(1), c.Misses())
	assert.Equal(t, int64(2), c.Hits())
}

func TestCache_Invalidate(t *testing.T) {
	src := newCountingSource()
	c, err := NewCache(src, 0)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Read("/a.kt")
	require.NoError(t, err)

	src.content["/a.kt"] = "class Renamed"
	c.Invalidate("/a.kt")

	got, err := c.Read("/a.kt")
	require.NoError(t, err)
	assert.Equal(t, "class Renamed", got)
	assert.Equal(t, 2, src.reads["/a.kt"])
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	src := newCountingSource()
	src.err = errors.New("boom")
	c, err := NewCache(src, 0)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Read("/a.kt")
	require.Error(t, err)

	src.err = nil
	got, err := c.Read("/a.kt")
	require.NoError(t, err)
	assert.Equal(t, "class A", got)
	assert.Equal(t, 2, src.reads["/a.kt"])
}
