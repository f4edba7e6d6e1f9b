package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveWritesFile(t *testing.T) {
	s := NewImageStore(filepath.Join(t.TempDir(), "product_images"))

	path, err := s.Save(context.Background(), "cerave.jpg", []byte("jpeg-bytes"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)
}

func TestSaveCreatesDirectoryOnce(t *testing.T) {
	s := NewImageStore(filepath.Join(t.TempDir(), "nested", "product_images"))

	_, err := s.Save(context.Background(), "a.jpg", []byte("a"))
	require.NoError(t, err)
	_, err = s.Save(context.Background(), "b.jpg", []byte("b"))
	require.NoError(t, err)
}

func TestFilenameForDistinctPerCall(t *testing.T) {
	a := FilenameFor("https://static.thcdn.com/p/cerave.jpg")
	b := FilenameFor("https://static.thcdn.com/p/cerave.jpg")
	assert.NotEqual(t, a, b, "every save gets a fresh filename, even for the same source")
	assert.True(t, strings.HasSuffix(a, "cerave.jpg"))
}

func TestFilenameForStripsQuery(t *testing.T) {
	name := FilenameFor("https://static.thcdn.com/p/cerave.jpg?width=500&format=webp")
	assert.True(t, strings.HasSuffix(name, "cerave.jpg"))
	assert.NotContains(t, name, "?")
}

func TestFilenameForSanitizes(t *testing.T) {
	name := FilenameFor("https://example.com/path/weird name%20(1).jpg")
	assert.NotContains(t, name, " ")
	assert.NotContains(t, name, "(")
}

func TestFilenameForEmptyPath(t *testing.T) {
	name := FilenameFor("/")
	assert.NotEmpty(t, name)
	assert.Contains(t, name, "image_")
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "image/png", contentTypeFor("a.png"))
	assert.Equal(t, "image/jpeg", contentTypeFor("a.JPG"))
	assert.Equal(t, "image/webp", contentTypeFor("a.webp"))
	assert.Equal(t, "application/octet-stream", contentTypeFor("a.bin"))
}
