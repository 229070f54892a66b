package thumbs

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2)), nil))
	return buf.Bytes()
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

var thumbURLRe = regexp.MustCompile(`^https://up\.example\.org/net/[0-9a-f]{2}/[0-9a-f]{38}\.jpg$`)

func TestStorePut(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, "https://up.example.org/net/", zap.NewNop())
	require.NoError(t, err)

	data := jpegBytes(t)
	url, err := s.Put(data)
	require.NoError(t, err)
	require.Regexp(t, thumbURLRe, url)

	// The sharded file exists and holds the original bytes.
	rel := strings.TrimPrefix(url, "https://up.example.org/net/")
	stored, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	require.Equal(t, data, stored)
}

func TestStorePutIdempotent(t *testing.T) {
	s, err := New(t.TempDir(), "https://up.example.org/net", zap.NewNop())
	require.NoError(t, err)

	data := jpegBytes(t)
	first, err := s.Put(data)
	require.NoError(t, err)
	second, err := s.Put(data)
	require.NoError(t, err)
	require.Equal(t, first, second, "identical bytes must address the same path")
}

func TestStorePutRejectsNonJPEG(t *testing.T) {
	s, err := New(t.TempDir(), "https://up.example.org/net", zap.NewNop())
	require.NoError(t, err)

	_, err = s.Put(pngBytes(t))
	require.Error(t, err)
	_, err = s.Put([]byte("not an image"))
	require.Error(t, err)
}

func TestNewRequiresDir(t *testing.T) {
	_, err := New("  ", "https://up.example.org/net", zap.NewNop())
	require.Error(t, err)
}
