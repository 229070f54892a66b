// Package thumbs implements the content-addressed thumbnail store.
package thumbs

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/jpeg" // register the JPEG decoder for format verification
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Store persists thumbnail images under a two-level directory sharded by
// content hash. Writes are idempotent: identical bytes always land at the
// same path, so concurrent stores of the same image are safe.
type Store struct {
	baseDir string
	baseURL string
	logger  *zap.Logger
}

// New creates the store root and returns a Store. baseURL is the public
// prefix composed into the returned thumbnail URLs.
func New(baseDir, baseURL string, logger *zap.Logger) (*Store, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, fmt.Errorf("thumb directory is required")
	}
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("create thumb dir %s: %w", baseDir, err)
	}
	return &Store{
		baseDir: baseDir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}, nil
}

// Put verifies that data is a JPEG image, stores it content-addressed, and
// returns the stable public URL. Non-JPEG bytes are a hard failure: the
// source only serves JPEG thumbnails, so anything else means a broken page.
func (s *Store) Put(data []byte) (string, error) {
	if _, format, err := image.Decode(bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("decode thumbnail: %w", err)
	} else if format != "jpeg" {
		return "", fmt.Errorf("thumbnail is %s, expected jpeg", format)
	}

	sum := sha1.Sum(data)
	digest := hex.EncodeToString(sum[:])
	name := filepath.Join(digest[:2], digest[2:]+".jpg")

	path := filepath.Join(s.baseDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("create shard dir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write thumbnail %s: %w", path, err)
	}
	s.logger.Debug("Stored thumbnail", zap.String("path", path))
	return s.baseURL + "/" + digest[:2] + "/" + digest[2:] + ".jpg", nil
}
