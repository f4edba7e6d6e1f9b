// Package store persists resolved product images under a local products
// directory, optionally mirroring them to S3.
package store

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dermalens/backend/utils"
)

// ImageStore writes image bytes under Dir. Every save produces a new file;
// identical bytes are not deduplicated.
type ImageStore struct {
	Dir      string
	S3Mirror bool // also upload each image under products/ when a bucket is configured
}

func NewImageStore(dir string) *ImageStore {
	return &ImageStore{Dir: dir}
}

// Save ensures the products directory exists and writes the bytes to a file
// named filename, returning the local path.
func (s *ImageStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %v", err)
	}

	path := filepath.Join(s.Dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write image: %v", err)
	}

	if s.S3Mirror {
		key := "products/" + filename
		if _, err := utils.UploadFileToS3(ctx, bytes.NewReader(data), key, contentTypeFor(filename)); err != nil {
			// Mirror failures don't lose the resolution; the local file is
			// the source of truth.
			fmt.Printf("Failed to mirror %s to S3: %v\n", filename, err)
		}
	}

	return path, nil
}

// FilenameFor derives a collision-resistant filename from the source URL's
// final path segment, falling back to a timestamp when the URL gives
// nothing usable.
func FilenameFor(sourceURL string) string {
	filename := filepath.Base(sourceURL)
	if idx := strings.Index(filename, "?"); idx != -1 {
		filename = filename[:idx]
	}
	if filename == "" || filename == "." || filename == "/" || len(filename) > 255 {
		filename = fmt.Sprintf("image_%d.jpg", time.Now().UnixNano())
	}
	return fmt.Sprintf("%d_%s", time.Now().UnixNano(), sanitize(filename))
}

// sanitize strips characters that are awkward in filenames.
func sanitize(name string) string {
	var b strings.Builder
	for _, c := range name {
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
			c == '_' || c == '.' || c == '-' {
			b.WriteRune(c)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
