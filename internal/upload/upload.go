// Package upload validates and persists multipart image uploads, producing
// the absolute URL stored on product and photo records.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"shop-backend/internal/storage"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrPayloadTooLarge = errors.New("file exceeds the upload size limit")
)

// mimeByExt maps the configurable extension allow-list to the declared
// Content-Type each extension must carry.
var mimeByExt = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"bmp":  "image/bmp",
	"svg":  "image/svg+xml",
}

type Ingestor struct {
	Store    storage.Store
	BaseURL  string
	MaxBytes int64

	allowedExts  map[string]struct{}
	allowedMimes map[string]struct{}
}

func NewIngestor(store storage.Store, baseURL string, maxBytes int64, types []string) *Ingestor {
	ing := &Ingestor{
		Store:        store,
		BaseURL:      strings.TrimRight(baseURL, "/"),
		MaxBytes:     maxBytes,
		allowedExts:  make(map[string]struct{}),
		allowedMimes: make(map[string]struct{}),
	}
	for _, t := range types {
		t = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(t), "."))
		if t == "" {
			continue
		}
		ing.allowedExts[t] = struct{}{}
		if m, ok := mimeByExt[t]; ok {
			ing.allowedMimes[m] = struct{}{}
		} else {
			ing.allowedMimes["image/"+t] = struct{}{}
		}
	}
	return ing
}

// Validate checks extension and declared MIME type against the allow-list
// and the declared size against the ceiling, before any bytes move.
func (ing *Ingestor) Validate(fh *multipart.FileHeader) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fh.Filename)), ".")
	if _, ok := ing.allowedExts[ext]; !ok {
		return ErrUnsupportedType
	}

	declared, _, _ := strings.Cut(fh.Header.Get("Content-Type"), ";")
	if _, ok := ing.allowedMimes[strings.TrimSpace(declared)]; !ok {
		return ErrUnsupportedType
	}

	if fh.Size > ing.MaxBytes {
		return ErrPayloadTooLarge
	}
	return nil
}

// Ingest validates fh, streams it to storage under a collision-resistant
// name and returns the absolute URL of the stored asset. The copy is
// aborted mid-stream when it exceeds the byte ceiling; the backend removes
// the partial object.
func (ing *Ingestor) Ingest(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if err := ing.Validate(fh); err != nil {
		return "", err
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := newName(fh.Filename)
	capped := &cappedReader{r: src, max: ing.MaxBytes}
	if err := ing.Store.Save(ctx, name, capped); err != nil {
		// The breach flag is checked rather than the error chain: a storage
		// backend may wrap the reader's error beyond errors.Is reach.
		if capped.exceeded || errors.Is(err, ErrPayloadTooLarge) {
			return "", ErrPayloadTooLarge
		}
		return "", fmt.Errorf("store upload: %w", err)
	}

	return ing.BaseURL + "/uploads/" + name, nil
}

// Remove best-effort deletes the asset behind a previously returned URL.
// A missing backing file is success.
func (ing *Ingestor) Remove(ctx context.Context, ref string) error {
	name := FileName(ref)
	if name == "" {
		return nil
	}
	return ing.Store.Remove(ctx, name)
}

// FileName extracts the storage name from an asset URL.
func FileName(ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return path.Base(ref)
	}
	return path.Base(u.Path)
}

// newName combines a millisecond timestamp with a random suffix so that
// concurrent uploads within the same millisecond cannot collide.
func newName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
}

type cappedReader struct {
	r        io.Reader
	n        int64
	max      int64
	exceeded bool
}

func (c *cappedReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	if c.n > c.max {
		c.exceeded = true
		return n, ErrPayloadTooLarge
	}
	return n, err
}
