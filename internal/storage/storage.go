// Package storage provides the object store backing profile pictures.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// MaxPictureBytes is the upload size ceiling for profile pictures (5 MiB).
const MaxPictureBytes = 5 * 1024 * 1024

// ObjectStore stores binary objects under flat names and serves them at
// public URLs. Upload failures are fatal to the caller's update; Delete is
// best-effort.
type ObjectStore interface {
	// Upload writes the object and returns its publicly resolvable URL.
	Upload(ctx context.Context, name string, contentType string, r io.Reader) (string, error)
	// Delete removes the named object.
	Delete(ctx context.Context, name string) error
}

// FileStore is an ObjectStore over a local directory, served statically at a
// public base URL.
type FileStore struct {
	dir     string
	baseURL string
}

// NewFileStore creates the backing directory if needed and returns the store.
func NewFileStore(dir, baseURL string) (*FileStore, error) {
	dir = filepath.Clean(strings.TrimSpace(dir))
	if dir == "" || dir == "." {
		return nil, fmt.Errorf("storage: empty directory")
	}
	if errMkdir := os.MkdirAll(dir, 0o755); errMkdir != nil {
		return nil, fmt.Errorf("storage: create dir: %w", errMkdir)
	}
	return &FileStore{dir: dir, baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/")}, nil
}

// Dir returns the backing directory, for static route registration.
func (s *FileStore) Dir() string { return s.dir }

// Upload writes the object to disk and returns its public URL. The payload is
// written to a temp file first and renamed, so a partial write never becomes
// visible under the final name.
func (s *FileStore) Upload(ctx context.Context, name string, contentType string, r io.Reader) (string, error) {
	cleaned, errName := s.objectPath(name)
	if errName != nil {
		return "", errName
	}
	if errCtx := ctx.Err(); errCtx != nil {
		return "", errCtx
	}

	tmp, errTmp := os.CreateTemp(s.dir, ".upload-*")
	if errTmp != nil {
		return "", fmt.Errorf("storage: create temp: %w", errTmp)
	}
	tmpName := tmp.Name()
	if _, errCopy := io.Copy(tmp, io.LimitReader(r, MaxPictureBytes+1)); errCopy != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("storage: write object: %w", errCopy)
	}
	if errClose := tmp.Close(); errClose != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("storage: close object: %w", errClose)
	}
	if info, errStat := os.Stat(tmpName); errStat == nil && info.Size() > MaxPictureBytes {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("storage: object exceeds %d bytes", MaxPictureBytes)
	}
	if errRename := os.Rename(tmpName, cleaned); errRename != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("storage: finalize object: %w", errRename)
	}
	return s.baseURL + "/" + path.Base(cleaned), nil
}

// Delete removes the named object. Missing objects are not an error.
func (s *FileStore) Delete(ctx context.Context, name string) error {
	cleaned, errName := s.objectPath(name)
	if errName != nil {
		return errName
	}
	if errCtx := ctx.Err(); errCtx != nil {
		return errCtx
	}
	if errRemove := os.Remove(cleaned); errRemove != nil && !os.IsNotExist(errRemove) {
		return fmt.Errorf("storage: delete object: %w", errRemove)
	}
	return nil
}

// objectPath validates the object name and maps it inside the store directory.
func (s *FileStore) objectPath(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name != path.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("storage: invalid object name %q", name)
	}
	return filepath.Join(s.dir, name), nil
}

// ObjectName derives a collision-free object name for a card's picture from
// the card identifier and the upload instant. Concurrent uploads land under
// distinct names; orphaned old objects are accepted if a best-effort delete
// fails.
func ObjectName(cardID string, ext string, now time.Time) string {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if ext == "" {
		ext = "img"
	}
	return fmt.Sprintf("%s-%d.%s", cardID, now.UnixMilli(), ext)
}

// ObjectNameFromURL extracts the stored object name from a public URL.
// It returns ok=false for URLs that do not look like store objects.
func ObjectNameFromURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	parsed, errParse := url.Parse(raw)
	if errParse != nil {
		return "", false
	}
	name := path.Base(parsed.Path)
	if name == "" || name == "/" || name == "." {
		return "", false
	}
	return name, true
}
