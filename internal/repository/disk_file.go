package repository

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mansoorceksport/picdrop/internal/domain"
	"github.com/oklog/ulid/v2"
)

// DiskFileRepository implements domain.FileRepository on the local filesystem
type DiskFileRepository struct {
	dir string
}

// NewDiskFileRepository creates a disk-backed file repository rooted at dir.
// The directory is created lazily on the first store.
func NewDiskFileRepository(dir string) *DiskFileRepository {
	return &DiskFileRepository{dir: dir}
}

// Store writes payload to a new uniquely named file and returns that name.
func (r *DiskFileRepository) Store(_ context.Context, payload []byte, declaredName string) (string, error) {
	ext, err := validateExtension(declaredName)
	if err != nil {
		return "", err
	}

	// MkdirAll is a no-op when the directory already exists, so concurrent
	// requests can race here safely.
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: creating %s: %v", domain.ErrStorage, r.dir, err)
	}

	name := generateFileName(ext)
	if err := os.WriteFile(filepath.Join(r.dir, name), payload, 0o644); err != nil {
		return "", fmt.Errorf("%w: writing %s: %v", domain.ErrStorage, name, err)
	}

	return name, nil
}

// validateExtension extracts the lower-cased extension from declaredName and
// checks it against the allow-list.
func validateExtension(declaredName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(declaredName))
	if !domain.AllowedExtensions[ext] {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidExtension, ext)
	}
	return ext, nil
}

// generateFileName returns a ULID-based name so concurrent stores never
// collide without coordination.
func generateFileName(ext string) string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String() + ext
}
