// Package uploads stages listing images from multipart requests to durable
// storage.
package uploads

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Storage persists one uploaded object and returns where it can be fetched
// from: a path relative to the API host, or an absolute URL.
type Storage interface {
	Save(ctx context.Context, name string, body io.Reader, contentType string) (string, error)
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ObjectName builds a collision-free object name that keeps a readable
// suffix of the client's file name.
func ObjectName(originalName string, now time.Time) string {
	base := filepath.Base(strings.ReplaceAll(originalName, "\\", "/"))
	base = unsafeChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		base = "image"
	}
	if len(base) > 64 {
		base = base[len(base)-64:]
	}
	return fmt.Sprintf("%d-%s-%s", now.UnixMilli(), uuid.NewString(), base)
}

// PublicPrefix is the URL path disk uploads are served under.
const PublicPrefix = "uploads"

// DiskStorage writes into Dir and returns "<URLPrefix>/<name>" paths.
type DiskStorage struct {
	Dir       string
	URLPrefix string
}

func NewDiskStorage(dir string) (*DiskStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &DiskStorage{Dir: dir, URLPrefix: PublicPrefix}, nil
}

func (d *DiskStorage) Save(ctx context.Context, name string, body io.Reader, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dst := filepath.Join(d.Dir, name)
	f, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(dst)
		return "", fmt.Errorf("write %s: %w", dst, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("close %s: %w", dst, err)
	}
	return path.Join(d.URLPrefix, name), nil
}
