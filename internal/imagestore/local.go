package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// Local keeps images on disk under Dir and publishes them under BaseURL.
// Files are laid out as <Dir>/<folder>/<uuid><ext>.
type Local struct {
	Dir     string
	BaseURL string
}

// NewLocal creates the root directory if needed.
func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("imagestore: local dir: %w", err)
	}
	return &Local{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

var folderRE = regexp.MustCompile(`^[a-z0-9_-]+$`)

// Upload writes data to a new file and returns its public URL.
func (l *Local) Upload(ctx context.Context, data []byte, folder string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !folderRE.MatchString(folder) {
		return "", fmt.Errorf("imagestore: invalid folder %q", folder)
	}
	ext := mimetype.Detect(data).Extension()
	if ext == "" {
		ext = ".bin"
	}
	name := uuid.NewString() + ext

	dir := filepath.Join(l.Dir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", err
	}
	return l.BaseURL + "/" + folder + "/" + name, nil
}

// Delete removes the file behind rawURL. URLs outside BaseURL, or resolving
// outside Dir, are rejected with ErrForeignURL.
func (l *Local) Delete(ctx context.Context, rawURL string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	rel, ok := l.relPath(rawURL)
	if !ok {
		return false, ErrForeignURL
	}
	err := os.Remove(filepath.Join(l.Dir, filepath.FromSlash(rel)))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (l *Local) relPath(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	base, err := url.Parse(l.BaseURL)
	if err != nil {
		return "", false
	}
	if base.Host != "" && !strings.EqualFold(u.Host, base.Host) {
		return "", false
	}
	prefix := strings.TrimRight(base.Path, "/") + "/"
	if !strings.HasPrefix(u.Path, prefix) {
		return "", false
	}
	rel := path.Clean("/" + strings.TrimPrefix(u.Path, prefix))
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" || rel == "." || !fs.ValidPath(rel) || !strings.Contains(rel, "/") {
		return "", false
	}
	return rel, true
}
