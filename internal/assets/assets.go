// Package assets stores uploaded images on disk under baseDir/assets and
// hands back the URL path the editor embeds in markdown.
package assets

import (
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/avisser/redline/internal/errors"
)

// URLPrefix is the path the web server serves stored assets under.
const URLPrefix = "/assets/"

// MaxUploadBytes caps a single image upload.
const MaxUploadBytes = 10 << 20 // 10 MiB

// Store writes images into a base directory.
type Store struct {
	dir         string
	allowed     map[string]bool
	allowedList []string
}

// NewStore creates a store rooted at baseDir/assets. allowedExts are
// lowercase extensions including the dot, e.g. ".png".
func NewStore(baseDir string, allowedExts []string) (*Store, error) {
	dir := filepath.Join(baseDir, "assets")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create assets directory: %w", err)
	}

	allowed := make(map[string]bool, len(allowedExts))
	list := make([]string, 0, len(allowedExts))
	for _, ext := range allowedExts {
		ext = strings.ToLower(ext)
		allowed[ext] = true
		list = append(list, ext)
	}

	return &Store{dir: dir, allowed: allowed, allowedList: list}, nil
}

// Dir returns the on-disk directory assets are stored in.
func (s *Store) Dir() string {
	return s.dir
}

// SaveImage stores an uploaded image under a fresh ULID filename and
// returns its URL path. The original filename contributes only its
// extension; everything else is discarded so path traversal in the
// client-supplied name is inert.
func (s *Store) SaveImage(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !s.allowed[ext] {
		return "", errors.NewUnsupportedAsset(ext, s.allowedList)
	}

	name := newULID() + ext
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return "", errors.NewInternal(err)
	}

	_, err = io.Copy(f, io.LimitReader(r, MaxUploadBytes))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", errors.NewInternal(err)
	}

	return URLPrefix + name, nil
}

func newULID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return ulid.Make().String()
	}
	return id.String()
}
