package assets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/avisser/redline/internal/errors"
)

var testExts = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), testExts)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return s
}

func TestSaveImage_ReturnsURLPath(t *testing.T) {
	s := testStore(t)

	url, err := s.SaveImage("photo.png", strings.NewReader("fake image bytes"))
	if err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	if !strings.HasPrefix(url, URLPrefix) {
		t.Errorf("url = %q, want %q prefix", url, URLPrefix)
	}
	if !strings.HasSuffix(url, ".png") {
		t.Errorf("url = %q, want .png suffix", url)
	}

	name := strings.TrimPrefix(url, URLPrefix)
	data, err := os.ReadFile(filepath.Join(s.Dir(), name))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(data) != "fake image bytes" {
		t.Errorf("stored bytes = %q", data)
	}
}

func TestSaveImage_RejectsDisallowedExtension(t *testing.T) {
	s := testStore(t)

	_, err := s.SaveImage("script.svg", strings.NewReader("<svg/>"))
	if !errors.Is(err, errors.ErrUnsupportedAsset) {
		t.Errorf("err = %v, want UNSUPPORTED_ASSET", err)
	}

	_, err = s.SaveImage("noextension", strings.NewReader("x"))
	if !errors.Is(err, errors.ErrUnsupportedAsset) {
		t.Errorf("missing extension: err = %v, want UNSUPPORTED_ASSET", err)
	}
}

func TestSaveImage_ExtensionCaseInsensitive(t *testing.T) {
	s := testStore(t)

	if _, err := s.SaveImage("SHOUTING.PNG", strings.NewReader("x")); err != nil {
		t.Errorf("uppercase extension should be accepted: %v", err)
	}
}

func TestSaveImage_TraversalInertFilename(t *testing.T) {
	s := testStore(t)

	url, err := s.SaveImage("../../etc/evil.png", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}

	// Only the extension survives from the client name.
	name := strings.TrimPrefix(url, URLPrefix)
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		t.Errorf("stored name %q carries path components", name)
	}
	if _, err := os.Stat(filepath.Join(s.Dir(), name)); err != nil {
		t.Errorf("file should land inside the assets dir: %v", err)
	}
}

func TestSaveImage_UniqueNames(t *testing.T) {
	s := testStore(t)

	a, err := s.SaveImage("same.png", strings.NewReader("one"))
	if err != nil {
		t.Fatalf("first SaveImage failed: %v", err)
	}
	b, err := s.SaveImage("same.png", strings.NewReader("two"))
	if err != nil {
		t.Fatalf("second SaveImage failed: %v", err)
	}
	if a == b {
		t.Errorf("two uploads produced the same URL %q", a)
	}
}
