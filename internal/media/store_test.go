package media

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), "http://localhost:8080/media", 1<<20)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func TestStoredNameRejectsForeignURLs(t *testing.T) {
	store := newTestStore(t)

	cases := []string{
		"",
		"https://elsewhere.example.com/media/x.jpg",
		"http://localhost:8080/media/",
		"http://localhost:8080/media/../secrets.txt",
		"http://localhost:8080/media/a/b.jpg",
	}
	for _, url := range cases {
		if name, ok := store.storedName(url); ok {
			t.Fatalf("storedName(%q) accepted %q", url, name)
		}
	}

	name, ok := store.storedName("http://localhost:8080/media/abc.jpg")
	if !ok || name != "abc.jpg" {
		t.Fatalf("storedName = %q, %v", name, ok)
	}
}

func TestRemoveDeletesFileAndThumbnail(t *testing.T) {
	store := newTestStore(t)

	for _, name := range []string{"abc.jpg", "abc_thumb.jpg"} {
		if err := os.WriteFile(filepath.Join(store.Dir(), name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	if err := store.Remove("http://localhost:8080/media/abc.jpg"); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	for _, name := range []string{"abc.jpg", "abc_thumb.jpg"} {
		if _, err := os.Stat(filepath.Join(store.Dir(), name)); !os.IsNotExist(err) {
			t.Fatalf("%s still present", name)
		}
	}
}

func TestRemoveIgnoresForeignURL(t *testing.T) {
	store := newTestStore(t)

	if err := store.Remove("https://res.cloudinary.com/demo/image/upload/x.jpg"); err != nil {
		t.Fatalf("Remove of a foreign URL errored: %v", err)
	}
}

func TestThumbName(t *testing.T) {
	if got := thumbName("abc.jpg"); got != "abc_thumb.jpg" {
		t.Fatalf("thumbName = %q", got)
	}
}
