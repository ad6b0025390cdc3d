// Package media stores uploaded files on local disk and serves them
// under a public URL prefix. Image uploads get a grid thumbnail next to
// the original; videos are stored as-is.
package media

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const thumbWidth = 480

var ErrUnsupportedType = errors.New("unsupported media type")

var videoTypes = map[string]string{
	"video/mp4":       ".mp4",
	"video/webm":      ".webm",
	"video/ogg":       ".ogg",
	"video/quicktime": ".mov",
}

var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type Store struct {
	dir     string
	baseURL string
	maxSize int64
}

// NewStore ensures dir exists. baseURL is the public prefix files are
// served under, e.g. "http://localhost:8080/media".
func NewStore(dir, baseURL string, maxSize int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		maxSize: maxSize,
	}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Save writes the uploaded file under a generated name and returns its
// public URL. The media kind is decided by sniffed content type, not by
// the client-supplied filename.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	if s.maxSize > 0 && fh.Size > s.maxSize {
		return "", fmt.Errorf("file too large: %d bytes", fh.Size)
	}

	file, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	contentType := http.DetectContentType(head[:n])
	ext, isVideo := videoTypes[contentType]
	if !isVideo {
		var ok bool
		ext, ok = imageTypes[contentType]
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
		}
	}

	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)

	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		os.Remove(path)
		return "", err
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", err
	}

	if !isVideo {
		// Thumbnail failures are not fatal; the original is what the
		// content grid falls back to.
		_ = s.writeThumbnail(path)
	}

	return s.baseURL + "/" + name, nil
}

// Remove deletes a stored file (and its thumbnail) given the public URL
// Save returned. URLs outside the store are ignored.
func (s *Store) Remove(fileURL string) error {
	name, ok := s.storedName(fileURL)
	if !ok {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	thumb := thumbName(name)
	if err := os.Remove(filepath.Join(s.dir, thumb)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) storedName(fileURL string) (string, bool) {
	if s.baseURL == "" || !strings.HasPrefix(fileURL, s.baseURL+"/") {
		return "", false
	}
	name := strings.TrimPrefix(fileURL, s.baseURL+"/")
	// Reject anything that could escape the media dir.
	if name == "" || strings.ContainsAny(name, "/\\") {
		return "", false
	}
	return name, true
}

func (s *Store) writeThumbnail(path string) error {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return err
	}
	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	return imaging.Save(thumb, filepath.Join(s.dir, thumbName(filepath.Base(path))))
}

func thumbName(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "_thumb" + ext
}
