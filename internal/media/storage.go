package media

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Upload directories, one per image-bearing entity
const (
	DirCategoryThumbnails = "category_thumbnails"
	DirProductImages      = "product_images"
	DirReviewPhotos       = "review_photos"
)

// Storage stores image bytes and hands back a retrievable reference
type Storage interface {
	Save(dir string, img *Image) (string, error)
	Open(ref string) (afero.File, error)
	Delete(ref string) error
	URL(ref string) string
}

type fileStorage struct {
	fs      afero.Fs
	baseURL string
}

// NewStorage creates a Storage rooted at root inside fs.
func NewStorage(fs afero.Fs, root, baseURL string) Storage {
	if root != "" {
		fs = afero.NewBasePathFs(fs, root)
	}
	return &fileStorage{fs: fs, baseURL: baseURL}
}

// Save writes the image under dir with a random name and returns "<dir>/<name>".
func (s *fileStorage) Save(dir string, img *Image) (string, error) {
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}

	ref := path.Join(dir, uuid.New().String()+img.Extension)
	if err := afero.WriteFile(s.fs, ref, img.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	return ref, nil
}

func (s *fileStorage) Open(ref string) (afero.File, error) {
	return s.fs.Open(ref)
}

// Delete removes a stored file; a missing file is not an error.
func (s *fileStorage) Delete(ref string) error {
	if ref == "" {
		return nil
	}
	if err := s.fs.Remove(ref); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

func (s *fileStorage) URL(ref string) string {
	if ref == "" {
		return ""
	}
	return strings.TrimSuffix(s.baseURL, "/") + "/" + ref
}
