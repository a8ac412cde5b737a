package filestorage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidPath = errors.New("filestorage: path escapes the storage root")

// FileStorageInterface stores uploaded files under a prefix such as
// "package-photos/<shipment>/<kind>" and hands back the stored path.
type FileStorageInterface interface {
	Save(file io.Reader, originalFileName, prefix string) (filePath string, size int64, err error)
	Delete(filePath string) error
	PublicURL(filePath string) string
}

type LocalFileStorage struct {
	basePath  string
	publicURL string
	now       func() time.Time
}

func NewLocalFileStorage(basePath, publicURL string) (*LocalFileStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &LocalFileStorage{
		basePath:  basePath,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
	}, nil
}

// Save writes file as <prefix>/<timestamp>-<uuid>-<name>. Only the base name
// of originalFileName is kept.
func (s *LocalFileStorage) Save(file io.Reader, originalFileName, prefix string) (string, int64, error) {
	rel, err := clean(prefix)
	if err != nil {
		return "", 0, err
	}
	name := filepath.Base(filepath.Clean("/" + originalFileName))
	if name == "/" || name == "." {
		name = "file"
	}
	uniqueFileName := fmt.Sprintf("%s-%s-%s", s.now().UTC().Format("20060102T150405"), uuid.New().String()[:8], name)

	fullDirPath := filepath.Join(s.basePath, filepath.FromSlash(rel))
	if err := os.MkdirAll(fullDirPath, 0o755); err != nil {
		return "", 0, err
	}

	dst, err := os.Create(filepath.Join(fullDirPath, uniqueFileName))
	if err != nil {
		return "", 0, err
	}
	defer dst.Close()

	size, err := io.Copy(dst, file)
	if err != nil {
		return "", 0, err
	}
	return path.Join(rel, uniqueFileName), size, nil
}

// Delete removes a stored file. A file that is already gone is not an error.
func (s *LocalFileStorage) Delete(filePath string) error {
	rel, err := clean(filePath)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(s.basePath, filepath.FromSlash(rel)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (s *LocalFileStorage) PublicURL(filePath string) string {
	return s.publicURL + "/" + filePath
}

func clean(p string) (string, error) {
	rel := path.Clean("/" + filepath.ToSlash(p))[1:]
	if rel == "" || strings.HasPrefix(rel, "..") {
		return "", ErrInvalidPath
	}
	return rel, nil
}
