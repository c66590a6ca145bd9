package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/learnhub/internal/pkg/logger"
)

// ImageExtensions are the upload types accepted for course and event images.
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string
	baseURL  string
	allowed  map[string]bool
}

// NewLocalStorage creates the base directory and returns a storage that serves
// files under baseURL. When allowedExt is empty any extension is accepted.
func NewLocalStorage(basePath, baseURL string, allowedExt ...string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}

	allowed := make(map[string]bool, len(allowedExt))
	for _, ext := range allowedExt {
		allowed[strings.ToLower(ext)] = true
	}

	return &LocalStorage{basePath: basePath, baseURL: strings.TrimRight(baseURL, "/"), allowed: allowed}, nil
}

// SaveFileWithPath saves a file to a specified subdirectory under a random name.
func (ls *LocalStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", fmt.Errorf("no file uploaded")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if len(ls.allowed) > 0 && !ls.allowed[ext] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}

	subPath = path.Clean("/" + filepath.ToSlash(subPath))[1:]

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dir := filepath.Join(ls.basePath, filepath.FromSlash(subPath))
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	name := uuid.New().String() + ext
	dstPath := filepath.Join(dir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	rel := path.Join(subPath, name)
	logger.Info().Str("filename", fileHeader.Filename).Str("saved_as", rel).Msg("File saved")
	return ls.baseURL + "/" + rel, nil
}

// DeleteFile removes a stored file. Missing files are not an error.
func (ls *LocalStorage) DeleteFile(fileURL string) error {
	physical, err := ls.physicalPath(fileURL)
	if err != nil {
		return err
	}

	if err := os.Remove(physical); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (ls *LocalStorage) Owns(fileURL string) bool {
	return strings.HasPrefix(fileURL, ls.baseURL+"/")
}

// physicalPath maps a public URL back to a path inside basePath.
func (ls *LocalStorage) physicalPath(fileURL string) (string, error) {
	rel := strings.TrimPrefix(fileURL, ls.baseURL)
	rel = path.Clean("/" + rel)[1:]
	if rel == "" || rel == "." {
		return "", fmt.Errorf("invalid file path: %s", fileURL)
	}
	return filepath.Join(ls.basePath, filepath.FromSlash(rel)), nil
}
