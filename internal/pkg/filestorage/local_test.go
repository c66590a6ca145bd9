package filestorage

import (
	"bytes"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["image"][0]
}

func TestSaveAndDeleteFile(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir, "http://localhost:8080/uploads/", ImageExtensions...)
	require.NoError(t, err)

	url, err := ls.SaveFileWithPath(fileHeader(t, "cover.PNG", []byte("png-bytes")), "courses")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/courses/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	physical := filepath.Join(dir, "courses", filepath.Base(url))
	data, err := os.ReadFile(physical)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, ls.DeleteFile(url))
	_, err = os.Stat(physical)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, ls.DeleteFile(url), "deleting twice is not an error")
}

func TestSaveRejectsUnsupportedType(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "/uploads", ImageExtensions...)
	require.NoError(t, err)

	_, err = ls.SaveFileWithPath(fileHeader(t, "payload.exe", []byte("MZ")), "events")
	assert.True(t, errors.Is(err, ErrUnsupportedFileType))
}

func TestSubPathCannotEscapeBase(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir, "/uploads", ImageExtensions...)
	require.NoError(t, err)

	url, err := ls.SaveFileWithPath(fileHeader(t, "a.jpg", []byte("x")), "../../etc")
	require.NoError(t, err)

	physical, err := ls.physicalPath(url)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(physical, dir))
}

func TestLocalStorageOwns(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "/uploads/")
	require.NoError(t, err)

	assert.True(t, ls.Owns("/uploads/courses/a.png"))
	assert.False(t, ls.Owns("https://cdn.example.com/a.png"))
	assert.False(t, ls.Owns("/uploadsx/a.png"))
}
