package storage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileHeader builds a real *multipart.FileHeader the way gin receives one,
// by round-tripping a multipart body through http.Request parsing.
func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	_, header, err := req.FormFile("file")
	require.NoError(t, err)
	return header
}

func TestValidateImage(t *testing.T) {
	assert.NoError(t, ValidateImage(fileHeader(t, "avatar.png", []byte("png"))))
	assert.NoError(t, ValidateImage(fileHeader(t, "AVATAR.JPG", []byte("jpg"))))
	assert.Error(t, ValidateImage(fileHeader(t, "avatar.mp4", []byte("nope"))))
	assert.Error(t, ValidateImage(fileHeader(t, "avatar", []byte("noext"))))

	big := fileHeader(t, "avatar.png", []byte("x"))
	big.Size = MaxImageSize + 1
	assert.Error(t, ValidateImage(big))
}

func TestValidateVideo(t *testing.T) {
	assert.NoError(t, ValidateVideo(fileHeader(t, "day1.mp4", []byte("vid"))))
	assert.NoError(t, ValidateVideo(fileHeader(t, "day1.MOV", []byte("vid"))))
	assert.Error(t, ValidateVideo(fileHeader(t, "day1.png", []byte("nope"))))

	big := fileHeader(t, "day1.mp4", []byte("x"))
	big.Size = MaxVideoSize + 1
	assert.Error(t, ValidateVideo(big))
}

func TestSaveAndRemove(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	webPath, err := store.SaveProfilePicture("profilePicture", fileHeader(t, "me.png", []byte("pixels")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(webPath, "/uploads/profiles/"))
	assert.True(t, strings.HasSuffix(webPath, ".png"))

	onDisk := filepath.Join(store.BaseDir(), strings.TrimPrefix(webPath, "/uploads/"))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, []byte("pixels"), data)

	require.NoError(t, store.Remove(webPath))
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))
}

func TestSaveVerificationVideo(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	webPath, err := store.SaveVerificationVideo(fileHeader(t, "day3.mp4", []byte("frames")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(webPath, "/uploads/verifications/video-"))
}

func TestSaveKeysAreUnique(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	a, err := store.SaveProfilePicture("profilePicture", fileHeader(t, "me.png", []byte("a")))
	require.NoError(t, err)
	b, err := store.SaveProfilePicture("profilePicture", fileHeader(t, "me.png", []byte("b")))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestRemoveRejectsBadPaths(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Remove("/etc/passwd"))
	assert.Error(t, store.Remove("/uploads/../../../etc/passwd"))
}
