package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MaxImageSize = 5 << 20   // 5MB
	MaxVideoSize = 100 << 20 // 100MB
)

var imageExts = map[string]bool{".jpeg": true, ".jpg": true, ".png": true, ".gif": true}
var videoExts = map[string]bool{".mp4": true, ".mov": true, ".avi": true, ".wmv": true}

// Store writes uploaded media to local disk under a base directory and hands
// back web paths under /uploads. Keys carry a timestamp plus uuid suffix, so
// two requests never contend for the same file.
type Store struct {
	baseDir string
}

func New(baseDir string) (*Store, error) {
	for _, sub := range []string{"profiles", "verifications"} {
		if err := os.MkdirAll(filepath.Join(baseDir, sub), 0o755); err != nil {
			return nil, err
		}
	}
	return &Store{baseDir: baseDir}, nil
}

func (s *Store) BaseDir() string {
	return s.baseDir
}

// ValidateImage checks size and extension for picture uploads.
func ValidateImage(header *multipart.FileHeader) error {
	if header.Size > MaxImageSize {
		return fmt.Errorf("image exceeds %d bytes", int64(MaxImageSize))
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !imageExts[ext] {
		return fmt.Errorf("only .png, .jpg, .jpeg and .gif format allowed")
	}
	return nil
}

// ValidateVideo checks size and extension for verification video uploads.
func ValidateVideo(header *multipart.FileHeader) error {
	if header.Size > MaxVideoSize {
		return fmt.Errorf("video exceeds %d bytes", int64(MaxVideoSize))
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !videoExts[ext] {
		return fmt.Errorf("only .mp4, .mov, .avi and .wmv format allowed")
	}
	return nil
}

// SaveProfilePicture stores an image under uploads/profiles and returns its
// web path.
func (s *Store) SaveProfilePicture(field string, header *multipart.FileHeader) (string, error) {
	if err := ValidateImage(header); err != nil {
		return "", err
	}
	return s.save("profiles", field, header)
}

// SaveVerificationVideo stores a video under uploads/verifications and returns
// its web path.
func (s *Store) SaveVerificationVideo(header *multipart.FileHeader) (string, error) {
	if err := ValidateVideo(header); err != nil {
		return "", err
	}
	return s.save("verifications", "video", header)
}

func (s *Store) save(sub, field string, header *multipart.FileHeader) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	name := fmt.Sprintf("%s-%d-%s%s", field, time.Now().UnixNano(), uuid.NewString(), ext)

	dst, err := os.Create(filepath.Join(s.baseDir, sub, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}

	return "/uploads/" + sub + "/" + name, nil
}

// Remove deletes a previously stored file by its web path. Callers treat
// failure as non-fatal; superseded files are cleaned up best-effort.
func (s *Store) Remove(webPath string) error {
	rel, ok := strings.CutPrefix(webPath, "/uploads/")
	if !ok {
		return fmt.Errorf("not an uploads path: %s", webPath)
	}
	// Reject traversal outside the base directory.
	clean := filepath.Clean(rel)
	if strings.HasPrefix(clean, "..") {
		return fmt.Errorf("invalid uploads path: %s", webPath)
	}
	return os.Remove(filepath.Join(s.baseDir, clean))
}
