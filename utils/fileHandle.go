package utils

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"lms/config"

	"github.com/google/uuid"
)

// SaveUploadedFile stores an uploaded file under destDir with a unique name
// and returns the path on disk.
func SaveUploadedFile(file *multipart.FileHeader, destDir string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	ext := filepath.Ext(file.Filename)
	newFilename := uuid.New().String() + ext
	filePath := filepath.Join(destDir, newFilename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return filePath, nil
}

// GetFileURL maps a stored path onto the /uploads static mount. The path is
// kept relative to the configured upload directory so files in
// subdirectories stay reachable.
func GetFileURL(filePath string) string {
	if filePath == "" {
		return ""
	}
	rel, err := filepath.Rel(config.AppConfig.UploadDir, filePath)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(filePath)
	}
	return "/uploads/" + filepath.ToSlash(rel)
}

// DetectFileType buckets a filename into the coarse categories used by
// study materials and file uploads.
func DetectFileType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf", ".doc", ".docx", ".txt", ".ppt", ".pptx":
		return "document"
	case ".mp4", ".avi", ".mkv", ".mov", ".webm":
		return "video"
	case ".jpg", ".jpeg", ".png", ".gif", ".svg", ".webp":
		return "image"
	default:
		return "other"
	}
}
