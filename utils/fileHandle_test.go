package utils

import (
	"testing"

	"lms/config"

	"github.com/stretchr/testify/assert"
)

func withUploadDir(t *testing.T, dir string) {
	t.Helper()
	prev := config.AppConfig
	config.AppConfig = &config.Config{UploadDir: dir}
	t.Cleanup(func() { config.AppConfig = prev })
}

func TestGetFileURLKeepsSubdirectories(t *testing.T) {
	withUploadDir(t, "./uploads")

	assert.Equal(t, "/uploads/materials/abc.pdf", GetFileURL("uploads/materials/abc.pdf"))
	assert.Equal(t, "/uploads/avatars/pic.png", GetFileURL("./uploads/avatars/pic.png"))
	assert.Equal(t, "/uploads/top.txt", GetFileURL("uploads/top.txt"))
}

func TestGetFileURLFallsBackOutsideUploadDir(t *testing.T) {
	withUploadDir(t, "/srv/lms/uploads")

	assert.Equal(t, "/uploads/stray.pdf", GetFileURL("/tmp/stray.pdf"))
}

func TestGetFileURLEmptyPath(t *testing.T) {
	withUploadDir(t, "./uploads")

	assert.Equal(t, "", GetFileURL(""))
}
