package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const maxUploadBytes = 5 << 20 // 5MB

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// saveUpload stores the named multipart file under uploadDir with a unique
// filename and returns its public /uploads path. A missing file is not an
// error; the empty string is returned.
func saveUpload(c echo.Context, field, uploadDir string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return "", nil
	}
	if file.Size > maxUploadBytes {
		return "", echo.NewHTTPError(http.StatusBadRequest, "File exceeds the 5MB limit")
	}
	if !allowedImageTypes[file.Header.Get("Content-Type")] {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Only JPG, PNG, GIF, and WebP images are allowed")
	}

	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	filename := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	if err := writeUpload(file, filepath.Join(uploadDir, filename)); err != nil {
		return "", err
	}
	return "/uploads/" + filename, nil
}

func writeUpload(file *multipart.FileHeader, dst string) error {
	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create upload file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("write upload: %w", err)
	}
	return nil
}

// removeUpload deletes a previously stored /uploads file, ignoring paths
// that do not point into the upload dir.
func removeUpload(publicPath, uploadDir string) {
	if !strings.HasPrefix(publicPath, "/uploads/") {
		return
	}
	_ = os.Remove(filepath.Join(uploadDir, filepath.Base(publicPath)))
}
