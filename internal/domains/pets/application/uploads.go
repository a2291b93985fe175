package application

import (
	"path/filepath"
	"strings"

	types "github.com/Apurer/pethub-api/internal/domains/pets/application/types"
	"github.com/Apurer/pethub-api/internal/domains/pets/domain"
)

const (
	msgEmptyFile       = "The submitted file is empty."
	msgInvalidImage    = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	msgInvalidVideo    = "Upload a valid video file."
	msgInvalidDocument = "Upload a PDF document or an image."
)

var (
	imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}
	videoExtensions = map[string]bool{".mp4": true, ".mov": true, ".webm": true, ".m4v": true, ".avi": true}
)

func validateUpload(field string, file types.Upload, accept func(contentType, ext string) bool, message string) error {
	if file.Body == nil || file.Size == 0 {
		return domain.NewValidationError(field, msgEmptyFile)
	}
	contentType := strings.ToLower(strings.TrimSpace(file.ContentType))
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !accept(contentType, ext) {
		return domain.NewValidationError(field, message)
	}
	return nil
}

func isImage(contentType, ext string) bool {
	if strings.HasPrefix(contentType, "image/") {
		return true
	}
	return contentType == "application/octet-stream" && imageExtensions[ext]
}

func isVideo(contentType, ext string) bool {
	if strings.HasPrefix(contentType, "video/") {
		return true
	}
	return contentType == "application/octet-stream" && videoExtensions[ext]
}

func isDocument(contentType, ext string) bool {
	if contentType == "application/pdf" || isImage(contentType, ext) {
		return true
	}
	return contentType == "application/octet-stream" && ext == ".pdf"
}
