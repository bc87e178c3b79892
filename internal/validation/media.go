package validation

import (
	"fmt"
	"net/url"
	"strings"
)

// imageExtensions разрешенные для аватаров и постеров типы
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// NormalizeContentType отбрасывает параметры и приводит к нижнему регистру
func NormalizeContentType(contentType string) string {
	mainType, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mainType))
}

// IsImageContentType проверяет, является ли Content-Type изображением
func IsImageContentType(contentType string) bool {
	return strings.HasPrefix(NormalizeContentType(contentType), "image/")
}

// ImageExtension возвращает расширение файла для поддерживаемого типа изображения
func ImageExtension(contentType string) (string, bool) {
	ext, ok := imageExtensions[NormalizeContentType(contentType)]
	return ext, ok
}

// ValidateImageUpload проверяет тип и размер загружаемого изображения
func ValidateImageUpload(contentType string, size, maxSize int64, fieldName string) error {
	if !IsImageContentType(contentType) {
		return ValidationError{Field: fieldName, Message: "must be an image"}
	}
	if _, ok := ImageExtension(contentType); !ok {
		return ValidationError{Field: fieldName, Message: "image format is not supported"}
	}
	if size <= 0 {
		return ValidationError{Field: fieldName, Message: "is empty"}
	}
	if size > maxSize {
		return ValidationError{Field: fieldName, Message: fmt.Sprintf("must be at most %d bytes", maxSize)}
	}
	return nil
}

// ValidateMediaURL проверяет абсолютный http(s) URL видео или постера
func ValidateMediaURL(raw string, fieldName string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ValidationError{Field: fieldName, Message: "must be an absolute http(s) URL"}
	}
	return nil
}
