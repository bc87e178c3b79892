package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ValidationError представляет ошибку валидации
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error реализует интерфейс error
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// TextOptions опции проверки текстового поля
type TextOptions struct {
	Required  bool
	MaxLength int
	CheckXSS  bool
	// CheckUnicode отклоняет bidi-override и невидимые символы
	CheckUnicode bool
}

// PlainText опции для коротких полей: имена, заголовки, страна
func PlainText(maxLength int) TextOptions {
	return TextOptions{MaxLength: maxLength, CheckXSS: true, CheckUnicode: true}
}

// Require возвращает копию опций с обязательным заполнением
func (o TextOptions) Require() TextOptions {
	o.Required = true
	return o
}

// SanitizeText обрезает пробелы, удаляет невидимые символы и проверяет поле.
// Возвращает очищенное значение.
func SanitizeText(value, field string, opts TextOptions) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		if opts.Required {
			return "", ValidationError{Field: field, Message: "is required"}
		}
		return "", nil
	}

	if opts.CheckUnicode && ContainsUnicodeAttack(trimmed) {
		return "", ValidationError{Field: field, Message: "contains potentially dangerous Unicode characters"}
	}
	sanitized := SanitizeUnicode(trimmed)

	if opts.MaxLength > 0 && utf8.RuneCountInString(sanitized) > opts.MaxLength {
		return "", ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d characters", opts.MaxLength)}
	}

	if opts.CheckXSS {
		if err := ValidateXSS(sanitized, field); err != nil {
			return "", err
		}
	}

	return sanitized, nil
}
