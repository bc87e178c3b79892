package validation

import (
	"regexp"
	"strings"
)

// EmailRegex содержит регулярное выражение для валидации email
var EmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// IsValidEmail проверяет валидность email адреса
func IsValidEmail(email string) bool {
	if email == "" || len(email) > 254 {
		return false
	}
	if !EmailRegex.MatchString(email) {
		return false
	}

	local, domain, _ := strings.Cut(email, "@")
	if len(local) > 64 {
		return false
	}

	// Точки на границах и две точки подряд
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") || strings.Contains(local, "..") {
		return false
	}
	if strings.HasPrefix(domain, "-") || strings.HasSuffix(domain, "-") || strings.Contains(domain, "..") {
		return false
	}

	return true
}

// ValidateEmail выполняет валидацию email и возвращает ошибку
func ValidateEmail(email string, fieldName string) error {
	if !IsValidEmail(email) {
		return ValidationError{
			Field:   fieldName,
			Message: "is not a valid email address",
		}
	}
	if ContainsUnicodeAttack(email) {
		return ValidationError{
			Field:   fieldName,
			Message: "contains potentially dangerous Unicode characters",
		}
	}
	return nil
}

// NormalizeEmail приводит email к виду, в котором он хранится и ищется
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
