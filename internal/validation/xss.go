package validation

import (
	"regexp"
)

// XSSRegexPatterns содержит регулярные выражения для обнаружения XSS-атак.
// Описания фильмов это свободный текст, поэтому проверяются только конструкции разметки и скриптов.
var XSSRegexPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<\s*script`),
	regexp.MustCompile(`(?i)javascript\s*:`),
	regexp.MustCompile(`(?i)vbscript\s*:`),
	regexp.MustCompile(`(?i)<[^>]+\son\w+\s*=`),
	regexp.MustCompile(`(?i)^\s*on\w+\s*=`),
	regexp.MustCompile(`(?i)<\s*(iframe|object|embed|link|meta|style|form|svg)\b`),
	regexp.MustCompile(`(?i)expression\s*\(`),
	regexp.MustCompile(`(?i)document\.(cookie|write)`),
	regexp.MustCompile(`(?i)window\.(location|open)`),
	regexp.MustCompile(`(?i)data\s*:\s*text/html`),
}

// ContainsXSS проверяет наличие XSS-атак в строке
func ContainsXSS(input string) bool {
	if input == "" {
		return false
	}

	for _, regex := range XSSRegexPatterns {
		if regex.MatchString(input) {
			return true
		}
	}

	return false
}

// ValidateXSS выполняет валидацию XSS и возвращает ошибку
func ValidateXSS(input string, fieldName string) error {
	if ContainsXSS(input) {
		return ValidationError{
			Field:   fieldName,
			Message: "contains potentially dangerous content (XSS)",
		}
	}
	return nil
}
