package validation

import (
	"regexp"
	"strings"
	"unicode"
)

// UnicodeAttackPatterns содержит паттерны для обнаружения Unicode-атак
var UnicodeAttackPatterns = []*regexp.Regexp{
	// RTL override атаки
	regexp.MustCompile(`[\x{202A}-\x{202E}]`),
	// Изоляция направления
	regexp.MustCompile(`[\x{2066}-\x{2069}]`),
	// Специальные символы замены
	regexp.MustCompile(`[\x{FFF9}-\x{FFFB}]`),
}

// ContainsUnicodeAttack проверяет наличие Unicode-атак в строке
func ContainsUnicodeAttack(input string) bool {
	for _, pattern := range UnicodeAttackPatterns {
		if pattern.MatchString(input) {
			return true
		}
	}

	for _, r := range input {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return true
		}
	}
	return false
}

// SanitizeUnicode удаляет невидимые символы нулевой ширины и BOM
func SanitizeUnicode(input string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 0x200B && r <= 0x200F, r == 0xFEFF, r == 0x2060:
			return -1
		default:
			return r
		}
	}, input)
}
