package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainsXSS(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"Safe input", "hello world", false},
		{"Plain description mentioning forms", "История о том, как form of life меняет героя", false},
		{"Script tag", "<script>alert('xss')</script>", true},
		{"JavaScript protocol", "javascript:alert('xss')", true},
		{"Event handler in tag", "<img src=x onerror=alert(1)>", true},
		{"Iframe", "<iframe src=\"https://evil\"></iframe>", true},
		{"Expression", "expression(alert('xss'))", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ContainsXSS(tt.input))
		})
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"first.last+tag@sub.example.org", true},
		{"", false},
		{"no-at-sign", false},
		{".user@example.com", false},
		{"us..er@example.com", false},
		{"user@-example.com", false},
		{strings.Repeat("a", 65) + "@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidEmail(tt.email))
		})
	}
}

func TestValidateEmail_Unicode(t *testing.T) {
	err := ValidateEmail("user@example.com", "email")
	assert.NoError(t, err)

	err = ValidateEmail("bad", "email")
	var vErr ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "email", vErr.Field)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeEmail("  User@Example.COM "))
}

func TestSanitizeText(t *testing.T) {
	got, err := SanitizeText("  Брат 2\u200b ", "title", PlainText(200).Require())
	require.NoError(t, err)
	assert.Equal(t, "Брат 2", got)

	_, err = SanitizeText("   ", "title", PlainText(200).Require())
	assert.EqualError(t, err, "title is required")

	got, err = SanitizeText("", "bio", PlainText(10))
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = SanitizeText("слишком длинное имя", "name", PlainText(5))
	assert.Error(t, err)

	_, err = SanitizeText("abc\u202edef", "name", PlainText(50))
	assert.Error(t, err)

	_, err = SanitizeText("<script>x</script>", "bio", PlainText(500))
	assert.Error(t, err)
}

func TestValidateImageUpload(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		size        int64
		wantErr     bool
	}{
		{"jpeg ok", "image/jpeg", 1024, false},
		{"png with params", "image/png; charset=binary", 1 << 20, false},
		{"too large", "image/png", 1<<20 + 1, true},
		{"not an image", "application/pdf", 10, true},
		{"unsupported image", "image/tiff", 10, true},
		{"empty body", "image/webp", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImageUpload(tt.contentType, tt.size, 1<<20, "avatar")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateMediaURL(t *testing.T) {
	assert.NoError(t, ValidateMediaURL("https://cdn.example.com/v/1.m3u8", "video_url"))
	assert.Error(t, ValidateMediaURL("ftp://cdn.example.com/v", "video_url"))
	assert.Error(t, ValidateMediaURL("/relative/path", "video_url"))
	assert.Error(t, ValidateMediaURL("", "video_url"))
}

func BenchmarkContainsXSS(b *testing.B) {
	input := "<script>alert('xss')</script>"
	for i := 0; i < b.N; i++ {
		ContainsXSS(input)
	}
}
