package middleware

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Input validation and sanitization utilities

// ValidateModelURL accepts http(s) and file URLs or a plain local path
func ValidateModelURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return fmt.Errorf("model URL cannot be empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid model URL format: %w", err)
	}

	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return fmt.Errorf("model URL has no host")
		}
	case "file", "":
		if u.Path == "" {
			return fmt.Errorf("model path cannot be empty")
		}
	default:
		return fmt.Errorf("invalid model URL scheme: %s (allowed: http, https, file)", u.Scheme)
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// SanitizeFilename keeps the base name of an uploaded file, without
// directories or control characters. Max 128 bytes.
func SanitizeFilename(name string) string {
	name = SanitizeString(strings.ReplaceAll(name, "\\", "/"))
	name = strings.NewReplacer("\n", "", "\t", "").Replace(name)
	name = path.Base(name)
	if name == "." || name == "/" || name == ".." || name == "" {
		return "image"
	}
	if len(name) > 128 {
		name = name[len(name)-128:]
	}
	return name
}
