// Package utils holds small input-hygiene helpers shared by the edge
// surface: HTML/script sanitization for anything that might echo
// user-supplied text, and control-character stripping for anything that
// reaches a log line.
package utils

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

var xssPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<script[^>]*>.*?</script>`),
	regexp.MustCompile(`(?i)<iframe[^>]*>.*?</iframe>`),
	regexp.MustCompile(`(?i)<object[^>]*>.*?</object>`),
	regexp.MustCompile(`(?i)<embed[^>]*>.*?</embed>`),
	regexp.MustCompile(`(?i)<embed[^>]*>`),
	regexp.MustCompile(`(?i)<form[^>]*>.*?</form>`),
	regexp.MustCompile(`(?i)<input[^>]*>`),
	regexp.MustCompile(`(?i)<button[^>]*>.*?</button>`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)vbscript:`),
	regexp.MustCompile(`(?i)onload\s*=`),
	regexp.MustCompile(`(?i)onerror\s*=`),
	regexp.MustCompile(`(?i)onclick\s*=`),
	regexp.MustCompile(`(?i)onmouseover\s*=`),
	regexp.MustCompile(`(?i)onfocus\s*=`),
	regexp.MustCompile(`(?i)onblur\s*=`),
}

// SanitizeHTML escapes input if it matches a known XSS pattern, otherwise
// returns it unchanged.
func SanitizeHTML(input string) string {
	if input == "" {
		return ""
	}
	if len(input) > 10000 {
		input = input[:10000]
	}
	for _, pattern := range xssPatterns {
		if pattern.MatchString(input) {
			return html.EscapeString(input)
		}
	}
	return input
}

// ValidateInput rejects control characters and invalid UTF-8 and trims
// the result; used at the edge to gate the raw `question` field before it
// reaches the engine.
func ValidateInput(input string) (string, bool) {
	if input == "" {
		return "", true
	}
	for _, r := range input {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return "", false
		}
	}
	if !utf8.ValidString(input) {
		return "", false
	}
	for _, pattern := range xssPatterns {
		if pattern.MatchString(input) {
			return "", false
		}
	}
	return strings.TrimSpace(input), true
}

// CleanMarkdown strips any matched XSS pattern out of input entirely
// rather than escaping it, for contexts (e.g. synthesized answers)
// rendered as markdown rather than plain text.
func CleanMarkdown(input string) string {
	if input == "" {
		return ""
	}
	cleaned := input
	for _, pattern := range xssPatterns {
		cleaned = pattern.ReplaceAllString(cleaned, "")
	}
	return cleaned
}

// SanitizeForLog strips newlines, tabs, and other control characters so a
// user-supplied value can't forge additional log lines.
func SanitizeForLog(input string) string {
	if input == "" {
		return ""
	}
	sanitized := strings.ReplaceAll(input, "\n", " ")
	sanitized = strings.ReplaceAll(sanitized, "\r", " ")
	sanitized = strings.ReplaceAll(sanitized, "\t", " ")

	var b strings.Builder
	for _, r := range sanitized {
		if r >= 32 || r == ' ' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
