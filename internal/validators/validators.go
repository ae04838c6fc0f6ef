// Package validators checks user-supplied lead fields (name, email, phone)
// during the conversational lead-collection flow of §4.A, grounded on the
// original bot's LeadValidator.
package validators

import (
	"fmt"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._%+-]*@[a-zA-Z0-9][a-zA-Z0-9.-]*\.[a-zA-Z]{2,}$`)

var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\+?1?\s*\(?[0-9]{3}\)?\s*[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}$`),
	regexp.MustCompile(`^\+?[0-9]{1,4}\s*\(?[0-9]{2,4}\)?\s*[-.\s]?[0-9]{3,4}[-.\s]?[0-9]{3,4}$`),
	regexp.MustCompile(`^[0-9]{10}$`),
	regexp.MustCompile(`^[0-9]{3}[-.\s][0-9]{3}[-.\s][0-9]{4}$`),
	regexp.MustCompile(`^\([0-9]{3}\)\s*[0-9]{3}[-.\s]?[0-9]{4}$`),
	regexp.MustCompile(`^\+[0-9]{1,3}\s*[0-9]{9,12}$`),
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// ValidateName mirrors the original's character-class checks without
// regex: length bounds, at least one letter, a cap on digit and
// special-character density, and a closed set of allowed punctuation.
func ValidateName(name string) (bool, string) {
	if name == "" {
		return false, "Name cannot be empty."
	}
	name = strings.TrimSpace(name)

	if len(name) < 2 {
		return false, "Name must be at least 2 characters long."
	}
	if len(name) > 100 {
		return false, "Name is too long (maximum 100 characters)."
	}

	hasLetter := false
	digitCount := 0
	specialCount := 0
	for _, r := range name {
		if isAlpha(r) {
			hasLetter = true
		}
		if isDigit(r) {
			digitCount++
		}
		if strings.ContainsRune(" '-.", r) {
			if r != ' ' {
				specialCount++
			}
			continue
		}
		if !isAlpha(r) {
			return false, fmt.Sprintf("Name contains invalid character: '%c'. Only letters, spaces, hyphens, apostrophes, and periods are allowed.", r)
		}
	}
	if !hasLetter {
		return false, "Name must contain at least one letter."
	}
	runeCount := len([]rune(name))
	if runeCount > 0 && float64(digitCount)/float64(runeCount) > 0.3 {
		return false, "Name contains too many numbers. Please provide a valid name."
	}
	if specialCount > runeCount/2 {
		return false, "Name contains too many special characters."
	}
	return true, ""
}

// ValidateEmail mirrors the original's regex-plus-structural checks.
func ValidateEmail(email string) (bool, string) {
	if email == "" {
		return false, "Email cannot be empty."
	}
	email = strings.ToLower(strings.TrimSpace(email))

	if len(email) < 5 {
		return false, "Email is too short."
	}
	if len(email) > 254 {
		return false, "Email is too long (maximum 254 characters)."
	}
	if !emailPattern.MatchString(email) {
		return false, "Invalid email format. Please provide a valid email address (e.g., user@example.com)."
	}
	if strings.Count(email, "@") != 1 {
		return false, "Email must contain exactly one @ symbol."
	}
	parts := strings.SplitN(email, "@", 2)
	local, domain := parts[0], parts[1]

	if local == "" || len(local) > 64 {
		return false, "Invalid email format (local part issue)."
	}
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") {
		return false, "Email cannot start or end with a period."
	}
	if strings.Contains(local, "..") {
		return false, "Email cannot contain consecutive periods."
	}
	if domain == "" || len(domain) < 3 {
		return false, "Invalid email domain."
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") ||
		strings.HasPrefix(domain, "-") || strings.HasSuffix(domain, "-") {
		return false, "Invalid email domain format."
	}
	if strings.Contains(domain, "..") {
		return false, "Email domain cannot contain consecutive periods."
	}
	if !strings.Contains(domain, ".") {
		return false, "Email domain must contain at least one period."
	}
	return true, ""
}

// ValidatePhone mirrors the original's multi-pattern phone matcher plus a
// minimum-digit-count floor.
func ValidatePhone(phone string) (bool, string) {
	if phone == "" {
		return false, "Phone number cannot be empty."
	}
	phone = strings.TrimSpace(phone)

	if len(phone) < 7 {
		return false, "Phone number is too short (minimum 7 characters)."
	}
	if len(phone) > 20 {
		return false, "Phone number is too long (maximum 20 characters)."
	}

	matched := false
	for _, p := range phonePatterns {
		if p.MatchString(phone) {
			matched = true
			break
		}
	}
	if !matched {
		return false, "Invalid phone number format. Please provide a valid phone number (e.g., +1-234-567-8900 or (123) 456-7890)."
	}

	digitCount := 0
	for _, r := range phone {
		if isDigit(r) {
			digitCount++
		}
	}
	if digitCount < 10 {
		return false, "Phone number must contain at least 10 digits."
	}
	return true, ""
}
