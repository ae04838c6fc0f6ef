// Package contact extracts and formats contact information (emails,
// phones) found in retrieved passages, per §4.B, grounded on the
// original bot's ContactInformationExtractor.
package contact

import (
	"regexp"
	"strings"
)

var emailPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`),
	regexp.MustCompile(`(?i)\b[a-zA-Z0-9._%-]+\s*@\s*[a-zA-Z0-9.-]+\s*\.\s*[a-zA-Z]{2,}\b`),
	regexp.MustCompile(`(?i)(?:email|mail|e-mail)\s*:?\s*([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`),
}

var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\+?1?[-.\s]?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}`),
	regexp.MustCompile(`(?i)\+?[0-9]{1,4}[-.\s]?\(?[0-9]{3,4}\)?[-.\s]?[0-9]{3,4}[-.\s]?[0-9]{4,5}`),
	regexp.MustCompile(`(?i)\b[0-9]{3}[-.\s][0-9]{3}[-.\s][0-9]{4}\b`),
	regexp.MustCompile(`(?i)\([0-9]{3}\)\s*[0-9]{3}[-.\s]?[0-9]{4}`),
	regexp.MustCompile(`(?i)(?:phone|tel|mobile|call)\s*:?\s*([\+]?[0-9\s\-\(\)\.]{7,20})`),
}

var contactKeywords = []string{
	"contact", "reach", "email", "phone", "call", "write", "get in touch",
	"customer service", "support", "help desk", "sales", "inquiry",
	"office", "headquarters", "location", "address", "visit", "how to contact",
	"contact us", "contact information", "contact details", "get hold of",
	"email address", "phone number", "contact via email", "send email",
}

// Info is the result of extracting contact details from a block of text.
type Info struct {
	HasContact bool
	Emails     []string
	Phones     []string
}

func lastCapturedOrWhole(re *regexp.Regexp, match []string) string {
	if len(match) > 1 && match[len(match)-1] != "" {
		return match[len(match)-1]
	}
	return match[0]
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '+' || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ExtractEmails returns the deduplicated email addresses found in text, in
// first-seen order.
func ExtractEmails(text string) []string {
	found := map[string]struct{}{}
	out := []string{}
	for _, pattern := range emailPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			candidate := lastCapturedOrWhole(pattern, match)
			candidate = strings.ToLower(strings.Join(strings.Fields(candidate), ""))
			candidate = strings.Trim(candidate, `.,;:!?()[]{}"'`)
			at := strings.Index(candidate, "@")
			if at <= 0 || at == len(candidate)-1 {
				continue
			}
			domain := candidate[at+1:]
			if !strings.Contains(domain, ".") || len(candidate) <= 5 || len(domain) <= 2 {
				continue
			}
			if _, seen := found[candidate]; seen {
				continue
			}
			found[candidate] = struct{}{}
			out = append(out, candidate)
		}
	}
	return out
}

// ExtractPhones returns the deduplicated phone-like strings found in text,
// in first-seen order.
func ExtractPhones(text string) []string {
	found := map[string]struct{}{}
	out := []string{}
	for _, pattern := range phonePatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			candidate := lastCapturedOrWhole(pattern, match)
			if len(digitsOnly(candidate)) < 10 {
				continue
			}
			candidate = strings.TrimSpace(candidate)
			if _, seen := found[candidate]; seen {
				continue
			}
			found[candidate] = struct{}{}
			out = append(out, candidate)
		}
	}
	return out
}

// Extract runs both email and phone extraction over text.
func Extract(text string) Info {
	if strings.TrimSpace(text) == "" {
		return Info{}
	}
	emails := ExtractEmails(text)
	phones := ExtractPhones(text)
	return Info{
		HasContact: len(emails) > 0 || len(phones) > 0,
		Emails:     emails,
		Phones:     phones,
	}
}

// IsContactQuery reports whether the question is asking for contact info.
func IsContactQuery(question string) bool {
	lower := strings.ToLower(question)
	for _, kw := range contactKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// FormatResponse renders extracted Info into the user-facing answer text,
// favoring the channel (email vs phone) the question asked about.
func FormatResponse(info Info, question string) string {
	lower := strings.ToLower(question)
	askingEmail := containsAny(lower, "email", "e-mail", "mail")
	askingPhone := containsAny(lower, "phone", "call", "ring", "telephone", "mobile")

	var parts []string
	switch {
	case askingEmail && len(info.Emails) > 0:
		parts = append(parts, "Email: "+strings.Join(info.Emails, ", "))
	case askingPhone && len(info.Phones) > 0:
		parts = append(parts, "Phone: "+strings.Join(info.Phones, ", "))
	case askingEmail && len(info.Emails) == 0:
		return "I couldn't find any email addresses in the available content. Try asking for general contact information or check for a contact page."
	case askingPhone && len(info.Phones) == 0:
		return "I couldn't find any phone numbers in the available content. Try asking for general contact information or check for a contact page."
	default:
		if len(info.Emails) > 0 {
			parts = append(parts, "Email: "+strings.Join(info.Emails, ", "))
		}
		if len(info.Phones) > 0 {
			parts = append(parts, "Phone: "+strings.Join(info.Phones, ", "))
		}
	}

	if len(parts) > 0 {
		return "Here's the contact information I found:\n\n" + strings.Join(parts, "\n\n")
	}
	switch {
	case askingEmail:
		return "I couldn't find any email addresses in the available content. Try asking for general contact information or check for a contact page."
	case askingPhone:
		return "I couldn't find any phone numbers in the available content. Try asking for general contact information or check for a contact page."
	default:
		return "I couldn't find specific contact information in the available content. You might want to look for a contact page."
	}
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
