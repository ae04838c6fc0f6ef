package crawler

import (
	"regexp"
	"strings"
)

var boilerplatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bhome\b.*\babout\b.*\bcontact\b`),
	regexp.MustCompile(`(?i)\bmenu\b`),
	regexp.MustCompile(`(?i)\bnavigation\b`),
	regexp.MustCompile(`(?i)\bskip to\b`),
	regexp.MustCompile(`(?i)\bmain content\b`),
	regexp.MustCompile(`(?i)\bbreadcrumb\b`),
	regexp.MustCompile(`(?i)\bgo to\b.*\bpage\b`),
	regexp.MustCompile(`(?i)\bprevious\b.*\bnext\b`),
	regexp.MustCompile(`(?i)^(home|about|contact|services|products|blog|news)$`),
	regexp.MustCompile(`(?i)\bfollow us\b`),
	regexp.MustCompile(`(?i)\bshare this\b`),
	regexp.MustCompile(`(?i)\blike us on\b`),
	regexp.MustCompile(`(?i)\bfacebook\b.*\btwitter\b.*\binstagram\b`),
	regexp.MustCompile(`(?i)\bsocial media\b`),
	regexp.MustCompile(`(?i)\bsubscribe\b.*\bnewsletter\b`),
	regexp.MustCompile(`(?i)\bsign up\b.*\bupdates\b`),
	regexp.MustCompile(`(?i)\bcopyright\b.*\d{4}`),
	regexp.MustCompile(`(?i)\ball rights reserved\b`),
	regexp.MustCompile(`(?i)\bprivacy policy\b`),
	regexp.MustCompile(`(?i)\bterms of service\b`),
	regexp.MustCompile(`(?i)\bterms and conditions\b`),
	regexp.MustCompile(`(?i)\bcookie policy\b`),
	regexp.MustCompile(`(?i)\bpowered by\b`),
	regexp.MustCompile(`(?i)\bdesigned by\b`),
	regexp.MustCompile(`(?i)^(click here|read more|learn more|view all|see all|show more)\.?$`),
	regexp.MustCompile(`(?i)^\d+\s+(comments?|views?|likes?|shares?)\.?$`),
	regexp.MustCompile(`^\w+\s*:\s*$`),
	regexp.MustCompile(`(?i)^(yes|no|ok|cancel|submit|send|search)\.?$`),
	regexp.MustCompile(`^\s*[\d\s\-\(\)]+\s*$`),
}

// IsBoilerplateText flags navigation, social, legal, and generic
// low-value snippets so the extraction pass doesn't index them as page
// content, matching _is_boilerplate_text.
func IsBoilerplateText(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, p := range boilerplatePatterns {
		if p.MatchString(lower) {
			return true
		}
	}

	words := strings.Fields(lower)
	if len(words) > 2 {
		counts := map[string]int{}
		for _, w := range words {
			counts[w]++
		}
		most := 0
		for _, c := range counts {
			if c > most {
				most = c
			}
		}
		if float64(most)/float64(len(words)) > 0.5 {
			return true
		}
	}
	return false
}

// HasGoodWordVariety requires at least 4 words and at least 60% of them
// unique, filtering out thin or repetitive pages before they're chunked,
// matching _has_good_word_variety.
func HasGoodWordVariety(words []string) bool {
	if len(words) < 4 {
		return false
	}
	unique := map[string]struct{}{}
	for _, w := range words {
		unique[strings.ToLower(w)] = struct{}{}
	}
	return float64(len(unique))/float64(len(words)) >= 0.6
}
