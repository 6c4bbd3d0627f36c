package llm

import (
	"regexp"
	"unicode/utf8"
)

// FilteredToken replaces every injection-indicative match in place, so
// legitimate menu text around the match survives.
const FilteredToken = "[filtered]"

// Injection-indicative patterns. Compiled once; regexp matching is stateless,
// so the shared instances are safe across concurrent sanitizations.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(?:all\s+|any\s+)?(?:previous|prior|above|earlier)\s+(?:instructions|prompts|context|messages)`),
	regexp.MustCompile(`(?i)disregard\s+(?:all\s+|any\s+)?(?:previous|prior|above|earlier)\s+(?:instructions|prompts|context)`),
	regexp.MustCompile(`(?i)forget\s+(?:all\s+|any\s+)?(?:previous|prior|above|earlier)\s+(?:instructions|prompts)`),
	regexp.MustCompile(`(?i)override\s+previous(?:\s+instructions)?`),
	regexp.MustCompile(`(?i)new\s+instructions?\s*:`),
	regexp.MustCompile(`(?im)^\s*(?:system|assistant|user)\s*:`),
	regexp.MustCompile(`<\|im_start\|>|<\|im_end\|>|<\|endoftext\|>`),
	regexp.MustCompile(`\[INST\]|\[/INST\]|</?s>`),
	regexp.MustCompile(`(?i)pretend\s+(?:to\s+be|you\s+are)`),
	regexp.MustCompile(`(?i)\bact\s+as\s+(?:if|a|an|the)\b`),
	regexp.MustCompile(`(?i)you\s+are\s+now\b`),
}

// SanitizePrompt neutralizes prompt-injection patterns in untrusted text.
// The second return reports whether anything matched; callers log that flag
// for audit but never block processing on it. Replacement is the enforcement
// mechanism.
func SanitizePrompt(text string) (string, bool) {
	suspicious := false
	for _, p := range injectionPatterns {
		if p.MatchString(text) {
			suspicious = true
			text = p.ReplaceAllString(text, FilteredToken)
		}
	}
	return text, suspicious
}

// Preview bounds untrusted text for audit logging. The cut backs up to a
// rune boundary so the preview stays valid UTF-8.
func Preview(text string, n int) string {
	if len(text) <= n {
		return text
	}
	for n > 0 && !utf8.RuneStart(text[n]) {
		n--
	}
	return text[:n] + "…"
}
