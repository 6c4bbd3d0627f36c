package constants

import "regexp"

// Placeholders substituted for fields that match the moderation blocklist.
// The whole field is replaced, never a substring, so a partially matched
// offensive term can't leak around the redaction.
const (
	FilteredItemPlaceholder        = "[Filtered Item]"
	FilteredDescriptionPlaceholder = "[Filtered Description]"
)

// ModerationBlocklist holds patterns tested against every extracted name and
// description. Word-boundary anchored so e.g. "class" doesn't trip "ass".
var ModerationBlocklist = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bfuck\w*\b`),
	regexp.MustCompile(`(?i)\bshit\w*\b`),
	regexp.MustCompile(`(?i)\bbitch\w*\b`),
	regexp.MustCompile(`(?i)\bcunt\w*\b`),
	regexp.MustCompile(`(?i)\basshole\w*\b`),
	regexp.MustCompile(`(?i)\bnigg\w+\b`),
	regexp.MustCompile(`(?i)\bfaggot\w*\b`),
	regexp.MustCompile(`(?i)\bretard\w*\b`),
	regexp.MustCompile(`(?i)\bwhore\w*\b`),
	regexp.MustCompile(`(?i)\bslut\w*\b`),
}
