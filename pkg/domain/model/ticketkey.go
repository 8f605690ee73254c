package model

import "regexp"

// ticketKeyPattern matches tracker keys like "SCRUM-25": one uppercase
// letter, one or more uppercase letters or digits, a dash, then digits.
// Both sides are word-bounded so a search for a key never prefix-matches a
// longer number (SCRUM-25 does not match inside SCRUM-250).
var ticketKeyPattern = regexp.MustCompile(`\b[A-Z][A-Z0-9]+-\d+\b`)

// ExtractTicketKey returns the first ticket key found in a branch name,
// scanning left to right. Branch names like "feature/SCRUM-25-backup"
// yield "SCRUM-25".
func ExtractTicketKey(branch string) (TicketKey, bool) {
	match := ticketKeyPattern.FindString(branch)
	if match == "" {
		return "", false
	}
	return TicketKey(match), true
}

// ExtractTicketKeys returns every ticket key referenced in free text such
// as a commit message or PR title/body, in scan order, deduplicated.
func ExtractTicketKeys(text string) []TicketKey {
	if text == "" {
		return nil
	}

	var keys []TicketKey
	seen := map[TicketKey]bool{}
	for _, match := range ticketKeyPattern.FindAllString(text, -1) {
		key := TicketKey(match)
		if !seen[key] {
			keys = append(keys, key)
			seen[key] = true
		}
	}
	return keys
}
