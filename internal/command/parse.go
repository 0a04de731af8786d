package command

import (
	"strings"
)

// Command represents a parsed input line.
type Command struct {
	// Name is the lowercased first token.
	Name string
	// Args are the remaining tokens in their original case.
	Args []string
	// Raw is the trimmed input.
	Raw string
	// Remainder is everything after the first token, original case.
	Remainder string
	// Key is the whole line lowercased with inner whitespace collapsed,
	// used for content lookups.
	Key string
}

// Parse splits a submitted line. It reports false for blank input.
func Parse(input string) (Command, bool) {
	raw := strings.TrimSpace(input)
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return Command{}, false
	}
	return Command{
		Name:      strings.ToLower(fields[0]),
		Args:      fields[1:],
		Raw:       raw,
		Remainder: remainderAfterTokens(raw, 1),
		Key:       strings.ToLower(strings.Join(fields, " ")),
	}, true
}

func remainderAfterTokens(raw string, count int) string {
	i := 0
	remaining := count
	for remaining > 0 && i < len(raw) {
		for i < len(raw) && isSpace(raw[i]) {
			i++
		}
		for i < len(raw) && !isSpace(raw[i]) {
			i++
		}
		remaining--
	}
	if i >= len(raw) {
		return ""
	}
	return strings.TrimSpace(raw[i:])
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
