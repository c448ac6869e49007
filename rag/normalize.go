package rag

import (
	"strings"
	"unicode"
)

// normalizeFragment canonicalizes fragment text before deduplication and
// condensing: line endings become \n, control and zero-width characters are
// stripped, runs of whitespace inside a line collapse to a single space,
// runs of three or more blank lines collapse to one, and the whole text is
// trimmed. The function is idempotent, so fingerprints computed from its
// output are stable across re-ingestion.
func normalizeFragment(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = stripInvisible(text)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}

	collapsed := make([]string, 0, len(lines))
	blanks := 0
	for _, line := range lines {
		if line == "" {
			blanks++
			continue
		}
		if blanks >= 3 {
			collapsed = append(collapsed, "")
		} else {
			for i := 0; i < blanks; i++ {
				collapsed = append(collapsed, "")
			}
		}
		blanks = 0
		collapsed = append(collapsed, line)
	}

	return strings.TrimSpace(strings.Join(collapsed, "\n"))
}

// stripInvisible removes control characters (keeping newline and tab) and
// the zero-width code points that PDF extractors and web scrapers tend to
// leave behind.
func stripInvisible(text string) string {
	var builder strings.Builder
	builder.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' {
			builder.WriteRune(r)
			continue
		}
		if unicode.IsControl(r) {
			continue
		}
		switch r {
		case '​', '‌', '‍', '⁠', '﻿':
			continue
		}
		builder.WriteRune(r)
	}
	return builder.String()
}
