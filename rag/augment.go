package rag

import "strings"

// augmentQuery appends focus terms to the query as a bracketed hint so the
// embedding and lexical branches both see them without rewriting the user's
// words. Blank terms, repeats and terms already present in the query are
// skipped; with nothing left to add the query passes through unchanged.
func augmentQuery(query string, focusTerms []string) string {
	query = strings.TrimSpace(query)
	if len(focusTerms) == 0 {
		return query
	}

	lower := strings.ToLower(query)

	// Track additions to avoid duplicates
	additionSet := make(map[string]struct{}, len(focusTerms))
	additions := make([]string, 0, len(focusTerms))
	for _, term := range focusTerms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		termLower := strings.ToLower(term)
		if _, seen := additionSet[termLower]; seen {
			continue
		}
		additionSet[termLower] = struct{}{}
		// Skip terms the query already contains as a whole word or phrase.
		if containsPhrase(lower, termLower) {
			continue
		}
		additions = append(additions, term)
	}

	if len(additions) == 0 {
		return query
	}

	builder := strings.Builder{}
	builder.WriteString(query)
	builder.WriteString(" [")
	builder.WriteString(strings.Join(additions, ", "))
	builder.WriteString("]")
	return builder.String()
}

// containsPhrase checks if phrase exists as a word/phrase in text (not substring).
// Example: "test" won't match "testing", but will match "run test" or "test data"
func containsPhrase(text, phrase string) bool {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return false
	}

	// Pad text for boundary checking
	if !strings.HasPrefix(text, " ") {
		text = " " + text
	}
	if !strings.HasSuffix(text, " ") {
		text = text + " "
	}

	// Check for phrase with word boundaries
	searchPatterns := []string{
		" " + phrase + " ", // Word boundaries on both sides
		" " + phrase + ".", // Phrase at end of sentence
		" " + phrase + ",", // Phrase before comma
		" " + phrase + "?", // Phrase at end of question
		" " + phrase + "!", // Phrase at end of exclamation
		" " + phrase + ":", // Phrase before colon
		" " + phrase + ";", // Phrase before semicolon
	}

	for _, pattern := range searchPatterns {
		if strings.Contains(text, pattern) {
			return true
		}
	}

	return false
}
