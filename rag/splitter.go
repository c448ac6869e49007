package rag

import "strings"

// SentenceSplitter breaks fragment text into sentences for the condenser.
type SentenceSplitter interface {
	Split(text string) []string
}

// RegexSentenceSplitter is the zero-dependency splitter: terminator
// punctuation followed by whitespace ends a sentence. Terminators embedded
// in tokens (decimals, version numbers, acronyms) do not split, but
// abbreviations like "Dr. Smith" over-split. Acceptable for condensing,
// where a wrong boundary only shifts how much text survives.
type RegexSentenceSplitter struct{}

func NewRegexSentenceSplitter() RegexSentenceSplitter {
	return RegexSentenceSplitter{}
}

func (RegexSentenceSplitter) Split(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	runes := []rune(trimmed)
	var sentences []string
	var builder strings.Builder

	isBoundary := func(r rune) bool {
		switch r {
		case '.', '!', '?':
			return true
		default:
			return false
		}
	}
	isSpace := func(r rune) bool {
		switch r {
		case ' ', '\n', '\t':
			return true
		default:
			return false
		}
	}

	flush := func() {
		if builder.Len() == 0 {
			return
		}
		sentence := strings.TrimSpace(builder.String())
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		builder.Reset()
	}

	for idx, r := range runes {
		builder.WriteRune(r)
		if !isBoundary(r) {
			continue
		}
		next := idx + 1
		// A terminator glued to the next token is part of the token.
		if next < len(runes) && !isSpace(runes[next]) {
			continue
		}
		// Look ahead to determine if this is end of sentence
		for next < len(runes) && isSpace(runes[next]) {
			next++
		}
		if next >= len(runes) || isBoundary(runes[next]) {
			continue
		}
		flush()
	}

	flush()

	if len(sentences) == 0 {
		return []string{trimmed}
	}
	return sentences
}
