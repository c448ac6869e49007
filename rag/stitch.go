package rag

import (
	"strings"
	"unicode/utf8"
)

const (
	blockJoiner      = "\n"
	truncationMarker = " [...]"

	// trimBoundaryPercent is how far into the character allowance a
	// whitespace boundary must sit for the trim to end there instead of
	// cutting mid-word.
	trimBoundaryPercent = 60
)

// EstimateTokens approximates the token count of text as one token per four
// bytes, rounded up. Every byte counts against the budget, so the estimate
// can overshoot a real tokenizer but never undershoots enough to matter for
// the budget guarantee.
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}

// stitchBlocks joins blocks with newlines while the running token estimate
// stays within budget. The first block that does not fit whole is trimmed
// into the remaining room and ends the bundle; when not even its delimiters
// fit, the block is dropped and the bundle ends there. The joiner bytes are
// charged against the budget, so the returned bundle's estimate never
// exceeds it. The second return reports whether the budget cut the bundle
// short of the full block list.
func stitchBlocks(blocks []string, budget int) (string, bool) {
	if budget <= 0 {
		return "", len(blocks) > 0
	}

	parts := make([]string, 0, len(blocks))
	remaining := budget
	for _, block := range blocks {
		if block == "" {
			continue
		}
		sep := ""
		if len(parts) > 0 {
			sep = blockJoiner
		}
		cost := EstimateTokens(sep + block)
		if cost <= remaining {
			parts = append(parts, block)
			remaining -= cost
			continue
		}
		trimmed := trimBlock(block, remaining*4-len(sep))
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
		return strings.Join(parts, blockJoiner), true
	}
	return strings.Join(parts, blockJoiner), false
}

// trimBlock fits a block into at most limit bytes, preferring to cut the
// inner text of a context block so its delimiters survive intact. The
// truncation marker is charged against the limit. Returns "" when nothing
// meaningful fits.
func trimBlock(block string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(block) <= limit {
		return block
	}

	open, inner, ok := splitContextBlock(block)
	if !ok {
		cut := cutAtBoundary(block, limit-len(truncationMarker))
		if cut == "" {
			return ""
		}
		return cut + truncationMarker
	}

	allowance := limit - len(open) - len(truncationMarker) - len(contextCloseTag)
	cut := cutAtBoundary(inner, allowance)
	if cut == "" {
		return ""
	}
	return open + cut + truncationMarker + contextCloseTag
}

// splitContextBlock separates a formatted block into its opening tag and
// inner text. ok is false for text that is not a well-formed block, in
// which case callers fall back to trimming it raw.
func splitContextBlock(block string) (open, inner string, ok bool) {
	if !strings.HasPrefix(block, contextOpenPrefix) || !strings.HasSuffix(block, contextCloseTag) {
		return "", "", false
	}
	end := strings.Index(block, contextOpenSuffix)
	if end < 0 {
		return "", "", false
	}
	end += len(contextOpenSuffix)
	if end > len(block)-len(contextCloseTag) {
		return "", "", false
	}
	return block[:end], block[end : len(block)-len(contextCloseTag)], true
}

// cutAtBoundary shortens text to at most limit bytes, ending at the last
// whitespace boundary when one sits past trimBoundaryPercent of the limit
// and otherwise cutting hard at a rune boundary.
func cutAtBoundary(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(text) <= limit {
		return strings.TrimRight(text, " \n\t")
	}

	cut := text[:limit]
	if idx := strings.LastIndexAny(cut, " \n\t"); idx >= limit*trimBoundaryPercent/100 {
		cut = cut[:idx]
	} else {
		for len(cut) > 0 {
			r, size := utf8.DecodeLastRuneInString(cut)
			if r == utf8.RuneError && size <= 1 {
				cut = cut[:len(cut)-1]
				continue
			}
			break
		}
	}
	return strings.TrimRight(cut, " \n\t")
}
