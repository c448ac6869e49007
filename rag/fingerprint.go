package rag

import (
	"crypto/sha256"
	"encoding/hex"
)

// contentFingerprint returns a hex-encoded SHA-256 of the text. Fragments
// are fingerprinted after normalization, so texts differing only in line
// endings or stray whitespace collapse to the same fingerprint.
func contentFingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// dedupeFragments drops fragments whose fingerprint was already seen,
// keeping the first occurrence and the original order. Callers apply it
// within a single document group; the same text appearing under two
// different parents stays in both.
func dedupeFragments(fragments []string) []string {
	if len(fragments) < 2 {
		return fragments
	}

	seen := make(map[string]struct{}, len(fragments))
	deduped := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		fp := contentFingerprint(fragment)
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		deduped = append(deduped, fragment)
	}
	return deduped
}
