package utils

import (
	"strings"
	"unicode"

	apperrors "grounder/errors"
)

const (
	maxQueryLength     = 2000
	maxFocusTerms      = 8
	maxFocusTermLength = 64
	maxParentIDLength  = 256
)

// SanitizeQuery cleans a user query for the retrieval pipeline. It collapses
// all whitespace runs to single spaces, rejects empty queries, and rejects
// queries longer than the service is willing to embed.
func SanitizeQuery(query string) (string, error) {
	sanitized := strings.Join(strings.Fields(query), " ")
	if sanitized == "" {
		return "", apperrors.WrapError(apperrors.ErrInvalidInput, "query must not be empty")
	}
	if len(sanitized) > maxQueryLength {
		return "", apperrors.WrapErrorf(apperrors.ErrInvalidInput, "query exceeds %d characters", maxQueryLength)
	}
	return sanitized, nil
}

// SanitizeFocusTerms trims focus terms and drops the unusable ones. Terms are
// hints rather than requirements, so empty and oversized entries are silently
// discarded and the list is capped instead of rejected.
func SanitizeFocusTerms(terms []string) []string {
	var sanitized []string
	for _, term := range terms {
		term = strings.Join(strings.Fields(term), " ")
		if term == "" || len(term) > maxFocusTermLength {
			continue
		}
		sanitized = append(sanitized, term)
		if len(sanitized) == maxFocusTerms {
			break
		}
	}
	return sanitized
}

// ValidateParentID checks a caller-supplied parent document identifier.
func ValidateParentID(id string) error {
	if id == "" {
		return apperrors.WrapError(apperrors.ErrInvalidInput, "parent id must not be empty")
	}
	if len(id) > maxParentIDLength {
		return apperrors.WrapErrorf(apperrors.ErrInvalidInput, "parent id exceeds %d characters", maxParentIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return apperrors.WrapError(apperrors.ErrInvalidInput, "parent id contains control characters")
		}
	}
	return nil
}
