package rag

import "strings"

const (
	contextOpenPrefix   = `<context source="`
	contextOpenSuffix   = `">`
	contextCloseTag     = `</context>`
	untitledPlaceholder = "(untitled)"
)

// attributeEscaper rewrites characters that would break out of a quoted
// attribute value. Block text is left verbatim; consumers treat it as
// opaque grounding material, not markup.
var attributeEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// formatBlock wraps condensed text in a context block tagged with its
// source title. Titles are trimmed and escaped; a missing title becomes
// the untitled placeholder so every block names a source.
func formatBlock(title, text string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		title = untitledPlaceholder
	}

	var builder strings.Builder
	builder.Grow(len(contextOpenPrefix) + len(title) + len(contextOpenSuffix) + len(text) + len(contextCloseTag))
	builder.WriteString(contextOpenPrefix)
	builder.WriteString(attributeEscaper.Replace(title))
	builder.WriteString(contextOpenSuffix)
	builder.WriteString(text)
	builder.WriteString(contextCloseTag)
	return builder.String()
}
