package format

import (
	"fmt"
	"strings"

	"grounder/web/types"
)

// BuildPreviewReport renders a context build result as a markdown report for
// the debug preview page.
func BuildPreviewReport(query string, resp *types.ContextResponse) string {
	var b strings.Builder

	b.WriteString("# Context preview\n\n")
	fmt.Fprintf(&b, "**Query:** %s\n\n", query)

	if resp.Declined {
		b.WriteString("Retrieval declined this query: no candidate cleared the confidence gate.\n\n")
		fmt.Fprintf(&b, "- Candidates retrieved: %d\n", resp.CandidateCount)
		return b.String()
	}

	fmt.Fprintf(&b, "- Candidates retrieved: %d\n", resp.CandidateCount)
	fmt.Fprintf(&b, "- Fragments selected: %d\n", resp.SelectedCount)
	fmt.Fprintf(&b, "- Blocks assembled: %d\n", resp.BlockCount)
	fmt.Fprintf(&b, "- Estimated tokens: %d\n", resp.EstimatedTokens)

	blocks := ParseBlocks(resp.Context)
	if len(blocks) == 0 {
		b.WriteString("\nThe assembled bundle is empty.\n")
		return b.String()
	}

	for i, block := range blocks {
		source := block.Source
		if source == "" {
			source = "(untitled)"
		}
		fmt.Fprintf(&b, "\n## Block %d: %s\n\n", i+1, source)
		for _, line := range strings.Split(block.Text, "\n") {
			fmt.Fprintf(&b, "> %s\n", line)
		}
	}

	return b.String()
}
