package rag

import "strings"

// condense merges a group's deduplicated fragments into one passage and
// keeps only the leading sentences, trading tail detail for room in the
// token budget. Fragments are joined with single spaces before splitting
// so a sentence straddling a chunk boundary still counts as one. Returns
// "" when nothing survives, which drops the group's block.
func (p *Pipeline) condense(fragments []string) string {
	merged := strings.TrimSpace(strings.Join(fragments, " "))
	if merged == "" {
		return ""
	}

	sentences := p.splitter.Split(merged)
	if len(sentences) == 0 {
		return ""
	}
	if len(sentences) > p.cfg.SentenceLimit {
		sentences = sentences[:p.cfg.SentenceLimit]
	}
	return strings.Join(sentences, " ")
}
