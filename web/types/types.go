package types

// ContextRequest is the caller's ask: a question plus optional retrieval hints.
type ContextRequest struct {
	Query      string   `json:"query"`
	FocusTerms []string `json:"focus_terms"`
	Parents    []string `json:"parents"`
}

// ContextResponse carries the assembled context bundle and the counters a
// caller needs to decide what to do with it. Declined true with an empty
// context means retrieval found nothing trustworthy enough to ground on.
type ContextResponse struct {
	Context         string `json:"context"`
	Declined        bool   `json:"declined"`
	CandidateCount  int    `json:"candidate_count"`
	SelectedCount   int    `json:"selected_count"`
	BlockCount      int    `json:"block_count"`
	EstimatedTokens int    `json:"estimated_tokens"`
	RequestID       string `json:"request_id,omitempty"`
}

// FragmentUpsertRequest describes one fragment to index, stored in the DB.
type FragmentUpsertRequest struct {
	ID       string `json:"id"`
	ParentID string `json:"parent_id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

// FragmentUpsertResponse returns the stored fragment's identifier.
type FragmentUpsertResponse struct {
	ID string `json:"id"`
}

// FragmentDeleteResponse reports how many fragments a parent delete removed.
type FragmentDeleteResponse struct {
	Deleted int64 `json:"deleted"`
}
