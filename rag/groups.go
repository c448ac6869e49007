package rag

// documentGroup collects the selected fragments of one parent document in
// selection order. Title is the first non-empty title seen among its
// fragments; a group whose fragments all lack text keeps an empty chunk
// list and later produces no block.
type documentGroup struct {
	parentID string
	title    string
	chunks   []string
}

// groupByParent folds selected candidates into per-document groups, ordered
// by each parent's first appearance.
func groupByParent(selected []Candidate) []documentGroup {
	order := make([]string, 0, len(selected))
	byParent := make(map[string]*documentGroup, len(selected))

	for _, cand := range selected {
		key := cand.parentKey()
		group, ok := byParent[key]
		if !ok {
			group = &documentGroup{parentID: key}
			byParent[key] = group
			order = append(order, key)
		}
		if group.title == "" && cand.Title != "" {
			group.title = cand.Title
		}
		if cand.Text != "" {
			group.chunks = append(group.chunks, cand.Text)
		}
	}

	groups := make([]documentGroup, 0, len(order))
	for _, key := range order {
		groups = append(groups, *byParent[key])
	}
	return groups
}
