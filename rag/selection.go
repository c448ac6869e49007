package rag

// selectDiverse walks candidates in order and keeps each one unless its
// parent document already has maxPerParent picks, stopping once maxTotal
// are kept. Skipped candidates free their slot for later ones from other
// parents, so the result leans on more distinct documents than a plain
// head-of-list cut would.
func selectDiverse(candidates []Candidate, maxPerParent, maxTotal int) []Candidate {
	if maxPerParent <= 0 || maxTotal <= 0 {
		return nil
	}

	selected := make([]Candidate, 0, min(len(candidates), maxTotal))
	perParent := make(map[string]int)
	for _, cand := range candidates {
		if len(selected) >= maxTotal {
			break
		}
		parent := cand.parentKey()
		if perParent[parent] >= maxPerParent {
			continue
		}
		perParent[parent]++
		selected = append(selected, cand)
	}
	return selected
}
