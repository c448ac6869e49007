package rag

// shouldDecline decides whether retrieval confidence is too low to be worth
// a context bundle. No candidates always declines. Three or more candidates
// always proceed regardless of their scores, since volume itself is evidence
// the index knows the topic. With one or two candidates the gate declines
// only when the top score is below minTopScore and its lead over the second
// score (zero when absent) is below minScoreGap; either signal alone is
// enough to proceed.
func shouldDecline(candidates []Candidate, minTopScore, minScoreGap float64) bool {
	if len(candidates) == 0 {
		return true
	}
	if len(candidates) >= 3 {
		return false
	}

	topScore := candidates[0].Score
	secondScore := 0.0
	if len(candidates) > 1 {
		secondScore = candidates[1].Score
	}
	return topScore < minTopScore && (topScore-secondScore) < minScoreGap
}
