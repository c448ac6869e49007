package rag

import "testing"

func TestShouldDecline(t *testing.T) {
	tests := []struct {
		name        string
		candidates  []Candidate
		minTopScore float64
		minScoreGap float64
		want        bool
	}{
		{
			name:        "no_candidates_declines",
			candidates:  nil,
			minTopScore: 0.12,
			minScoreGap: 0.01,
			want:        true,
		},
		{
			name: "three_candidates_proceed_despite_low_scores",
			candidates: []Candidate{
				{ID: "a", Score: 0.02},
				{ID: "b", Score: 0.01},
				{ID: "c", Score: 0.01},
			},
			minTopScore: 0.12,
			minScoreGap: 0.01,
			want:        false,
		},
		{
			name: "single_weak_candidate_declines",
			candidates: []Candidate{
				{ID: "a", Score: 0.05},
			},
			minTopScore: 0.12,
			minScoreGap: 0.10,
			want:        true,
		},
		{
			name: "single_weak_candidate_with_clear_lead_proceeds",
			candidates: []Candidate{
				{ID: "a", Score: 0.05},
			},
			minTopScore: 0.12,
			minScoreGap: 0.01,
			want:        false,
		},
		{
			name: "two_close_weak_candidates_decline",
			candidates: []Candidate{
				{ID: "a", Score: 0.10},
				{ID: "b", Score: 0.095},
			},
			minTopScore: 0.12,
			minScoreGap: 0.01,
			want:        true,
		},
		{
			name: "strong_top_score_proceeds_despite_tiny_gap",
			candidates: []Candidate{
				{ID: "a", Score: 0.80},
				{ID: "b", Score: 0.799},
			},
			minTopScore: 0.12,
			minScoreGap: 0.01,
			want:        false,
		},
		{
			name: "weak_top_with_wide_gap_proceeds",
			candidates: []Candidate{
				{ID: "a", Score: 0.10},
				{ID: "b", Score: 0.01},
			},
			minTopScore: 0.12,
			minScoreGap: 0.01,
			want:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shouldDecline(tt.candidates, tt.minTopScore, tt.minScoreGap)
			if got != tt.want {
				t.Errorf("shouldDecline() = %v, want %v", got, tt.want)
			}
		})
	}
}
