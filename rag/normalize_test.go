package rag

import "testing"

func TestNormalizeFragment(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "windows_line_endings",
			text: "first\r\nsecond",
			want: "first\nsecond",
		},
		{
			name: "bare_carriage_returns",
			text: "first\rsecond",
			want: "first\nsecond",
		},
		{
			name: "collapses_intra_line_whitespace",
			text: "spaced   out\t\twords",
			want: "spaced out words",
		},
		{
			name: "strips_zero_width_characters",
			text: "zero​width﻿here⁠",
			want: "zerowidthhere",
		},
		{
			name: "strips_control_characters",
			text: "bell\x07and\x00null",
			want: "bellandnull",
		},
		{
			name: "keeps_single_blank_line",
			text: "para one\n\npara two",
			want: "para one\n\npara two",
		},
		{
			name: "keeps_two_blank_lines",
			text: "para one\n\n\npara two",
			want: "para one\n\n\npara two",
		},
		{
			name: "collapses_three_or_more_blank_lines",
			text: "para one\n\n\n\npara two",
			want: "para one\n\npara two",
		},
		{
			name: "collapses_long_blank_runs",
			text: "para one\n\n\n\n\n\n\npara two",
			want: "para one\n\npara two",
		},
		{
			name: "trims_outer_whitespace",
			text: "  padded  \n",
			want: "padded",
		},
		{
			name: "whitespace_only_becomes_empty",
			text: " \t\r\n ",
			want: "",
		},
		{
			name: "empty_input",
			text: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeFragment(tt.text)
			if got != tt.want {
				t.Errorf("normalizeFragment(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestNormalizeFragmentIsIdempotent(t *testing.T) {
	inputs := []string{
		"mixed \r\n endings\rand   spacing",
		"blank\n\n\n\n\nruns​with zero width",
		"  already mostly clean  ",
		"tabs\tin\tthe\tmiddle",
		"",
	}

	for _, input := range inputs {
		once := normalizeFragment(input)
		twice := normalizeFragment(once)
		if once != twice {
			t.Errorf("normalizeFragment not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}
