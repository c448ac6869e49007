package rag

import "testing"

func TestFormatBlock(t *testing.T) {
	tests := []struct {
		name  string
		title string
		text  string
		want  string
	}{
		{
			name:  "simple_block",
			title: "Installation Guide",
			text:  "Run the installer.",
			want:  `<context source="Installation Guide">Run the installer.</context>`,
		},
		{
			name:  "missing_title_gets_placeholder",
			title: "",
			text:  "orphaned text",
			want:  `<context source="(untitled)">orphaned text</context>`,
		},
		{
			name:  "whitespace_title_gets_placeholder",
			title: "   ",
			text:  "orphaned text",
			want:  `<context source="(untitled)">orphaned text</context>`,
		},
		{
			name:  "escapes_attribute_characters",
			title: `A "B" <C> & D`,
			text:  "body",
			want:  `<context source="A &quot;B&quot; &lt;C&gt; &amp; D">body</context>`,
		},
		{
			name:  "block_text_left_verbatim",
			title: "T",
			text:  `body with "quotes" & <tags>`,
			want:  `<context source="T">body with "quotes" & <tags></context>`,
		},
		{
			name:  "title_whitespace_trimmed",
			title: "  Padded Title  ",
			text:  "body",
			want:  `<context source="Padded Title">body</context>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatBlock(tt.title, tt.text)
			if got != tt.want {
				t.Errorf("formatBlock(%q, %q) = %q, want %q", tt.title, tt.text, got, tt.want)
			}
		})
	}
}
