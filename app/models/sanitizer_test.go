package models

import (
	"strings"
	"testing"
)

func TestSanitizeRemovesMarkerTokens(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain_text", "nothing to clean", "nothing to clean"},
		{"all_four_tokens", "<s>[INST] hi [/INST] there</s>", "hi  there"},
		{"repeated_tokens", "[INST][INST]x[/INST][/INST]", "x"},
		{"trims_whitespace", "  answer  ", "answer"},
		{"nested_fragments", "<<s>s>leak</<s>s>", "leak"},
		{"only_tokens", "<s>[INST][/INST]</s>", ""},
	}
	for _, cse := range cases {
		t.Run(cse.name, func(t *testing.T) {
			got := Sanitize(cse.input)
			if got != cse.want {
				t.Fatalf("got %q, want %q", got, cse.want)
			}
			for _, token := range markerTokens {
				if strings.Contains(got, token) {
					t.Fatalf("token %q survived sanitizing: %q", token, got)
				}
			}
		})
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"plain",
		"<s>[INST] hi [/INST]</s>",
		"<<s>s>nested</s>",
		"   padded [INST] ",
		"",
	}
	for _, input := range inputs {
		once := Sanitize(input)
		twice := Sanitize(once)
		if once != twice {
			t.Fatalf("not idempotent for %q: %q vs %q", input, once, twice)
		}
	}
}
