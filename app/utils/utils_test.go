package utils

import "testing"

func TestStripHTML(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain_text", "no markup here", "no markup here"},
		{"simple_tags", "<b>bold</b> advice", "bold advice"},
		{"nested_tags", "<div><p>first</p><p>second</p></div>", "firstsecond"},
		{"unclosed_tag", "broken <b>tail", "broken tail"},
	}
	for _, cse := range cases {
		t.Run(cse.name, func(t *testing.T) {
			if got := StripHTML(cse.input); got != cse.want {
				t.Fatalf("got %q, want %q", got, cse.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{"short_enough", "hello", 10, "hello"},
		{"exact_length", "hello", 5, "hello"},
		{"cut_with_ellipsis", "hello world", 8, "hello w…"},
		{"unicode", "привет мир", 7, "привет…"},
		{"zero_max", "hello", 0, ""},
		{"one_rune", "hello", 1, "h"},
	}
	for _, cse := range cases {
		t.Run(cse.name, func(t *testing.T) {
			if got := Truncate(cse.input, cse.max); got != cse.want {
				t.Fatalf("got %q, want %q", got, cse.want)
			}
		})
	}
}
