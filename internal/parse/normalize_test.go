package parse

import "testing"

func TestCleanText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		out  string
	}{
		{"plain", "7 апреля", "7 апреля"},
		{"zero-width removed", "7​ апреля‍", "7 апреля"},
		{"nbsp to space", "50 000", "50 000"},
		{"narrow space to space", "1 234", "1 234"},
		{"newlines preserved", "7 апреля\n-250р хлеб", "7 апреля\n-250р хлеб"},
		{"tab to space", "a\tb", "a b"},
		{"punctuation untouched", "-250р [еда], ок.", "-250р [еда], ок."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanText(tc.in); got != tc.out {
				t.Fatalf("CleanText(%q) = %q, expected %q", tc.in, got, tc.out)
			}
		})
	}
}
