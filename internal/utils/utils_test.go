package utils

import "testing"

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{name: "non-positive limit", input: "resume text", limit: 0, expect: ""},
		{name: "fits", input: "17C", limit: 10, expect: "17C"},
		{name: "truncated", input: "Cyber Operations Specialist", limit: 5, expect: "Cyber..."},
		{name: "trims before measuring", input: "  analyst  ", limit: 7, expect: "analyst"},
		{name: "counts runes", input: "héllo wörld", limit: 4, expect: "héll..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
