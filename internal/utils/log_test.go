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
		{name: "non-positive limit", input: "University: HUST", limit: 0, expect: ""},
		{name: "fits", input: "HUST", limit: 10, expect: "HUST"},
		{name: "cut with ellipsis", input: "Company: FPT Software", limit: 7, expect: "Company..."},
		{name: "whitespace trimmed first", input: "  Viettel  ", limit: 7, expect: "Viettel"},
		{name: "counts runes", input: "Đại học Bách Khoa", limit: 7, expect: "Đại học..."},
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
