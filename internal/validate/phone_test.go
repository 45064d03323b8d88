package validate

import "testing"

func TestMaskPhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "+55 "},
		{"   ", "+55 "},
		{"+55", "+55 "},
		{"+55 1", "+55 (1"},
		{"+5511", "+55 (11"},
		{"+55119", "+55 (11) 9"},
		{"+5511987654321", "+55 (11) 98765-4321"},
		{"+551133334444", "+55 (11) 3333-4444"},
		{"+55119876543219999", "+55 (11) 98765-4321"},
		{"11987654321", "+55 (11) 98765-4321"},
		{"+1", "+1 "},
		{"+14155552671", "+141 555 526 71"},
		{"+351912345678", "+351 912 345 678"},
		{"+abc", "+"},
	}

	for _, tt := range tests {
		if got := MaskPhone(tt.in); got != tt.want {
			t.Errorf("MaskPhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
