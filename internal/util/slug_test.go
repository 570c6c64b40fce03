package util

import "testing"

func TestFold(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Urgent", "urgent"},
		{"URGENT", "urgent"},
		{"  Leading and trailing  ", "leading and trailing"},
		{"Multiple   inner\tspaces", "multiple inner spaces"},

		// Unicode and accents
		{"Café", "cafe"},
		{"Revisão", "revisao"},
		{"naïve", "naive"},

		// Punctuation is significant
		{"C++", "c++"},
		{"v2.0", "v2.0"},

		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Fold(tt.input); got != tt.expected {
				t.Errorf("Fold(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSameName(t *testing.T) {
	if !SameName("Documentação", "documentacao") {
		t.Error("expected accent- and case-insensitive match")
	}
	if SameName("Bug", "Bugs") {
		t.Error("expected different names not to match")
	}
}
