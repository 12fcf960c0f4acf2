package common

import "testing"

func TestIsBlank(t *testing.T) {
	tests := map[string]bool{
		"":        true,
		"   ":     true,
		"\t\n":    true,
		"key":     false,
		"  key  ": false,
		" x\t":    false,
	}

	for input, expected := range tests {
		if got := IsBlank(input); got != expected {
			t.Errorf("IsBlank(%q) = %v, expected %v", input, got, expected)
		}
	}
}

func TestMaskSecret(t *testing.T) {
	tests := map[string]string{
		"":           "",
		"abc":        "***",
		"abcd":       "****",
		"AIzaSy1234": "******1234",
	}

	for input, expected := range tests {
		if got := MaskSecret(input); got != expected {
			t.Errorf("MaskSecret(%q) = %q, expected %q", input, got, expected)
		}
	}
}
