package internal

import "testing"

func TestParseMode(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"true", true},
		{"1", true},
		{"false", false},
		{"0", false},
		{"", false},
		{"yes", false},
	}

	for _, tt := range tests {
		t.Run("raw="+tt.raw, func(t *testing.T) {
			if got := parseMode(tt.raw); got != tt.want {
				t.Fatalf("parseMode(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestModeSetters(t *testing.T) {
	defer func() {
		SetQuiet(false)
		SetDebug(false)
		SetVerbose(false)
	}()

	SetQuiet(true)
	if !IsQuiet() {
		t.Fatal("quiet mode not persisted")
	}

	SetDebug(true)
	if !IsDebug() {
		t.Fatal("debug mode not persisted")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Fatal("verbose mode not persisted")
	}

	SetQuiet(false)
	if IsQuiet() {
		t.Fatal("quiet mode not cleared")
	}
}
