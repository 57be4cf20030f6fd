package errors

import (
	"strings"
	"testing"
)

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"root", "root", false},
		{"nested", "root.modules.0.name", false},
		{"escaped", `root.a\.b`, false},
		{"unicode", "root.città", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", MaxNodeIDLength+1), true},
		{"tab in key", "root.a\tb", false},
		{"newline in key", "root.c\nd", false},
		{"invalid utf8", "root.\xff", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateNodeID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateRawValue(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"number", "12", false},
		{"multiline", "a\nb", false},
		{"null byte", "a\x00b", true},
		{"invalid utf8", "\xff\xfe", true},
		{"too long", strings.Repeat("x", MaxRawValueLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRawValue(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRawValue(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "diagram.svg", false},
		{"relative dir", "out/diagram.png", false},
		{"absolute", "/tmp/diagram.svg", false},
		{"dotted name", "a..b.svg", false},

		{"empty", "", true},
		{"traversal", "../diagram.svg", true},
		{"nested traversal", "out/../../x.svg", true},
		{"null byte", "a\x00.svg", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSessionID(t *testing.T) {
	if err := ValidateSessionID("0b5a3c9e-6d1f-4c2a-9e7b-1f2d3c4b5a69"); err != nil {
		t.Errorf("ValidateSessionID(valid) = %v", err)
	}
	for _, bad := range []string{"", "abc", "0B5A3C9E-6D1F-4C2A-9E7B-1F2D3C4B5A69", "../etc/passwd"} {
		if err := ValidateSessionID(bad); err == nil {
			t.Errorf("ValidateSessionID(%q) = nil, want error", bad)
		}
	}
}

func TestValidateSource(t *testing.T) {
	if err := ValidateSource(`{"a":1}`); err != nil {
		t.Errorf("ValidateSource(small) = %v", err)
	}
	if err := ValidateSource(strings.Repeat(" ", MaxSourceSize+1)); err == nil {
		t.Error("ValidateSource(huge) = nil, want error")
	}
}
