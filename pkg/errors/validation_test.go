package errors

import (
	"strings"
	"testing"
)

func TestValidateItemID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "harbor", false},
		{"valid with dash", "harbor-2024", false},
		{"valid with slash", "trips/lisbon/01", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"space", "harbor view", true},
		{"hash", "harbor#1", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateItemID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateItemID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateItemID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "gallery.toml", false},
		{"nested", "content/photos/gallery.yaml", false},
		{"absolute", "/srv/site/gallery.json", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 600), true},
		{"null byte", "gallery\x00.toml", true},
		{"control char", "gallery\x01.toml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateHref(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"", false},
		{"/posts/harbor", false},
		{"https://example.com/a", false},
		{"http://example.com/a", false},

		{"//evil.example.com", true},
		{"javascript:alert(1)", true},
		{"posts/harbor", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateHref(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHref(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
