package utils

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Corner Barbershop", "corner-barbershop"},
		{"  Fade & Blade  ", "fade-blade"},
		{"UPPER_case name", "upper-case-name"},
		{"já--com---traços", "j-com-traos"},
		{"123 Cuts", "123-cuts"},
		{"", ""},
		{"---", ""},
	}

	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNewNullString(t *testing.T) {
	if NewNullString("") != nil {
		t.Error("empty string should map to nil")
	}
	if got := NewNullString("x"); got == nil || *got != "x" {
		t.Errorf("NewNullString(\"x\") = %v", got)
	}
}
