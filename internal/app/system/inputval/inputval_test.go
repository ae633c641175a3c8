package inputval

import "testing"

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"admin@dintask.com", true},
		{"dina.admin@dintask.com", true},
		{"sales+west@dintask.co.uk", true},
		{"m@sub.team.dintask.com", true},
		{"a@b.co", true},
		{"admin@mailserver", true}, // single-label domain, dev setups

		{"", false},
		{"   ", false},
		{"dina", false},
		{"dina@", false},
		{"@dintask.com", false},
		{"dina@@dintask.com", false},

		{".dina@dintask.com", false},
		{"dina.@dintask.com", false},
		{"dina..admin@dintask.com", false},
		{"dina@.dintask.com", false},
		{"dina@dintask..com", false},

		{"Dina Admin <dina@dintask.com>", false},
		{"dina admin@dintask.com", false},
		{"dina@din task.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestIsValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"+1 (555) 010-2000", true},
		{"555-010-2000", true},
		{"+919876543210", true},
		{"5550102", true},

		{"", false},
		{"   ", false},
		{"12345", false},          // too short
		{"12345678901234567", false}, // too long
		{"555-CALL-NOW", false},
		{"+1 555 010 2000 ext 4", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			if got := IsValidPhone(tt.phone); got != tt.want {
				t.Errorf("IsValidPhone(%q) = %v, want %v", tt.phone, got, tt.want)
			}
		})
	}
}
