package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name        string
		displayName string
		address     string
		expect      string
	}{
		{"explicit display name wins", "Manar", "someone@example.com", "Manar"},
		{"falls back to local part", "", "manar@example.com", "manar"},
		{"whitespace display name is ignored", "   ", "noura@example.com", "noura"},
		{"no email at all", "", "", "User"},
		{"address without local part", "", "@example.com", "User"},
		{"no at sign", "", "gardener", "gardener"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, DisplayName(tt.displayName, tt.address))
		})
	}
}
