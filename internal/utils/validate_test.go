package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("a@x.com"))
	assert.True(t, ValidEmail("first.last@sub.example.org"))
	assert.False(t, ValidEmail(""))
	assert.False(t, ValidEmail("not-an-email"))
	assert.False(t, ValidEmail("a@"))
	assert.False(t, ValidEmail("Bob <bob@x.com>"))
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("Al", 2))
	assert.True(t, ValidName("  Al  ", 2))
	assert.False(t, ValidName("A", 2))
	assert.False(t, ValidName("   ", 2))
}

func TestValidPassword(t *testing.T) {
	tests := []struct {
		pw           string
		requireAlnum bool
		want         bool
	}{
		{"abcd1234", true, true},
		{"abcdefgh", true, false}, // no digit
		{"12345678", true, false}, // no letter
		{"ab12", true, false},     // too short
		{"abcdefgh", false, true}, // length-only policy
		{"", false, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidPassword(tt.pw, 8, tt.requireAlnum), "pw=%q alnum=%v", tt.pw, tt.requireAlnum)
	}
}
