package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyName(t *testing.T) {
	cases := map[string]string{
		"A":          "a",
		"Space":      "space",
		"ArrowUp":    "up",
		"ArrowRight": "right",
		"Escape":     "escape",
		"Digit1":     "1",
		"Enter":      "enter",
	}
	for in, want := range cases {
		assert.Equal(t, want, KeyName(in), in)
	}
}
