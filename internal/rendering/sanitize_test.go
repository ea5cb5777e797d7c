package rendering

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripEmoji(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain text untouched", "Ship faster.", "Ship faster."},
		{"single emoji", "Launch 🚀 today", "Launch  today"},
		{"zwj sequence", "Team 👩‍💻 ready", "Team  ready"},
		{"variation selector", "Love ❤️ it", "Love  it"},
		{"keycap", "Step 1️⃣ done", "Step 1 done"},
		{"typographic marks kept", "1080×1350 ≤125 – “quote” ›", "1080×1350 ≤125 – “quote” ›"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripEmoji(tt.input))
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{"under budget", "hello", 10, "hello"},
		{"exactly at budget", "hello", 5, "hello"},
		{"over budget", "hello world", 6, "hello…"},
		{"multibyte counted as one", "ééééé", 3, "éé…"},
		{"combining mark counted separately", "cafe\u0301 bar", 6, "cafe\u0301…"},
		{"cut drops trailing combining mark", "cafe\u0301 bar", 5, "cafe…"},
		{"no limit", "hello", 0, "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.input, tt.max)
			assert.Equal(t, tt.expected, got)
			if tt.max > 0 {
				assert.LessOrEqual(t, Length(got), tt.max)
			}
		})
	}
}

func TestCut(t *testing.T) {
	assert.Equal(t, "abc", Cut("abcdef", 3))
	assert.Equal(t, "abc", Cut("abc", 3))
	assert.Equal(t, "abcdef", Cut("abcdef", 0))
}

func TestSanitize_StripsBeforeClamping(t *testing.T) {
	text := strings.Repeat("🔥", 20) + "abc"
	assert.Equal(t, "abc", Sanitize(text, 3))
}
