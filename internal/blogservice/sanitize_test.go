package blogservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeContent(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text untouched",
			input: "Hello, World!",
			want:  "Hello, World!",
		},
		{
			name:  "script tag removed",
			input: "<script>alert('Hello, World!');</script>",
			want:  "",
		},
		{
			name: "multiple script tags removed",
			input: `Here is some text.
					<script>alert('Hello, world!');</script>
					More text.
					<SCRIPT SRC="evil.js"></SCRIPT>`,
			want: "Here is some text.\n\t\t\t\t\t\n\t\t\t\t\tMore text.\n\t\t\t\t\t",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, sanitizeContent(tc.input))
		})
	}
}
