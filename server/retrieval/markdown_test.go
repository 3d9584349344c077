package retrieval

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarkdownToPlain(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text passes through",
			input:    "Walk-ins are welcome before noon.",
			expected: "Walk-ins are welcome before noon.",
		},
		{
			name:     "inline emphasis stripped",
			input:    "A **20%** deposit is due for bookings over *one hour*.",
			expected: "A 20% deposit is due for bookings over one hour.",
		},
		{
			name:     "heading and list become lines",
			input:    "# Cancellations\n- 24 hours notice\n- no-show fee applies",
			expected: "Cancellations\n24 hours notice\nno-show fee applies",
		},
		{
			name:     "link keeps its label",
			input:    "See [our terms](https://example.com/terms) for details.",
			expected: "See our terms for details.",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, markdownToPlain(tt.input))
		})
	}
}
