package lessons

import (
	"strings"
	"testing"
)

func TestReadingTimeMinutes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty text still reads one minute", "", 1},
		{"short text rounds up", "just a few words here", 1},
		{"exactly one minute", strings.Repeat("word ", 200), 1},
		{"one word over rounds up", strings.Repeat("word ", 201), 2},
		{"long lesson", strings.Repeat("word ", 1000), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReadingTimeMinutes(tt.text); got != tt.want {
				t.Errorf("ReadingTimeMinutes() = %d, want %d", got, tt.want)
			}
		})
	}
}
