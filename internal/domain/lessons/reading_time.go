package lessons

import "strings"

const wordsPerMinute = 200

// ReadingTimeMinutes estimates how long a lesson takes to read, never less
// than one minute.
func ReadingTimeMinutes(text string) int {
	words := len(strings.Fields(text))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
