package menuextract

import "strings"

// splitChunks splits text on line boundaries into the fewest contiguous
// chunks each at most max bytes. A single line longer than max becomes its
// own chunk; lines are never split.
func splitChunks(text string, max int) []string {
	if len(text) <= max {
		return []string{text}
	}

	var (
		chunks []string
		cur    strings.Builder
	)
	for _, line := range strings.SplitAfter(text, "\n") {
		if cur.Len() > 0 && cur.Len()+len(line) > max {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
		cur.WriteString(line)
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}
