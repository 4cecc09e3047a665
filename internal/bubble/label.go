package bubble

import (
	"math"
	"strings"
	"unicode/utf8"
)

// FontSize picks a label size for a bubble radius.
func FontSize(r float64) float64 {
	return math.Max(12, math.Min(16, r/6))
}

// CharsPerLine estimates how many glyphs fit across 80% of the diameter.
func CharsPerLine(r float64) int {
	n := int(math.Floor(r * 2 * 0.8 / (FontSize(r) * 0.6)))
	if n < 1 {
		return 1
	}
	return n
}

// WrapLabel breaks title into lines of at most perLine runes. Words longer
// than a line are split.
func WrapLabel(title string, perLine int) []string {
	if perLine < 1 {
		perLine = 1
	}
	var lines []string
	current := ""
	for _, word := range strings.Fields(title) {
		for utf8.RuneCountInString(word) > perLine {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			runes := []rune(word)
			lines = append(lines, string(runes[:perLine]))
			word = string(runes[perLine:])
		}
		if word == "" {
			continue
		}
		switch {
		case current == "":
			current = word
		case utf8.RuneCountInString(current)+1+utf8.RuneCountInString(word) <= perLine:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
