package brief

import (
	"strings"
	"unicode"
)

// Bulletize splits free text into key points: one per line, leading bullet
// glyphs and surrounding whitespace removed, empty lines dropped, capped at
// MaxBullets.
func Bulletize(text string) []string {
	return BulletizeLines([]string{text})
}

// BulletizeLines applies Bulletize to every element, splitting elements that
// contain newlines. BulletizeLines(BulletizeLines(x)) == BulletizeLines(x).
func BulletizeLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, chunk := range lines {
		for _, line := range strings.Split(chunk, "\n") {
			line = strings.TrimLeftFunc(line, isBulletPrefix)
			line = strings.TrimRightFunc(line, unicode.IsSpace)
			if line == "" {
				continue
			}
			out = append(out, line)
			if len(out) == MaxBullets {
				return out
			}
		}
	}
	return out
}

func isBulletPrefix(r rune) bool {
	switch r {
	case '•', '-', '*', '·', '–', '—', '▪', '‣':
		return true
	}
	return unicode.IsSpace(r)
}
