package generation

import (
	"strings"

	"github.com/jackzampolin/presence/internal/prompts/content"
)

// SplitVariants splits raw model output on separator lines and returns
// exactly n variants: short output is padded by repeating the last
// variant, long output is truncated. It returns nil when raw holds no
// non-empty chunk.
func SplitVariants(raw string, n int) []string {
	if n < 1 {
		n = 1
	}

	var (
		chunks  []string
		current []string
	)
	flush := func() {
		if chunk := strings.TrimSpace(strings.Join(current, "\n")); chunk != "" {
			chunks = append(chunks, chunk)
		}
		current = current[:0]
	}
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == content.VariantSeparator {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	if len(chunks) == 0 {
		return nil
	}
	for len(chunks) < n {
		chunks = append(chunks, chunks[len(chunks)-1])
	}
	return chunks[:n]
}
