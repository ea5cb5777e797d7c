// Package knowledge loads the brand knowledge base and selects the excerpt that grounds model prompts.
package knowledge

import (
	"strings"
	"unicode/utf8"
)

const (
	// MaxLines is the most matching lines Retrieve returns.
	MaxLines = 10
	// FallbackChars is how much of the corpus Retrieve returns when nothing matches.
	FallbackChars = 800
)

// Retrieve returns up to MaxLines corpus lines sharing at least one whitespace-delimited
// token with the query, ignoring case. When the query is empty or no line matches it
// returns the first FallbackChars characters of the corpus.
func Retrieve(query, corpus string) string {
	if strings.TrimSpace(corpus) == "" {
		return ""
	}

	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return head(corpus, FallbackChars)
	}

	var matched []string
	for _, line := range strings.Split(corpus, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lower := strings.ToLower(line)
		for _, token := range tokens {
			if strings.Contains(lower, token) {
				matched = append(matched, line)
				break
			}
		}
		if len(matched) == MaxLines {
			break
		}
	}

	if len(matched) == 0 {
		return head(corpus, FallbackChars)
	}
	return strings.Join(matched, "\n")
}

func head(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n])
}
