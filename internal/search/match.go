package search

import "strings"

// containsWord checks if text contains the word (with word boundary awareness)
func containsWord(text, word string) bool {
	if word == "" {
		return false
	}

	for from := 0; from <= len(text)-len(word); {
		idx := strings.Index(text[from:], word)
		if idx == -1 {
			return false
		}
		idx += from

		// "go" must not match "golang" or "django"
		endIdx := idx + len(word)
		before := idx > 0 && isWordChar(text[idx-1])
		after := endIdx < len(text) && isWordChar(text[endIdx])
		if !before && !after {
			return true
		}

		from = idx + 1
	}

	return false
}

// isWordChar returns true for alphanumeric characters
func isWordChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
