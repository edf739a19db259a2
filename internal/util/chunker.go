package util

import (
	"strings"
	"unicode/utf8"
)

const DefaultSoftLimit = 500

// SplitChunks groups the whitespace-separated words of text into chunks of at
// least softLimit words. A chunk only closes on a word ending in '.', '!' or '?'
// while the running quote count for the whole text is even, so chunks may run
// well past softLimit. Remaining words always form a final chunk.
func SplitChunks(text string, softLimit int) []string {
	if softLimit <= 0 {
		softLimit = DefaultSoftLimit
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var out []string
	current := make([]string, 0, softLimit)
	quotes := 0
	for _, word := range words {
		current = append(current, word)
		quotes += countQuotes(word)

		if len(current) >= softLimit && endsSentence(word) && quotes%2 == 0 {
			out = append(out, strings.Join(current, " "))
			current = make([]string, 0, softLimit)
		}
	}
	if len(current) > 0 {
		out = append(out, strings.Join(current, " "))
	}
	return out
}

func countQuotes(word string) int {
	n := 0
	for _, r := range word {
		switch r {
		case '"', '“', '”':
			n++
		}
	}
	return n
}

func endsSentence(word string) bool {
	r, _ := utf8.DecodeLastRuneInString(word)
	return r == '.' || r == '!' || r == '?'
}
