package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitChunksEmpty(t *testing.T) {
	require.Empty(t, SplitChunks("", 500))
	require.Empty(t, SplitChunks(" \n\t ", 500))
}

func TestSplitChunksSingleWord(t *testing.T) {
	require.Equal(t, []string{"Hello."}, SplitChunks("Hello.", 500))
}

func TestSplitChunksPreservesWords(t *testing.T) {
	text := "It was late.  The rain fell!\n\nShe said \"stay here.\" He left? Yes. No\tmore words here"
	for _, limit := range []int{1, 2, 3, 5, 100} {
		chunks := SplitChunks(text, limit)
		require.Equal(t, strings.Fields(text), strings.Fields(strings.Join(chunks, " ")), "limit %d", limit)
	}
}

func TestSplitChunksBoundaryRule(t *testing.T) {
	text := "one two three. four five! six seven eight nine? ten"
	chunks := SplitChunks(text, 3)
	// "five!" is only the second word of its chunk, so the next boundary is "nine?".
	require.Equal(t, []string{
		"one two three.",
		"four five! six seven eight nine?",
		"ten",
	}, chunks)
}

func TestSplitChunksEveryChunkButLastEndsOnSentence(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 200; i++ {
		b.WriteString("word word word end. ")
	}
	chunks := SplitChunks(b.String(), 10)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks[:len(chunks)-1] {
		words := strings.Fields(c)
		require.GreaterOrEqual(t, len(words), 10)
		require.True(t, endsSentence(words[len(words)-1]))
	}
}

func TestSplitChunksDoesNotCloseInsideQuote(t *testing.T) {
	text := `He said “this is a. long quote. that keeps going.” Then stopped. Done.`
	chunks := SplitChunks(text, 2)
	require.Equal(t, []string{
		`He said “this is a. long quote. that keeps going.” Then stopped.`,
		`Done.`,
	}, chunks)
}

func TestSplitChunksStrayQuoteSuppressesBoundaries(t *testing.T) {
	text := `A “stray opener. Then more. And more. Until the end.`
	chunks := SplitChunks(text, 1)
	require.Equal(t, []string{text}, chunks)
}

func TestSplitChunksBalancedStraightQuotes(t *testing.T) {
	text := `"Go." she said. "Now." he said.`
	chunks := SplitChunks(text, 1)
	// A closing quote is not sentence punctuation, so the break lands on "said.".
	require.Equal(t, []string{`"Go." she said.`, `"Now." he said.`}, chunks)
}

func TestSplitChunksDefaultLimit(t *testing.T) {
	words := make([]string, 0, 1200)
	for i := 0; i < 1200; i++ {
		words = append(words, "w.")
	}
	chunks := SplitChunks(strings.Join(words, " "), 0)
	require.Len(t, chunks, 3)
	require.Len(t, strings.Fields(chunks[0]), DefaultSoftLimit)
	require.Len(t, strings.Fields(chunks[2]), 200)
}
