package textstats

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"ocrdoc/internal/model"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name string
		text string
		want model.Statistics
	}{
		{
			name: "empty",
			text: "",
			want: model.Statistics{},
		},
		{
			name: "whitespace only",
			text: " \n\t ",
			want: model.Statistics{CharCount: 4},
		},
		{
			name: "two sentences",
			text: "Hello. World.",
			want: model.Statistics{WordCount: 2, SentenceCount: 2, CharCount: 13, AvgWordLength: 6},
		},
		{
			name: "no period",
			text: "No period here",
			want: model.Statistics{WordCount: 3, SentenceCount: 1, CharCount: 14, AvgWordLength: 4},
		},
		{
			name: "ocr style trailing newline",
			text: "TEST 123\n",
			want: model.Statistics{WordCount: 2, SentenceCount: 1, CharCount: 9, AvgWordLength: 3.5},
		},
		{
			name: "rounding to two places",
			text: "a bb bb",
			want: model.Statistics{WordCount: 3, SentenceCount: 1, CharCount: 7, AvgWordLength: 1.67},
		},
		{
			name: "exact half rounds to even",
			text: "a bb bb bb bbbbbbb bbbbbbb bbbbbbb b",
			want: model.Statistics{WordCount: 8, SentenceCount: 1, CharCount: 36, AvgWordLength: 3.62},
		},
		{
			name: "exact half rounds down to even",
			text: "ab ab ab ab ab ab ab abc",
			want: model.Statistics{WordCount: 8, SentenceCount: 1, CharCount: 24, AvgWordLength: 2.12},
		},
		{
			name: "exact half rounds up to even",
			text: "a a a a a a a abcdefghijkl",
			want: model.Statistics{WordCount: 8, SentenceCount: 1, CharCount: 26, AvgWordLength: 2.38},
		},
		{
			name: "decimals and abbreviations split naively",
			text: "Dr. Smith paid 3.50 today...",
			want: model.Statistics{WordCount: 5, SentenceCount: 3, CharCount: 28, AvgWordLength: 4.8},
		},
		{
			name: "runs of whitespace collapse",
			text: "one   two\n\nthree",
			want: model.Statistics{WordCount: 3, SentenceCount: 1, CharCount: 16, AvgWordLength: 3.67},
		},
		{
			name: "multi-script characters count once each",
			text: "नमस्ते 世界",
			want: model.Statistics{WordCount: 2, SentenceCount: 1, CharCount: 9, AvgWordLength: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compute(tt.text))
		})
	}
}

func TestComputeCharCountMatchesLength(t *testing.T) {
	for _, text := range []string{"a", "a b\n", "  padded  ", "tab\tseparated\r\n", "日本語のテキスト"} {
		assert.Equal(t, utf8.RuneCountInString(text), Compute(text).CharCount, text)
	}
}

func TestComputeZeroWordsHasZeroAverage(t *testing.T) {
	for _, text := range []string{"", " ", "\n\n", "\t \r\n"} {
		s := Compute(text)
		assert.Zero(t, s.WordCount)
		assert.Zero(t, s.AvgWordLength)
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	text := "Optical character recognition. It works. Mostly"
	first := Compute(text)
	second := Compute(text)
	assert.Equal(t, first, second)
}

func TestCountSentences(t *testing.T) {
	assert.Equal(t, 0, countSentences(""))
	assert.Equal(t, 0, countSentences("..."))
	assert.Equal(t, 0, countSentences(" . . "))
	assert.Equal(t, 2, countSentences("a.b"))
	assert.Equal(t, 1, countSentences("trailing."))
}
