// Package textstats derives word, sentence and character counts from text.
//
// Compute is pure: the same input always yields the same Statistics.
// The sentence count is a plain split on '.', so abbreviations, decimals and
// ellipses are counted as-is.
package textstats

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"ocrdoc/internal/model"
)

// Compute returns statistics for text.
func Compute(text string) model.Statistics {
	words := strings.Fields(text)

	var letters int
	for _, w := range words {
		letters += utf8.RuneCountInString(w)
	}

	var avg float64
	if len(words) > 0 {
		avg = round2(float64(letters) / float64(len(words)))
	}

	return model.Statistics{
		WordCount:     len(words),
		SentenceCount: countSentences(text),
		CharCount:     utf8.RuneCountInString(text),
		AvgWordLength: avg,
	}
}

func countSentences(text string) int {
	n := 0
	for _, frag := range strings.Split(text, ".") {
		if strings.TrimSpace(frag) != "" {
			n++
		}
	}
	return n
}

// round2 rounds to two decimal places from the exact binary value of v,
// sending exact halves to the even digit.
func round2(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	return r
}
