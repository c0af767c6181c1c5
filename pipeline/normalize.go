package pipeline

import (
	"regexp"
	"strings"
)

var (
	rePrefix       = regexp.MustCompile(`\bre-(\w)`)
	reDigitHyphen  = regexp.MustCompile(`(\d)-(\d)`)
	reLetterHyphen = regexp.MustCompile(`([A-Za-z])-([A-Za-z])`)
	reSeparators   = regexp.MustCompile(`[;:,.?—-]`)

	reId      = regexp.MustCompile(`(?i)\bi'd\b`)
	reItIs    = regexp.MustCompile(`(?i)\bit's\b`)
	reWhatIs  = regexp.MustCompile(`(?i)\bwhat's\b`)
	reThatIs  = regexp.MustCompile(`(?i)\bthat's\b`)
	reTrailer = regexp.MustCompile(`[.,?!"\x{201D}\n\r]+$`)
)

// Normalize implements the Pipeline Controller's text normalisation
// (spec §4.9), applied once to the raw utterance before stage 0.
func Normalize(text string) string {
	s := text

	// Strip the hyphen in a leading "re-" prefix: "re-cleared" -> "recleared".
	s = rePrefix.ReplaceAllString(s, "re$1")

	// Digit-digit hyphens fuse (the hyphen is dropped, not spaced).
	s = reDigitHyphen.ReplaceAllString(s, "$1$2")

	// Letter-letter hyphens become a space. Looped because adjacent
	// hyphens in words like "a-b-c" share a letter between matches.
	for {
		next := reLetterHyphen.ReplaceAllString(s, "$1 $2")
		if next == s {
			break
		}
		s = next
	}

	s = strings.ReplaceAll(s, "=", "-")
	s = strings.ReplaceAll(s, "’", "'")
	s = strings.ReplaceAll(s, "O'", "O")

	// Any separator (including a hyphen the rules above left untouched)
	// becomes a space.
	s = reSeparators.ReplaceAllString(s, " ")

	s = reId.ReplaceAllString(s, "i would")
	s = reItIs.ReplaceAllString(s, "it is")
	s = reWhatIs.ReplaceAllString(s, "what is")
	s = reThatIs.ReplaceAllString(s, "that is")
	s = strings.ReplaceAll(s, "'s", "")
	s = strings.ReplaceAll(s, "'ve", " have")
	s = strings.ReplaceAll(s, "'ll", " will")
	s = strings.ReplaceAll(s, "'re", " are")

	s = strings.ReplaceAll(s, " a ", " ")

	s = reTrailer.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	return s
}
