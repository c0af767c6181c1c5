package abstract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"atcparse-grammar/pkg/placeholder"
	"atcparse-grammar/pkg/resources"
)

// unknownCap is the number of X-slots the unknown-span pass (spec §4.5a)
// may assign. Residual runs beyond this count are left unreplaced; they
// will simply fail to combine in the CCG parse, which is the normal
// no-parse failure kind (spec §7).
const unknownCap = 12

// punctStrip is the punctuation the unknown-span pass discards before
// splitting the buffer into words (spec §4.5a).
const punctStrip = ":;,.+"

// TextAbstractor turns normalised utterance text into a placeholder
// stream (spec §4.5, §4.5a). It is built once from a resources.Table and
// is immutable thereafter, so a single instance may be shared across
// goroutines abstracting different utterances concurrently (spec §5).
type TextAbstractor struct {
	table    *resources.Table
	entries  []resources.RegexEntry
	compiled map[string]*regexp.Regexp
}

// NewTextAbstractor compiles every regex in table once. A malformed
// pattern is a resource error (spec §7, failure kind 1): it is caught
// here, at construction time, rather than deep in the abstraction loop.
func NewTextAbstractor(table *resources.Table) (*TextAbstractor, error) {
	entries := table.SortedEntries()
	compiled := make(map[string]*regexp.Regexp, len(entries))
	for _, e := range entries {
		if _, ok := compiled[e.Pattern]; ok {
			continue
		}
		re, err := regexp.Compile(compileSource(e.Pattern))
		if err != nil {
			return nil, &resources.ResourceError{Resource: "regex", Detail: "pattern " + e.Pattern + ": " + err.Error()}
		}
		compiled[e.Pattern] = re
	}
	return &TextAbstractor{table: table, entries: entries, compiled: compiled}, nil
}

// compileSource builds the case-insensitive, word-boundary-anchored
// regex source for a resource pattern. Patterns that open with a literal
// "-" (e.g. a signed-number pattern) cannot take a leading "\b", since a
// hyphen is not a word character and the assertion would never hold at
// the intended position, so the prefix is skipped for those (spec §4.5).
func compileSource(pattern string) string {
	if strings.HasPrefix(pattern, "-") {
		return "(?i)" + pattern
	}
	return `(?i)\b` + pattern
}

// Abstract replaces every regex-recognised span in text with a fresh
// placeholder, most complex pattern first, restarting the scan from the
// top after each replacement (spec §4.5), then assigns X-slots to the
// residual unrecognised runs (spec §4.5a). It returns the resulting
// placeholder stream and the replacement maps needed to substitute
// placeholders back into surface text later (spec §3, §4.7).
func (a *TextAbstractor) Abstract(text string, reg *placeholder.Registry, alloc *placeholder.Allocator) (string, *Replacements) {
	repl := newReplacements()
	buf := text

	for {
		replaced := false
		for _, e := range a.entries {
			re := a.compiled[e.Pattern]
			var loc []int
			for _, m := range re.FindAllStringSubmatchIndex(buf, -1) {
				// Skip a hit that starts inside a placeholder this pass
				// already inserted (e.g. "cleared" within "cleared1"):
				// a placeholder is never abstracted a second time.
				tok := buf[strings.LastIndexByte(buf[:m[0]], ' ')+1:]
				if sp := strings.IndexByte(tok, ' '); sp >= 0 {
					tok = tok[:sp]
				}
				if _, isPh := reg.CategoryOf(tok); !isPh {
					loc = m
					break
				}
			}
			if loc == nil {
				continue
			}
			start, end := loc[0], loc[1]
			if len(loc) >= 4 && loc[2] >= 0 {
				start, end = loc[2], loc[3]
			}
			surface := buf[start:end]
			ph, ok := alloc.Next(e.Category)
			if !ok {
				continue
			}
			buf = buf[:start] + ph + buf[end:]
			repl.Placeholders[ph] = surface
			replaced = true
			break
		}
		if !replaced {
			break
		}
	}

	buf = a.assignUnknownSlots(buf, reg, repl)
	buf = stripStrayXTokens(buf)
	return buf, repl
}

var strayXToken = regexp.MustCompile(`\bx\d+\b`)

// stripStrayXTokens collapses any lowercase "x<digits>" token that
// survived abstraction (and so is not one of our own X-slot placeholders,
// which are always uppercase) down to a bare "X" (spec §4.5a).
func stripStrayXTokens(buf string) string {
	return strayXToken.ReplaceAllString(buf, "X")
}

// assignUnknownSlots masks every already-abstracted placeholder and every
// lexicon surface word (prepositions, "no", "and") in buf, then assigns
// X1..X12 to the remaining residual runs, longest first, one slot per
// distinct run (spec §4.5a).
func (a *TextAbstractor) assignUnknownSlots(buf string, reg *placeholder.Registry, repl *Replacements) string {
	cleaned := stripPunct(strings.ToLower(buf))
	words := strings.Fields(cleaned)

	isKnown := func(w string) bool {
		if _, ok := reg.CategoryOf(w); ok {
			return true
		}
		return reg.IsLexWord(w)
	}

	var runs []string
	seen := make(map[string]bool)
	var current []string
	flush := func() {
		if len(current) == 0 {
			return
		}
		run := strings.Join(current, " ")
		current = nil
		if run == "" || run == "?" || run == "+" {
			return
		}
		if !seen[run] {
			seen[run] = true
			runs = append(runs, run)
		}
	}
	for _, w := range words {
		if isKnown(w) {
			flush()
		} else {
			current = append(current, w)
		}
	}
	flush()

	sortLongestFirstStable(runs)

	out := cleaned
	for i, run := range runs {
		if i >= unknownCap {
			break
		}
		slot := "X" + strconv.Itoa(i+1)
		repl.Unknown[slot] = run
		out = strings.Replace(out, run, slot, 1)
	}
	return out
}

func stripPunct(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctStrip, r) {
			return -1
		}
		return r
	}, s)
}

// sortLongestFirstStable orders runs by descending word count, preserving
// first-appearance order among ties (spec §4.5a: "longest first").
func sortLongestFirstStable(runs []string) {
	sort.SliceStable(runs, func(i, j int) bool {
		return len(strings.Fields(runs[i])) > len(strings.Fields(runs[j]))
	})
}
