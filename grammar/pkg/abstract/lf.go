package abstract

import (
	"regexp"
	"strings"

	"atcparse-grammar/pkg/placeholder"
)

// headPattern matches a term's outermost "_NAME_(" head.
var headPattern = regexp.MustCompile(`^_([A-Za-z]+)_\(`)

// LFAbstractor treats a logical form, split on its top-level ";"
// separator, as its own surface stream: each term becomes a fresh
// placeholder in the category named by the term's head, so the next
// refinement step (spec §4.9) can re-parse the result with the filtered
// lexicon exactly as it would a sentence of category placeholders (spec
// §4.6). It holds no state and needs none beyond the registry and
// allocator passed to Abstract.
type LFAbstractor struct{}

// NewLFAbstractor returns an LFAbstractor.
func NewLFAbstractor() *LFAbstractor { return &LFAbstractor{} }

// Abstract turns lf into a space-separated placeholder stream plus the
// placeholder -> embedded-term replacement map the next substitution pass
// needs (spec §3, §4.6).
func (a *LFAbstractor) Abstract(lf string, reg *placeholder.Registry, alloc *placeholder.Allocator) (string, *Replacements) {
	repl := newReplacements()
	var stream []string

	for _, raw := range strings.Split(lf, ";") {
		term := strings.TrimSpace(raw)
		if term == "" {
			continue
		}
		if needsContextWrap(term) {
			term = "_context_(" + term + ")"
		}
		category := strings.ToUpper(extractHead(term))
		ph, ok := alloc.Next(category)
		if !ok {
			// Capacity overflow (spec §7, failure kind 2): this term
			// contributes nothing further to the refined parse.
			continue
		}
		repl.Placeholders[ph] = term
		stream = append(stream, ph)
	}

	return strings.Join(stream, " "), repl
}

// needsContextWrap reports whether term must be wrapped in "_context_(...)"
// before its head category can be extracted: any term whose outermost
// head is a lower-case keyword other than "context" itself, or that has
// no "_NAME_(" head at all (a bare leftover placeholder or literal) (spec
// §4.6).
func needsContextWrap(term string) bool {
	m := headPattern.FindStringSubmatch(term)
	if m == nil {
		return true
	}
	head := m[1]
	if strings.ToUpper(head) == head {
		return false
	}
	return head != "context"
}

// extractHead returns term's outermost head name, defaulting to "context"
// if none is found (which only happens after needsContextWrap has already
// wrapped the term).
func extractHead(term string) string {
	m := headPattern.FindStringSubmatch(term)
	if m == nil {
		return "context"
	}
	return m[1]
}
