// Package segment implements the Segmenting Driver (spec §4.7): it drives
// the CCG parser over a placeholder stream, first attempting a whole-
// stream parse with a bounded number of "_context_" prefix expansions,
// falling back to greedy longest-parseable-prefix segmentation when the
// whole stream does not parse, and substitutes placeholders back into the
// accepted logical form.
package segment

import (
	"regexp"
	"strings"

	"atcparse-grammar/pkg/abstract"
	"atcparse-grammar/pkg/ccg"
)

// maxExpansions bounds how many times "_context_" is prepended to a
// stream (or segment) before giving up on it (spec §4.7).
const maxExpansions = 1

// maxPrefixLen is the longest fallback-segment prefix the driver will try
// (spec §4.7).
const maxPrefixLen = 7

// Driver runs the whole-stream/segmenting-fallback protocol using a
// single CCG parser. A Driver is stateless beyond its parser reference and
// may be reused across utterances.
type Driver struct {
	parser *ccg.Parser
}

// NewDriver returns a Driver backed by parser.
func NewDriver(parser *ccg.Parser) *Driver {
	return &Driver{parser: parser}
}

// Drive parses tokens (a placeholder stream) into a logical form,
// substituting placeholders back via repl. It returns the empty string if
// nothing in the stream could be parsed at all (spec §7, failure kind 3:
// non-fatal, the segment contributes nothing).
func (d *Driver) Drive(tokens []string, repl *abstract.Replacements) string {
	if lf, ok := d.tryWithExpansions(tokens); ok {
		return substitute(lf, repl)
	}

	var segments []string
	remaining := tokens
	for len(remaining) > 0 {
		n := len(remaining)
		if n > maxPrefixLen {
			n = maxPrefixLen
		}
		accepted := false
		for plen := n; plen >= 1; plen-- {
			prefix := remaining[:plen]
			if lf, ok := d.tryWithExpansions(prefix); ok {
				segments = append(segments, substitute(lf, repl))
				remaining = remaining[plen:]
				accepted = true
				break
			}
		}
		if !accepted {
			// Even the 1-token prefix failed: discard the whole
			// remaining stream (spec §4.7).
			break
		}
	}
	return strings.Join(segments, "; ")
}

// tryWithExpansions attempts to parse tokens, prepending "_context_" and
// retrying up to maxExpansions additional times on failure (spec §4.7).
func (d *Driver) tryWithExpansions(tokens []string) (string, bool) {
	cur := tokens
	for attempt := 0; attempt <= maxExpansions; attempt++ {
		if term, ok := d.parser.Parse(cur); ok {
			return unwrapContextRoot(term.String()), true
		}
		expanded := make([]string, 0, len(cur)+1)
		expanded = append(expanded, "_context_")
		expanded = append(expanded, cur...)
		cur = expanded
	}
	return "", false
}

var contextRootUnwrap = regexp.MustCompile(`^_context_\(_(.+)\)$`)

// unwrapContextRoot strips one redundant "_context_(...)" wrapper from an
// LF whose root is exactly that shape (spec §4.7).
func unwrapContextRoot(lf string) string {
	if m := contextRootUnwrap.FindStringSubmatch(lf); m != nil {
		return "_" + m[1]
	}
	return lf
}

var embeddedTerm = regexp.MustCompile(`^_[A-Za-z]+_\(.*\)$`)

var lfToken = regexp.MustCompile(`\b\w+\b`)

// substitute replaces every placeholder token in lf with its recorded
// value: pasted directly if the value is itself an embedded LF term
// (stage >= 1), wrapped in "*...*" as a literal leaf otherwise (spec
// §4.7, §3). It makes one pass over lf, so a pasted value is never
// scanned again for placeholders.
func substitute(lf string, repl *abstract.Replacements) string {
	return lfToken.ReplaceAllStringFunc(lf, func(tok string) string {
		if v, ok := repl.Placeholders[tok]; ok {
			if embeddedTerm.MatchString(v) {
				return v
			}
			return "*" + v + "*"
		}
		if v, ok := repl.Unknown[tok]; ok {
			return "*" + v + "*"
		}
		return tok
	})
}
