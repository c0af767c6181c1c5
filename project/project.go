// Package project implements the LF->JSON Projector (spec §4.10): the
// sequence of structural rewrites that turns a stabilised logical form
// into a disambiguated JSON object.
package project

import (
	"fmt"
	"regexp"
	"strings"
)

// functionWords are the heads spec §4.10 step 5 fuses into their parent
// key rather than leaving as a separate nesting level.
var functionWords = []string{"the", "have", "your", "are", "over", "be", "an"}

var (
	singletonWrapper = regexp.MustCompile(`\{("[^"{}]*")\}`)
	trailingJunk     = regexp.MustCompile(`[,\s]+\}`)
	duplicateWrapper = regexp.MustCompile(`"(\w+)":\{"(\w+)":\{`)
	keyPattern       = regexp.MustCompile(`"([^"]*)":`)
	functionWordOpen = regexp.MustCompile(`"(` + strings.Join(functionWords, "|") + `)":\{`)
)

// Project turns a final logical form into its JSON projection (spec
// §4.10, steps 1-6, applied in order).
func Project(lf string) string {
	s := coreRewrite(lf)
	s = stripSingletonWrappers(s)
	s = stripTrailingJunk(s)
	s = collapseDuplicateKeyNesting(s)
	s = mergeFunctionWords(s)
	s = disambiguateKeys(s)
	return s
}

// coreRewrite implements step 1: a fixed character-for-character
// rewrite of the LF's term syntax into JSON-ish punctuation. The order
// matters: "_(" must be rewritten before a bare "_" is, or the "(" half
// of the pair would be orphaned.
func coreRewrite(lf string) string {
	s := lf
	s = strings.ReplaceAll(s, ";", ",")
	s = strings.ReplaceAll(s, "_(", "\":{")
	s = strings.ReplaceAll(s, "_", "\"")
	s = strings.ReplaceAll(s, ")", "}")
	s = strings.ReplaceAll(s, "*", "\"")
	return "{" + s + "}"
}

// stripSingletonWrappers implements step 2: a brace wrapping nothing but
// one bare quoted leaf is redundant and is unwrapped, repeated to a fixed
// point since unwrapping one layer can expose another.
func stripSingletonWrappers(s string) string {
	return untilStable(s, func(cur string) string {
		return singletonWrapper.ReplaceAllString(cur, "$1")
	})
}

// stripTrailingJunk implements step 3: a comma or run of whitespace
// directly before a closing brace is deleted.
func stripTrailingJunk(s string) string {
	return untilStable(s, func(cur string) string {
		return trailingJunk.ReplaceAllString(cur, "}")
	})
}

// collapseDuplicateKeyNesting implements step 4: `"X":{"X":{...}}` loses
// its redundant inner "X" wrapper, becoming `"X":{...}`.
func collapseDuplicateKeyNesting(s string) string {
	for {
		matches := duplicateWrapper.FindAllStringSubmatchIndex(s, -1)
		applied := false
		for _, loc := range matches {
			name1 := s[loc[2]:loc[3]]
			name2 := s[loc[4]:loc[5]]
			if name1 != name2 {
				continue
			}
			innerOpen := loc[1] - 1
			innerClose := matchingBrace(s, innerOpen)
			if innerClose < 0 {
				continue
			}
			redundantStart := loc[4] - 1
			body := s[innerOpen+1 : innerClose]
			s = s[:redundantStart] + body + s[innerClose+1:]
			applied = true
			break
		}
		if !applied {
			break
		}
	}
	return s
}

// mergeFunctionWords implements step 5: a function word wrapping an
// object fuses with that object's leading key into one composite key,
// e.g. `"the":{"runway":{...}}` becomes `"the runway":{...}`, and
// `"the":{"runway":{...},"heading":9}` becomes
// `"the runway":{...},"heading":9`.
//
// The body between the function word's "{" and its matching "}" is
// found by brace-counting (matchingBrace), so this handles a body
// nested to any depth in one pass rather than the fixed 0-3 lookahead
// depths a regex-only balanced match would be limited to.
func mergeFunctionWords(s string) string {
	for {
		loc := functionWordOpen.FindStringSubmatchIndex(s)
		if loc == nil {
			break
		}
		w := s[loc[2]:loc[3]]
		outerOpen := loc[1] - 1
		outerClose := matchingBrace(s, outerOpen)
		if outerClose < 0 {
			break
		}
		body := s[outerOpen+1 : outerClose]
		if !strings.HasPrefix(body, `"`) {
			break
		}
		s = s[:loc[0]] + `"` + w + " " + body[1:] + s[outerClose+1:]
	}
	return s
}

// disambiguateKeys implements step 6: walking left to right, every key
// after a given key's first occurrence gets a "_n" suffix counting how
// many times that key name was seen before it.
func disambiguateKeys(s string) string {
	counts := make(map[string]int)
	var b strings.Builder
	last := 0
	for _, loc := range keyPattern.FindAllStringSubmatchIndex(s, -1) {
		b.WriteString(s[last:loc[0]])
		key := s[loc[2]:loc[3]]
		n := counts[key]
		counts[key] = n + 1
		if n == 0 {
			fmt.Fprintf(&b, "%q:", key)
		} else {
			fmt.Fprintf(&b, "%q:", fmt.Sprintf("%s_%d", key, n))
		}
		last = loc[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

// matchingBrace returns the index of the "}" that closes the "{" at
// openIdx, or -1 if s is unbalanced from that point on.
func matchingBrace(s string, openIdx int) int {
	depth := 0
	for i := openIdx; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func untilStable(s string, step func(string) string) string {
	for {
		next := step(s)
		if next == s {
			return s
		}
		s = next
	}
}
