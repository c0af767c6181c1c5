package resources

import (
	"bufio"
	"regexp"
	"strings"
)

// groupMarkers matches the opening of non-capturing groups and lookaround
// assertions, which are stripped before computing a pattern's complexity.
var groupMarkers = regexp.MustCompile(`\(\?(?:[:=!]|<[=!])`)

var headerLine = regexp.MustCompile(`^#\s*([A-Za-z_]+)\s*$`)

// Loader parses the four resource blobs into a Table. It is built once per
// process and discarded once Load has run.
type Loader struct {
	// CapOverrides supplies per-category placeholder pool sizes beyond the
	// built-in defaults (spec §3). With nil, every category gets DefaultCap;
	// NewLoader seeds it with the built-in override table.
	CapOverrides map[string]int
}

// NewLoader returns a Loader seeded with the spec's default cap overrides.
func NewLoader() *Loader {
	overrides := make(map[string]int, len(defaultCapOverrides))
	for k, v := range defaultCapOverrides {
		overrides[k] = v
	}
	return &Loader{CapOverrides: overrides}
}

// Load parses all four resources and cross-validates them, returning a
// ResourceError (wrapped) on any contradiction (spec §7, kind 1). The
// other resource errors of the core come later, from regex compilation
// in NewTextAbstractor and from parsing complex rules during lexicon
// synthesis.
func (l *Loader) Load(regexText, prepositionsText, filterText, complexText string) (*Table, error) {
	patterns, owner, err := parseRegexTable(regexText)
	if err != nil {
		return nil, err
	}

	prepositions := parsePrepositions(prepositionsText)
	filter := parseFilter(filterText)

	caps := make(map[string]int, len(l.CapOverrides))
	for k, v := range l.CapOverrides {
		caps[k] = v
	}

	// Validate the filter references only known categories.
	known := make(map[string]bool, len(patterns)+2)
	for c := range patterns {
		known[c] = true
	}
	known[ReservedContext] = true
	known[ReservedNP] = true
	for c := range filter {
		if !known[c] {
			return nil, &ResourceError{Resource: "filter", Detail: "unknown category " + c}
		}
	}

	complexRules, err := parseComplexRules(complexText)
	if err != nil {
		return nil, err
	}

	filteredComplexRules := filterComplexRules(complexRules, filter)

	return &Table{
		Patterns:             patterns,
		patternOwner:         owner,
		Caps:                 caps,
		Prepositions:         prepositions,
		Filter:               filter,
		ComplexRules:         complexRules,
		FilteredComplexRules: filteredComplexRules,
	}, nil
}

// parseRegexTable implements spec §4.1's regex-table grammar.
func parseRegexTable(text string) (map[string][]RegexEntry, map[string]string, error) {
	patterns := make(map[string][]RegexEntry)
	owner := make(map[string]string)

	var current string
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			if m := headerLine.FindStringSubmatch(trimmed); m != nil {
				current = strings.ToUpper(strings.TrimSpace(m[1]))
			} else {
				current = strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(trimmed, "#")))
			}
			if _, ok := patterns[current]; !ok {
				patterns[current] = nil
			}
			continue
		}
		if current == "" {
			continue
		}

		pattern := unwrapPattern(trimmed)
		if pattern == "" {
			continue
		}
		if existingOwner, ok := owner[pattern]; ok && existingOwner != current {
			return nil, nil, &ResourceError{
				Resource: "regex",
				Detail:   "pattern " + pattern + " mapped to both " + existingOwner + " and " + current,
			}
		}
		owner[pattern] = current
		patterns[current] = append(patterns[current], RegexEntry{
			Pattern:    pattern,
			Category:   current,
			Complexity: complexity(pattern),
		})
	}
	return patterns, owner, nil
}

// unwrapPattern lowercases a pattern line and strips a leading r" and
// trailing " if present.
func unwrapPattern(line string) string {
	s := line
	if strings.HasPrefix(s, `r"`) && strings.HasSuffix(s, `"`) && len(s) >= 3 {
		s = s[2 : len(s)-1]
	}
	return strings.ToLower(s)
}

// complexity is the count of backslash-separated fragments after stripping
// non-capturing/assertion groups, per spec §3.
func complexity(pattern string) int {
	stripped := groupMarkers.ReplaceAllString(pattern, "")
	return len(strings.Split(stripped, `\`))
}

func parsePrepositions(text string) []string {
	var out []string
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, strings.ToLower(line))
	}
	return out
}

func parseFilter(text string) map[string]bool {
	out := make(map[string]bool)
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "-") {
			continue
		}
		out[strings.ToUpper(line)] = true
	}
	return out
}

// parseComplexRules implements spec §4.1's complex-rule grammar: #CATEGORY
// sections of "SYNCAT {SEMBODY}" entries, '-'-prefixed lines skipped, and
// the `\\` -> `\` escape normalisation.
func parseComplexRules(text string) (map[string][]ComplexRule, error) {
	rules := make(map[string][]ComplexRule)

	var current string
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		raw := scanner.Text()
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			current = strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(trimmed, "#")))
			if _, ok := rules[current]; !ok {
				rules[current] = nil
			}
			continue
		}
		if strings.HasPrefix(trimmed, "-") {
			continue
		}
		if current == "" {
			continue
		}

		normalised := strings.ReplaceAll(trimmed, `\\`, `\`)
		open := strings.Index(normalised, "{")
		closeIdx := strings.LastIndex(normalised, "}")
		if open < 0 || closeIdx < 0 || closeIdx < open {
			return nil, &ResourceError{
				Resource: "complex",
				Detail:   "unbalanced braces in rule: " + trimmed,
			}
		}
		synCat := strings.TrimSpace(normalised[:open])
		semBody := normalised[open+1 : closeIdx]
		if strings.Count(semBody, "{") != strings.Count(semBody, "}") {
			return nil, &ResourceError{
				Resource: "complex",
				Detail:   "unbalanced braces in rule body: " + trimmed,
			}
		}

		rules[current] = append(rules[current], ComplexRule{
			Category: current,
			SynCat:   synCat,
			SemBody:  semBody,
		})
	}
	return rules, nil
}

// filterComplexRules keeps only entries whose syntactic part mentions one of
// the filter categories as a "/CATEGORY " slash argument, per spec §4.1.
func filterComplexRules(rules map[string][]ComplexRule, filter map[string]bool) map[string][]ComplexRule {
	if len(filter) == 0 {
		// An empty filter keeps nothing: the filtered lexicon is meant to be
		// strictly narrower than the unfiltered one (spec §4.3 rationale).
		out := make(map[string][]ComplexRule, len(rules))
		for cat := range rules {
			out[cat] = nil
		}
		return out
	}

	out := make(map[string][]ComplexRule, len(rules))
	for cat, entries := range rules {
		var kept []ComplexRule
		for _, e := range entries {
			// SynCat is trimmed; the trailing space lets a filter
			// category that is the last argument match too.
			upper := strings.ToUpper(e.SynCat) + " "
			for f := range filter {
				if strings.Contains(upper, "/"+f+" ") {
					kept = append(kept, e)
					break
				}
			}
		}
		out[cat] = kept
	}
	return out
}
