// Package lexicon implements the Lexicon Synthesiser (spec §4.3): it emits
// a CCG lexicon — both the canonical textual form and the structured
// entries the chart parser consumes directly — from the resource table, a
// placeholder registry, and an active/inactive category filter.
package lexicon

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"atcparse-grammar/pkg/ccg"
	"atcparse-grammar/pkg/resources"
)

// baselineCategories are always declared alongside the domain categories
// drawn from the regex table (spec §4.3 item 1).
var baselineCategories = []string{
	"S", "NP", "N", "ADJ", "VP", "PP", "P", "JJ", "JJR", "DT", "PPN", "NNP",
}

// Synthesised holds both output forms of a synthesised lexicon: the
// structured form the CCG chart parser consumes, and the canonical
// textual form spec §4.3 describes.
type Synthesised struct {
	Lexicon *ccg.Lexicon
	Text    string
}

// Synthesiser builds lexicons from a loaded resource table and
// placeholder registry. It is stateless; Synthesise is called once for
// the unfiltered lexicon and once for the filtered one.
type Synthesiser struct{}

// NewSynthesiser returns a Synthesiser.
func NewSynthesiser() *Synthesiser { return &Synthesiser{} }

// Synthesise builds one lexicon. When filtered is true, complex rules are
// drawn from the table's FilteredComplexRules (spec §4.3's two-lexicon
// design: lex-full at stage 0, lex-filtered at stages >= 1).
func (s *Synthesiser) Synthesise(table *resources.Table, filtered bool) (*Synthesised, error) {
	var b strings.Builder
	var entries []ccg.Entry

	domainCats := table.Categories()

	emit := func(word string, cat ccg.Category, sem ccg.Term) {
		entries = append(entries, ccg.Entry{Word: word, Category: cat, Sem: sem})
		fmt.Fprintf(&b, "%s => %s {%s}\n", word, cat.String(), sem.String())
	}

	// --- 1. Categories declaration (textual only) ---
	b.WriteString("# categories\n")
	allCats := append(append([]string{}, baselineCategories...), domainCats...)
	b.WriteString(strings.Join(allCats, ", "))
	b.WriteString("\n\n# common control rules\n")

	// --- 2. Common control rules ---
	npAtom := ccg.Atomic(resources.ReservedNP)
	sAtom := ccg.Atomic("S")

	emit("_context_", ccg.Slash(sAtom, ccg.Fwd, npAtom), ctxAbs1())
	emit("_context_", ccg.Slash(ccg.Slash(sAtom, ccg.Fwd, sAtom), ccg.Fwd, npAtom), ctxAbs2())
	emit("_context_", ccg.Slash(ccg.Slash(sAtom, ccg.Fwd, npAtom), ccg.Fwd, sAtom), ctxAbs2())
	for _, c := range domainCats {
		cAtom := ccg.Atomic(c)
		emit("_context_", ccg.Slash(sAtom, ccg.Fwd, cAtom), ctxAbs1())
		emit("_context_", ccg.Slash(ccg.Slash(sAtom, ccg.Fwd, sAtom), ccg.Fwd, cAtom), ctxAbs2())
		emit("_context_", ccg.Slash(ccg.Slash(sAtom, ccg.Fwd, cAtom), ccg.Fwd, sAtom), ctxAbs2())
	}

	noSem := ccg.Abs{Param: "z", Body: ccg.Func{Name: "no", Args: []ccg.Term{ccg.Var{Name: "z"}}}}
	emit("no", ccg.Slash(sAtom, ccg.Fwd, npAtom), noSem)
	emit("no", ccg.Slash(sAtom, ccg.Fwd, sAtom), noSem)

	andSem := ccg.Abs{Param: "x", Body: ccg.Func{Name: "AND", Args: []ccg.Term{ccg.Var{Name: "x"}}}}
	for _, c := range allCats {
		cAtom := ccg.Atomic(c)
		emit("and", ccg.Slash(cAtom, ccg.Fwd, cAtom), andSem)
	}

	// --- 3. Simple category rules ---
	b.WriteString("\n# simple category rules\n")
	for _, c := range domainCats {
		cAtom := ccg.Atomic(c)
		for _, p := range table.Placeholders(c) {
			emit(p, cAtom, ccg.Func{Name: c, Args: []ccg.Term{ccg.Leaf{Text: p}}})
		}
	}

	// --- 4. Complex rules ---
	b.WriteString("\n# complex rules\n")
	rulesByCat := table.ComplexRules
	if filtered {
		rulesByCat = table.FilteredComplexRules
	}
	for _, c := range sortedKeys(rulesByCat) {
		for _, rule := range rulesByCat[c] {
			for _, p := range table.Placeholders(c) {
				synText := strings.ReplaceAll(rule.SynCat, "cat1", p)
				semText := strings.ReplaceAll(rule.SemBody, "cat1", p)
				cat, err := ccg.ParseCategory(synText)
				if err != nil {
					return nil, fmt.Errorf("lexicon: complex rule category %q: %w", synText, err)
				}
				sem, err := ccg.ParseTerm(semText)
				if err != nil {
					return nil, fmt.Errorf("lexicon: complex rule semantics %q: %w", semText, err)
				}
				emit(p, cat, sem)
			}
		}
	}

	// --- 5. Preposition rules ---
	b.WriteString("\n# preposition rules\n")
	for _, w := range table.Prepositions {
		prepSem := ccg.Abs{Param: "x", Body: ccg.Func{Name: w, Args: []ccg.Term{ccg.Var{Name: "x"}}}}
		for _, c := range domainCats {
			cAtom := ccg.Atomic(c)
			emit(w, ccg.Slash(cAtom, ccg.Fwd, cAtom), prepSem)
		}
		emit(w, ccg.Slash(npAtom, ccg.Fwd, npAtom), prepSem)
	}

	// --- 6. Unknown-slot rules ---
	b.WriteString("\n# unknown slot rules\n")
	contextAtom := ccg.Atomic(resources.ReservedContext)
	for i := 1; i <= 12; i++ {
		x := "X" + strconv.Itoa(i)
		emit(x, contextAtom, ccg.Leaf{Text: x})
	}

	return &Synthesised{Lexicon: ccg.NewLexicon(entries), Text: b.String()}, nil
}

func ctxAbs1() ccg.Term {
	return ccg.Abs{Param: "x", Body: ccg.Func{Name: "context", Args: []ccg.Term{ccg.Var{Name: "x"}}}}
}

func ctxAbs2() ccg.Term {
	return ccg.Abs{
		Param: "x",
		Body: ccg.Abs{
			Param: "y",
			Body:  ccg.Func{Name: "context", Args: []ccg.Term{ccg.Var{Name: "x"}, ccg.Var{Name: "y"}}},
		},
	}
}

func sortedKeys(m map[string][]resources.ComplexRule) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
