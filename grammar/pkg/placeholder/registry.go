// Package placeholder implements the Placeholder Registry (spec §4.2): a
// process-wide table of category placeholder pools, plus a per-utterance
// Allocator that hands out placeholders from those pools and tracks
// capacity overflow (spec §7, failure kind 2).
package placeholder

import (
	"strconv"
	"strings"

	"atcparse-grammar/pkg/resources"
)

// Registry is built once per process from a resources.Table and is
// immutable thereafter; it is safe to share by reference across
// goroutines (spec §5).
type Registry struct {
	table   *resources.Table
	reverse map[string]string // placeholder -> owning category

	// lexWords is the set of surface tokens that appear on the LHS of any
	// rule in the synthesised lexicon: prepositions plus the reserved
	// keyword tokens "no" and "and". The Text->Placeholder Abstractor's
	// unknown-span pass (§4.5a) uses this to mask recognised words before
	// splitting the residue into X-slots.
	lexWords map[string]bool
}

// NewRegistry builds the process-wide registry from a loaded resource
// table.
func NewRegistry(table *resources.Table) *Registry {
	r := &Registry{
		table:    table,
		reverse:  make(map[string]string),
		lexWords: make(map[string]bool),
	}
	for _, cat := range table.Categories() {
		for _, p := range table.Placeholders(cat) {
			r.reverse[p] = cat
		}
	}
	for _, w := range table.Prepositions {
		r.lexWords[w] = true
	}
	r.lexWords["no"] = true
	r.lexWords["and"] = true
	return r
}

// CategoryOf reverses a placeholder back to its owning category.
func (r *Registry) CategoryOf(placeholder string) (string, bool) {
	cat, ok := r.reverse[placeholder]
	return cat, ok
}

// IsLexWord reports whether word is recognised by the synthesised lexicon
// independent of the placeholder machinery (a preposition or a reserved
// control keyword).
func (r *Registry) IsLexWord(word string) bool {
	return r.lexWords[word]
}

// Cap returns category's placeholder pool size.
func (r *Registry) Cap(category string) int {
	return r.table.Cap(category)
}

// Table exposes the underlying resource table for components that need
// direct access to the regex entries or complex rules.
func (r *Registry) Table() *resources.Table {
	return r.table
}

// NewAllocator returns a fresh per-utterance placeholder allocator. Per
// spec §3's Lifecycles, allocators (and the replacement maps built from
// them) are created per utterance and discarded.
func (r *Registry) NewAllocator() *Allocator {
	return &Allocator{
		registry:  r,
		next:      make(map[string]int),
		overflow:  make(map[string]int),
		exhausted: make(map[string]bool),
	}
}

// Allocator hands out placeholders for a single parse pass.
type Allocator struct {
	registry  *Registry
	next      map[string]int // category -> next unused 1-based index
	overflow  map[string]int // category -> 1 once an allocation failed; later failures are not counted
	exhausted map[string]bool
}

// Next returns the next unused placeholder for category. ok is false when
// the category's cap has been reached; the caller must not substitute a
// placeholder in that case (spec §7, failure kind 2: the pipeline keeps
// going, not guaranteed to parse this occurrence).
func (a *Allocator) Next(category string) (placeholder string, ok bool) {
	if a.exhausted[category] {
		return "", false
	}
	cap := a.registry.Cap(category)
	idx := a.next[category] + 1
	if idx > cap {
		a.overflow[category]++
		a.exhausted[category] = true
		return "", false
	}
	a.next[category] = idx
	return placeholderName(category, idx), true
}

// Overflows returns the capacity-overflow counters observed during this
// allocator's lifetime, keyed by category. An implementer-facing counter
// spec §7/§9 call for but the original source never exposed.
func (a *Allocator) Overflows() map[string]int {
	out := make(map[string]int, len(a.overflow))
	for k, v := range a.overflow {
		out[k] = v
	}
	return out
}

// Used returns, for each category that allocated at least one placeholder,
// the prefix of the pool that was handed out (spec §8's "cap ceiling"
// property: always a prefix of C1..Ccap).
func (a *Allocator) Used(category string) []string {
	n := a.next[category]
	out := make([]string, n)
	for i := 1; i <= n; i++ {
		out[i-1] = placeholderName(category, i)
	}
	return out
}

func placeholderName(category string, index int) string {
	return strings.ToLower(category) + strconv.Itoa(index)
}
