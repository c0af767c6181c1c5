// Package pipeline implements the Pipeline Controller (spec §4.9): text
// normalisation, then the stage-iteration loop that alternates between
// the Text->Placeholder Abstractor (stage 0) and the LF->Placeholder
// Abstractor (stages >= 1), driving each stage's placeholder stream
// through the Segmenting Driver and, from stage 1 on, LF Cleanup, until
// the logical form stabilises or the step cap is reached.
package pipeline

import (
	"strings"

	"atcparse-grammar/pkg/abstract"
	"atcparse-grammar/pkg/ccg"
	"atcparse-grammar/pkg/lexicon"
	"atcparse-grammar/pkg/placeholder"
	"atcparse-grammar/pkg/resources"

	"atcparse/cleanup"
	"atcparse/segment"
)

// DefaultSteps is the step cap used when a caller does not override it.
// The recovered original source defaults to two steps: stage 0 on the
// unfiltered lexicon, stage 1 on the filtered one.
const DefaultSteps = 2

// Controller owns every process-wide, immutable piece of parsing state
// (spec §5): the resource table, the placeholder registry, both
// synthesised lexicons' parsers, and the two abstractors. A single
// Controller is safe to share by reference and drive concurrently across
// utterances; per-utterance state (allocators, replacement maps) is
// created fresh inside Parse.
type Controller struct {
	registry *placeholder.Registry
	textAbs  *abstract.TextAbstractor
	lfAbs    *abstract.LFAbstractor

	parserFull     *ccg.Parser
	parserFiltered *ccg.Parser

	lexTextFull     string
	lexTextFiltered string

	numberOfSteps int
}

// NewController builds a Controller from a loaded resource table. Any
// malformed lexicon the table implies (e.g. an unparseable complex rule)
// surfaces here as a resource error (spec §7, failure kind 1).
func NewController(table *resources.Table, numberOfSteps int) (*Controller, error) {
	reg := placeholder.NewRegistry(table)

	textAbs, err := abstract.NewTextAbstractor(table)
	if err != nil {
		return nil, err
	}

	syn := lexicon.NewSynthesiser()
	full, err := syn.Synthesise(table, false)
	if err != nil {
		return nil, err
	}
	filtered, err := syn.Synthesise(table, true)
	if err != nil {
		return nil, err
	}

	return &Controller{
		registry:        reg,
		textAbs:         textAbs,
		lfAbs:           abstract.NewLFAbstractor(),
		parserFull:      ccg.NewParser(full.Lexicon),
		parserFiltered:  ccg.NewParser(filtered.Lexicon),
		lexTextFull:     full.Text,
		lexTextFiltered: filtered.Text,
		numberOfSteps:   numberOfSteps,
	}, nil
}

// Registry exposes the placeholder registry for components (the CLI, the
// serialization layer) that need it directly.
func (c *Controller) Registry() *placeholder.Registry { return c.registry }

// LexiconText returns the canonical textual form of the unfiltered and
// filtered synthesised lexicons, in that order.
func (c *Controller) LexiconText() (full, filtered string) {
	return c.lexTextFull, c.lexTextFiltered
}

// StepTrace records one refinement step's placeholder stream and
// resulting logical form, for the debug variant spec §4.9 calls for.
type StepTrace struct {
	Stage  int
	Stream string
	LF     string
}

// Parse runs the full pipeline over text and returns the stabilised
// logical form.
func (c *Controller) Parse(text string) string {
	lf, _ := c.ParseDebug(text)
	return lf
}

// ParseDebug runs the full pipeline over text and additionally returns
// the per-step trace spec §4.9's debug variant calls for, without
// altering the result itself.
func (c *Controller) ParseDebug(text string) (string, []StepTrace) {
	lf, traces, _ := c.parseWithOverflows(text)
	return lf, traces
}

// ParseWithOverflows is ParseDebug plus the capacity-overflow counters
// (spec §7, failure kind 2) accumulated across every step's allocator, for
// callers that need to persist a full DebugSnapshot.
func (c *Controller) ParseWithOverflows(text string) (string, []StepTrace, map[string]int) {
	return c.parseWithOverflows(text)
}

func (c *Controller) parseWithOverflows(text string) (string, []StepTrace, map[string]int) {
	s0 := Normalize(text)

	var traces []StepTrace
	overflows := make(map[string]int)
	var lfPrev string
	for i := 0; i < c.numberOfSteps; i++ {
		alloc := c.registry.NewAllocator()

		var stream string
		var repl *abstract.Replacements
		var parser *ccg.Parser
		if i == 0 {
			stream, repl = c.textAbs.Abstract(s0, c.registry, alloc)
			parser = c.parserFull
		} else {
			stream, repl = c.lfAbs.Abstract(lfPrev, c.registry, alloc)
			parser = c.parserFiltered
		}

		driver := segment.NewDriver(parser)
		lf := driver.Drive(strings.Fields(stream), repl)
		if i >= 1 {
			lf = cleanup.Clean(lf)
		}

		for category, count := range alloc.Overflows() {
			overflows[category] += count
		}

		traces = append(traces, StepTrace{Stage: i, Stream: stream, LF: lf})
		if lf == lfPrev {
			break
		}
		lfPrev = lf
	}
	return lfPrev, traces, overflows
}
