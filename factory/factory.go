// Package factory builds the Pipeline Controller from configuration and
// wires it into the dependency container, the way the teacher's factory
// package built and registered a language runtime per factory.
package factory

import (
	"atcparse-grammar/pkg/resources"

	"atcparse/container"
	"atcparse/pipeline"
)

// PipelineFactory holds everything needed to load the resource table and
// build a Controller: the four resource blobs spec §3 describes plus the
// step cap spec §4.9 names.
type PipelineFactory struct {
	RegexText     string
	PrepText      string
	FilterText    string
	ComplexText   string
	NumberOfSteps int
}

// Build loads the resource table and constructs a Controller from it. A
// malformed table surfaces here as a resource error (spec §7, kind 1).
func (f *PipelineFactory) Build() (*pipeline.Controller, error) {
	loader := resources.NewLoader()
	table, err := loader.Load(f.RegexText, f.PrepText, f.FilterText, f.ComplexText)
	if err != nil {
		return nil, err
	}

	steps := f.NumberOfSteps
	if steps <= 0 {
		steps = pipeline.DefaultSteps
	}
	return pipeline.NewController(table, steps)
}

// RegisterSingleton registers a Controller built from f into c under
// name, so the rest of the application resolves one shared instance
// (spec §5: the Controller's state is immutable and safe to share).
func RegisterSingleton(c container.Container, name string, f *PipelineFactory) error {
	return c.Register(name, func() (interface{}, error) {
		return f.Build()
	}, container.Singleton)
}
