package errors

// Handler decides what a caller should do with a *ParseError: abort,
// or log and continue. Resource errors always abort; capacity and
// no-parse errors never do (spec §7).
type Handler interface {
	// Handle classifies err, returning whether the caller must abort.
	Handle(err error) (fatal bool, reported *ParseError)
}

// DefaultHandler implements Handler with the fixed policy spec §7
// describes: only a resource error is fatal.
type DefaultHandler struct{}

// NewDefaultHandler builds the standard handler.
func NewDefaultHandler() *DefaultHandler { return &DefaultHandler{} }

func (h *DefaultHandler) Handle(err error) (bool, *ParseError) {
	if err == nil {
		return false, nil
	}
	pe, ok := err.(*ParseError)
	if !ok {
		pe = NewResourceError(err.Error()).Wrap(err)
	}
	return pe.Kind == KindResource, pe
}

// Collector accumulates the non-fatal errors (capacity overflows,
// no-parse outcomes) a batch run produces, for the summary spec §6's
// batch mode reports alongside its TSV output.
type Collector struct {
	Overflows []*ParseError
	NoParses  []*ParseError
}

// NewCollector builds an empty Collector.
func NewCollector() *Collector { return &Collector{} }

// Add files a non-fatal ParseError under the right bucket. A fatal
// (resource) error is not something Collector handles; callers abort
// on those before reaching here.
func (c *Collector) Add(pe *ParseError) {
	switch pe.Kind {
	case KindCapacity:
		c.Overflows = append(c.Overflows, pe)
	case KindNoParse:
		c.NoParses = append(c.NoParses, pe)
	}
}
