package jobmanager

import (
	"sync"
	"time"

	"atcparse/pipeline"
	"atcparse/project"
)

// Result is one batch utterance's parse outcome.
type Result struct {
	Index     int
	Utterance string
	LF        string
	JSON      string
	Overflows map[string]int
}

type parseOutcome struct {
	lf        string
	overflows map[string]int
}

// ParseAll parses utterances concurrently through ctrl using a JobManager
// bounded by workers, then returns the results back in submission order
// regardless of completion order (spec §5: ctrl's internal state is
// immutable and safe to share across the pool's goroutines).
func ParseAll(ctrl *pipeline.Controller, utterances []string, workers int) []Result {
	if workers <= 0 {
		workers = 1
	}
	jm := NewJobManager(workers)
	defer jm.Shutdown()

	// Nothing here reads job notifications; drain them so a finished job
	// never blocks on a full notification channel while holding its
	// concurrency slot. Shutdown closes the channel, ending this loop.
	go func() {
		for range jm.GetNotificationChannel() {
		}
	}()

	ids := make([]JobID, len(utterances))
	var mu sync.Mutex
	for i, utt := range utterances {
		utt := utt
		for {
			id, err := jm.Submit(func() (interface{}, error) {
				lf, _, overflows := ctrl.ParseWithOverflows(utt)
				return parseOutcome{lf: lf, overflows: overflows}, nil
			}, utt)
			if err == nil {
				mu.Lock()
				ids[i] = id
				mu.Unlock()
				break
			}
			// Concurrency limit momentarily reached; the caller still
			// wants every utterance parsed, so retry submission rather
			// than drop it.
			time.Sleep(time.Millisecond)
		}
	}

	jm.wg.Wait()

	results := make([]Result, len(utterances))
	for i, id := range ids {
		job, _ := jm.GetJob(id)
		outcome, _ := job.GetResult().(parseOutcome)
		results[i] = Result{
			Index:     i,
			Utterance: utterances[i],
			LF:        outcome.lf,
			JSON:      project.Project(outcome.lf),
			Overflows: outcome.overflows,
		}
	}
	return results
}
