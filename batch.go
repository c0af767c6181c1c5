package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	parseerrors "atcparse/errors"
	"atcparse/jobmanager"
	"atcparse/logging"
	"atcparse/pipeline"
)

// RunBatch reads one utterance per line from inputPath, parses them
// concurrently through ctrl (spec §5), and writes the TSV rows
// "index \t original_command \t json_form" spec §6 specifies to
// outPath, or stdout if outPath is empty.
func RunBatch(ctrl *pipeline.Controller, inputPath, outPath string, log logging.Logger) error {
	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open batch input: %v", err)
	}
	defer f.Close()

	var utterances []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		utterances = append(utterances, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read batch input: %v", err)
	}

	results := jobmanager.ParseAll(ctrl, utterances, 4)

	out := os.Stdout
	if outPath != "" {
		w, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create batch output: %v", err)
		}
		defer w.Close()
		out = w
	}

	collector := parseerrors.NewCollector()
	writer := bufio.NewWriter(out)
	defer writer.Flush()
	for _, r := range results {
		if r.LF == "" {
			collector.Add(parseerrors.NewNoParseError(r.Utterance))
		}
		for category, count := range r.Overflows {
			if count > 0 {
				collector.Add(parseerrors.NewCapacityError(category, fmt.Sprintf("placeholders ran out in %d step(s)", count)))
			}
		}
		fmt.Fprintf(writer, "%d\t%s\t%s\n", r.Index, r.Utterance, r.JSON)
	}

	if len(collector.NoParses) > 0 {
		log.Warn("utterances with no parse", logging.Field{Key: "count", Value: len(collector.NoParses)})
	}
	if len(collector.Overflows) > 0 {
		log.Warn("capacity overflows during batch", logging.Field{Key: "count", Value: len(collector.Overflows)})
	}
	return nil
}
