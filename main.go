// Command atcparse is a thin CLI driver around the pipeline.Controller
// library: a single utterance on the command line, a batch file of one
// utterance per line, or an interactive REPL. None of this is part of
// the core; the core is reachable as a library independent of all of it.
package main

import (
	"flag"
	"fmt"
	"os"

	"atcparse/container"
	"atcparse/factory"
	"atcparse/logging"
	"atcparse/pipeline"
	"atcparse/project"
	"atcparse/repl"
	"atcparse/serialization"
)

// controllerDependency is the name the pipeline.Controller singleton is
// registered and resolved under.
const controllerDependency = "pipeline.Controller"

func main() {
	var (
		configPath     = flag.String("config", "", "path to configuration file")
		regexFile      = flag.String("regex", "", "path to the regex resource table")
		prepFile       = flag.String("prep", "", "path to the prepositions list")
		filterFile     = flag.String("filter", "", "path to the category filter")
		complexFile    = flag.String("complex", "", "path to the complex CCG rules")
		steps          = flag.Int("steps", 0, "number of refinement steps (0 = config default)")
		batchFile      = flag.String("batch", "", "batch-mode input file, one utterance per line")
		outFile        = flag.String("out", "", "batch-mode output file (default stdout)")
		debug          = flag.Bool("debug", false, "enable per-step debug trace")
		snapshotOut    = flag.String("snapshot-out", "", "write a DebugSnapshot of the single-utterance parse to this path")
		snapshotFormat = flag.String("snapshot-format", "binary", "snapshot encoding: binary, json, or msgpack")
		showVersion    = flag.Bool("version", false, "show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println("atcparse v0.1.0 - ATC utterance semantic parser")
		os.Exit(0)
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}
	if *regexFile != "" {
		cfg.Resources.RegexFile = *regexFile
	}
	if *prepFile != "" {
		cfg.Resources.PrepFile = *prepFile
	}
	if *filterFile != "" {
		cfg.Resources.FilterFile = *filterFile
	}
	if *complexFile != "" {
		cfg.Resources.ComplexFile = *complexFile
	}
	if *steps > 0 {
		cfg.Pipeline.NumberOfSteps = *steps
	}
	if *debug {
		cfg.Pipeline.Debug = true
	}

	log := logging.NewStderr()
	if cfg.Logging.Level == "debug" {
		log.SetLevel(logging.LevelDebug)
	}

	regexText, err := readResourceFile(cfg.Resources.RegexFile)
	if err != nil {
		log.Fatal(err.Error())
	}
	prepText, err := readResourceFile(cfg.Resources.PrepFile)
	if err != nil {
		log.Fatal(err.Error())
	}
	filterText, err := readResourceFile(cfg.Resources.FilterFile)
	if err != nil {
		log.Fatal(err.Error())
	}
	complexText, err := readResourceFile(cfg.Resources.ComplexFile)
	if err != nil {
		log.Fatal(err.Error())
	}

	f := &factory.PipelineFactory{
		RegexText:     regexText,
		PrepText:      prepText,
		FilterText:    filterText,
		ComplexText:   complexText,
		NumberOfSteps: cfg.Pipeline.NumberOfSteps,
	}
	di := container.NewDIContainer()
	if err := factory.RegisterSingleton(di, controllerDependency, f); err != nil {
		log.Fatal(fmt.Sprintf("failed to register pipeline factory: %v", err))
	}
	resolved, err := di.Resolve(controllerDependency)
	if err != nil {
		log.Fatal(fmt.Sprintf("failed to build pipeline: %v", err))
	}
	ctrl, ok := resolved.(*pipeline.Controller)
	if !ok {
		log.Fatal("pipeline.Controller dependency resolved to the wrong type")
	}

	switch {
	case *batchFile != "":
		if err := RunBatch(ctrl, *batchFile, *outFile, log); err != nil {
			log.Fatal(err.Error())
		}
	case flag.NArg() > 0:
		utterance := flag.Arg(0)
		printResult(ctrl, utterance, cfg.Pipeline.Debug, *snapshotOut, *snapshotFormat, log)
	default:
		repl.New(ctrl, cfg.REPL.Prompt, cfg.REPL.HistoryFile, cfg.REPL.HistorySize).Run()
	}
}

func printResult(ctrl *pipeline.Controller, utterance string, debug bool, snapshotOut, snapshotFormat string, log logging.Logger) {
	if !debug && snapshotOut == "" {
		lf := ctrl.Parse(utterance)
		fmt.Println(project.Project(lf))
		return
	}

	lf, traces, overflows := ctrl.ParseWithOverflows(utterance)
	if debug {
		for _, step := range traces {
			fmt.Printf("stage %d: %s -> %s\n", step.Stage, step.Stream, step.LF)
		}
	}
	fmt.Println(project.Project(lf))

	if snapshotOut == "" {
		return
	}
	snap := &serialization.DebugSnapshot{Utterance: utterance, Overflows: overflows}
	for _, step := range traces {
		snap.Steps = append(snap.Steps, serialization.StepRecord{Stage: step.Stage, Stream: step.Stream, LF: step.LF})
	}

	encoded, err := encodeSnapshot(snap, snapshotFormat)
	if err != nil {
		log.Error("failed to encode debug snapshot", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	if err := os.WriteFile(snapshotOut, encoded, 0o644); err != nil {
		log.Error("failed to write debug snapshot", logging.Field{Key: "error", Value: err.Error()})
	}
}

// encodeSnapshot looks up snap's wire encoding (binary, json, or msgpack)
// in the serialization registry and serializes through it.
func encodeSnapshot(snap *serialization.DebugSnapshot, format string) ([]byte, error) {
	if format == "" {
		format = "binary"
	}
	serializer, err := serialization.GetSerializer(format)
	if err != nil {
		return nil, err
	}
	return serializer.Serialize(snap)
}
