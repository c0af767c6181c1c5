// Package repl is a small readline-backed loop over pipeline.Controller:
// one utterance per Enter, printing its logical form and JSON
// projection. Trimmed hard from the teacher's multi-language execution
// shell (completion, multiline buffering, background jobs) down to what
// a single-shot semantic parser needs.
package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"atcparse/pipeline"
	"atcparse/project"
)

// REPL drives one utterance at a time through a Controller.
type REPL struct {
	ctrl        *pipeline.Controller
	prompt      string
	historyFile string
	historySize int
}

// New builds a REPL over ctrl.
func New(ctrl *pipeline.Controller, prompt, historyFile string, historySize int) *REPL {
	if prompt == "" {
		prompt = "atc> "
	}
	if historySize <= 0 {
		historySize = 1000
	}
	return &REPL{ctrl: ctrl, prompt: prompt, historyFile: historyFile, historySize: historySize}
}

// Run loops reading one utterance per line until EOF or Ctrl+D.
func (r *REPL) Run() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          r.prompt,
		HistoryFile:     r.historyFile,
		HistoryLimit:    r.historySize,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %v", err)
	}
	defer rl.Close()

	fmt.Println("Enter an ATC utterance, or Ctrl+D to exit.")
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			fmt.Println("\nGoodbye!")
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ":quit" || line == ":exit" {
			return nil
		}

		lf := r.ctrl.Parse(line)
		fmt.Println(lf)
		fmt.Println(project.Project(lf))
	}
}
