package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/peterh/liner"
)

// errAborted is returned when the user hits Ctrl-C or Ctrl-D at a prompt.
var errAborted = errors.New("aborted")

// prompter reads answers with line editing
type prompter struct {
	line *liner.State
}

func newPrompter() *prompter {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return &prompter{line: line}
}

// Close restores the terminal
func (p *prompter) Close() {
	_ = p.line.Close()
}

// ask prompts for a value, offering def as editable text. An empty answer
// with no default is asked again.
func (p *prompter) ask(name, def string) (string, error) {
	for {
		answer, err := p.line.PromptWithSuggestion(label(name), def, -1)
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				return "", errAborted
			}
			return "", fmt.Errorf("reading input: %w", err)
		}

		answer = strings.TrimSpace(answer)
		if answer != "" {
			return answer, nil
		}
	}
}

// confirm asks a yes/no question that defaults to no
func (p *prompter) confirm(question string) (bool, error) {
	answer, err := p.line.Prompt(question + " (y/N)? ")
	if err != nil {
		if err == liner.ErrPromptAborted || err == io.EOF {
			return false, nil
		}
		return false, fmt.Errorf("reading input: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// choose asks for a 1-based index into n items and returns it 0-based
func (p *prompter) choose(question string, n int) (int, error) {
	answer, err := p.line.Prompt(question)
	if err != nil {
		if err == liner.ErrPromptAborted || err == io.EOF {
			return -1, errAborted
		}
		return -1, fmt.Errorf("reading input: %w", err)
	}
	return parseChoice(answer, n)
}

// parseChoice validates a 1-based selection
func parseChoice(answer string, n int) (int, error) {
	idx, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || idx < 1 || idx > n {
		return -1, fmt.Errorf("invalid selection %q: pick a number from 1 to %d", strings.TrimSpace(answer), n)
	}
	return idx - 1, nil
}
