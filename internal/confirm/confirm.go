// Package confirm implements the interactive yes/no gate used before
// mutating operations.
package confirm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Prompter asks the operator a yes/no question on the terminal. Only "y" and
// "yes" (case-insensitive) are treated as approval; an empty line, EOF, or
// anything else declines.
type Prompter struct {
	in          io.Reader
	out         io.Writer
	autoApprove bool
	ask         func(a ...interface{}) string
}

// New creates a Prompter. autoApprove skips the prompt and answers yes,
// for non-interactive runs that have already opted in.
func New(in io.Reader, out io.Writer, autoApprove, colors bool) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	c := color.New(color.FgYellow, color.Bold)
	if !colors {
		c.DisableColor()
	}
	return &Prompter{in: in, out: out, autoApprove: autoApprove, ask: c.SprintFunc()}
}

// Confirm blocks until the operator answers or ctx is cancelled. There is no
// timeout; declining is the default for any non-affirmative input.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	if p.autoApprove {
		return true, nil
	}

	fmt.Fprintf(p.out, "%s [y/N] ", p.ask(question))

	answerChan := make(chan bool, 1)
	errorChan := make(chan error, 1)

	go func() {
		reader := bufio.NewReader(p.in)
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			errorChan <- fmt.Errorf("failed to read input: %w", err)
			return
		}
		answerChan <- accepted(line)
	}()

	select {
	case answer := <-answerChan:
		return answer, nil
	case err := <-errorChan:
		return false, err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func accepted(line string) bool {
	switch strings.TrimSpace(strings.ToLower(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
