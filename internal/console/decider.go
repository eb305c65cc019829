package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/lox/flip7/internal/game"
)

// Decider answers prompts by asking a person at a terminal
type Decider struct {
	r io.Reader
	w io.Writer

	once  sync.Once
	lines chan string
	err   error // set before lines is closed
}

var _ game.Decider = (*Decider)(nil)

// NewDecider creates a decider reading answers from r and writing prompts to w
func NewDecider(r io.Reader, w io.Writer) *Decider {
	return &Decider{r: r, w: w, lines: make(chan string)}
}

// Decide shows the table and prompt, then waits for one line of input. It
// returns io.EOF once the input is closed.
func (d *Decider) Decide(ctx context.Context, p game.Prompt) (string, error) {
	d.once.Do(func() { go d.readLines() })

	if p.Kind != game.UseSecondChance {
		_, _ = fmt.Fprint(d.w, RenderView(p.View))
	}
	_, _ = fmt.Fprintf(d.w, "%s\n%s ", PromptStyle.Render(p.Text), PromptStyle.Render(">"))

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-d.lines:
		if !ok {
			return "", d.err
		}
		return strings.TrimSpace(line), nil
	}
}

func (d *Decider) readLines() {
	scanner := bufio.NewScanner(d.r)
	for scanner.Scan() {
		d.lines <- scanner.Text()
	}
	d.err = scanner.Err()
	if d.err == nil {
		d.err = io.EOF
	}
	close(d.lines)
}
