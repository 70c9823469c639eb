// Package progress renders conversion progress on a terminal.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"

	"github.com/krrrr38/trello-2-gitlab/pkg/conversion"
)

var phaseMessages = map[conversion.Phase]struct {
	start, tick, done string
}{
	conversion.PhaseGrantAdmin:      {"Granting admin privileges...", "Granting privilege (user %d of %d)", "Admin privileges granted."},
	conversion.PhaseFetchMilestones: {"Fetching project milestones...", "Fetching milestone (%d of %d)", "Project milestones fetched."},
	conversion.PhaseConvertCards:    {"Starting cards conversion...", "Converting card (%d of %d)", "Cards converted."},
	conversion.PhaseRevokeAdmin:     {"Revoking admin privileges...", "Revoking privilege (user %d of %d)", "Admin privileges revoked."},
}

// Console writes progress lines to out and errors to errOut. Ticks rewrite the
// current line. It is safe for concurrent use.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	errOut  io.Writer
	success *color.Color
	failure *color.Color
	errors  int
	cards   int
}

func NewConsole() *Console {
	return NewConsoleWriters(os.Stdout, os.Stderr)
}

func NewConsoleWriters(out, errOut io.Writer) *Console {
	return &Console{
		out:     out,
		errOut:  errOut,
		success: color.New(color.FgCyan),
		failure: color.New(color.FgRed),
	}
}

// Errors returns the number of error messages reported so far.
func (c *Console) Errors() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors
}

// Cards returns the number of cards processed by a finished run.
func (c *Console) Cards() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cards
}

func (c *Console) Report(event conversion.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch e := event.(type) {
	case conversion.Init:
	case conversion.FetchingBoard:
		fmt.Fprintln(c.out, "Fetching Trello board...")
	case conversion.BoardFetched:
		c.success.Fprintln(c.out, "Trello board fetched.")
	case conversion.PhaseStarted:
		fmt.Fprintln(c.out, phaseMessages[e.Phase].start)
	case conversion.PhaseProgress:
		fmt.Fprintf(c.out, phaseMessages[e.Phase].tick+"\r", e.Index+1, e.Total)
	case conversion.PhaseErrors:
		fmt.Fprintln(c.out)
		for _, msg := range e.Errors {
			c.failure.Fprintln(c.errOut, msg)
			c.errors++
		}
	case conversion.PhaseDone:
		c.success.Fprintln(c.out, "\n"+phaseMessages[e.Phase].done)
	case conversion.Finished:
		c.cards = e.Total
		c.success.Fprintf(c.out, "\nConversion done (%d of %d cards).\n", e.Index, e.Total)
	}
}
