package progress

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// Indicator is a running spinner. A nil *Indicator is valid and does nothing.
type Indicator struct {
	s *spinner.Spinner
}

// Start begins a spinner on w with the given suffix text. It returns nil,
// and draws nothing, when enabled is false or w is not a terminal.
func Start(w io.Writer, suffix string, enabled bool, caps TerminalCapabilities) *Indicator {
	if !enabled || !caps.IsTTY {
		return nil
	}

	s := spinner.New(spinner.CharSets[spinnerSet(caps)], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + suffix
	s.Start()
	return &Indicator{s: s}
}

// Update replaces the suffix text.
func (i *Indicator) Update(suffix string) {
	if i == nil {
		return
	}
	i.s.Lock()
	i.s.Suffix = " " + suffix
	i.s.Unlock()
}

// Stop halts the spinner and clears its line.
func (i *Indicator) Stop() {
	if i == nil {
		return
	}
	i.s.Stop()
}
