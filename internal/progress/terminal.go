// Package progress shows a spinner while long repository reads run.
package progress

import (
	"os"

	"golang.org/x/term"
)

// TerminalCapabilities describes what the output terminal supports.
type TerminalCapabilities struct {
	IsTTY           bool
	SupportsUnicode bool
}

// DetectTerminalCapabilities inspects f (normally stderr).
// UPDATECHANGELOG_ASCII=1 forces ASCII spinner frames.
func DetectTerminalCapabilities(f *os.File) TerminalCapabilities {
	isTTY := f != nil && term.IsTerminal(int(f.Fd()))
	forceASCII := os.Getenv("UPDATECHANGELOG_ASCII") == "1"

	return TerminalCapabilities{
		IsTTY:           isTTY,
		SupportsUnicode: isTTY && !forceASCII,
	}
}

// spinnerSet returns the spinner.CharSets index for caps.
func spinnerSet(caps TerminalCapabilities) int {
	if caps.SupportsUnicode {
		return 14 // ⠋ ⠙ ⠹ ⠸ ...
	}
	return 9 // | / - \
}
