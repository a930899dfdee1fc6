// Package terminal provides utilities for terminal operations such as clearing
// prompts once the user has answered them.
package terminal

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// defaultWidth is used when the terminal size cannot be read.
const defaultWidth = 80

// Width returns the current stdout width, or 80 when unknown.
func Width() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return defaultWidth
}

// linesToClear is how many rows a prompt of textLength characters occupied at
// the given width, plus the empty row the cursor sits on after Enter.
func linesToClear(textLength, width int) int {
	if width <= 0 {
		width = defaultWidth
	}
	lines := (textLength + width - 1) / width
	if lines < 1 {
		lines = 1
	}
	return lines + 1
}

// ClearPreviousLines clears a prompt and its answer from stdout.
// textLength is the number of characters printed (prompt + user input).
func ClearPreviousLines(textLength int) {
	ClearLines(os.Stdout, linesToClear(textLength, Width()))
}

// ClearLines moves up and erases n rows, leaving the cursor at the start of
// the top one.
func ClearLines(w io.Writer, n int) {
	for i := 0; i < n; i++ {
		fmt.Fprint(w, "\r\x1b[2K")
		if i < n-1 {
			fmt.Fprint(w, "\x1b[1A")
		}
	}
}
