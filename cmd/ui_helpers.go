// Copyright (c) 2025 Signin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
	"golang.org/x/term"

	"signin/cli/internal/result"
	"signin/cli/internal/terminal"
)

// spinnerFrames are braille frames similar to docker CLI.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// stdoutIsTerminal reports whether animations and prompts can be shown.
func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// startSpinner renders a one-line spinner in a pterm area with the cursor
// hidden. The returned function stops it and removes the line. When stdout is
// not a terminal nothing is drawn.
func startSpinner(text string) func() {
	if !stdoutIsTerminal() {
		return func() {}
	}
	cursor.Hide()
	area, err := pterm.DefaultArea.WithRemoveWhenDone(true).Start()
	if err != nil {
		cursor.Show()
		return func() {}
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(120 * time.Millisecond)
		defer t.Stop()
		i := 0
		area.Update(fmt.Sprintf("%s %s", spinnerFrames[0], text))
		for {
			select {
			case <-t.C:
				i++
				area.Update(fmt.Sprintf("%s %s", spinnerFrames[i%len(spinnerFrames)], text))
			case <-stop:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()
			_ = area.Stop()
			cursor.Show()
		})
	}
}

// awaitResult drains a result stream, showing the spinner while the latest
// value is Loading, and returns the terminal value.
func awaitResult[T any](ch <-chan result.Result[T], text string) result.Result[T] {
	var (
		last result.Result[T]
		stop = func() {}
	)
	for r := range ch {
		last = r
		if r.IsLoading() {
			stop()
			stop = startSpinner(text)
			continue
		}
		stop()
		stop = func() {}
	}
	stop()
	return last
}

// promptLine prints prompt and reads one line from r. On a terminal the
// prompt and answer are cleared afterwards.
func promptLine(r *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if stdoutIsTerminal() {
		terminal.ClearPreviousLines(len(prompt) + len(line))
	}
	return line, nil
}

// promptSecret reads a secret without echo when stdin is a terminal, and a
// plain line otherwise.
func promptSecret(r *bufio.Reader, prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return readSecretLine(r)
	}
	fmt.Print(prompt)
	b, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", err
	}
	terminal.ClearPreviousLines(len(prompt))
	return string(b), nil
}

// readSecretLine reads a single line, trimming only the line terminator.
func readSecretLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
