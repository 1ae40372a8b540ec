// Package input holds the interactive prompt collaborators: free text, a
// numbered select, and an external-editor prompt. Each can be mocked
// through the config's test hooks.
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Text prompts for a single line. When mock is set it is returned without
// touching the terminal.
func Text(r io.Reader, w io.Writer, prompt string, mock *string) (string, error) {
	if mock != nil {
		return *mock, nil
	}
	_, _ = fmt.Fprintf(w, "%s: ", prompt)
	line, err := readLine(r)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return line, nil
}

// Select prompts for one of options by number. When mock is set it indexes
// options directly.
func Select[T any](r io.Reader, w io.Writer, prompt string, options []T, mock *int) (T, error) {
	var zero T
	if len(options) == 0 {
		return zero, errors.New("no options to select from")
	}
	if mock != nil {
		if *mock < 0 || *mock >= len(options) {
			return zero, fmt.Errorf("mock select index %d out of range", *mock)
		}
		return options[*mock], nil
	}

	_, _ = fmt.Fprintln(w, prompt)
	for i, option := range options {
		_, _ = fmt.Fprintf(w, "%d) %v\n", i+1, option)
	}
	_, _ = fmt.Fprint(w, "> ")

	line, err := readLine(r)
	if err != nil {
		return zero, fmt.Errorf("read selection: %w", err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 1 || n > len(options) {
		return zero, fmt.Errorf("invalid selection %q", strings.TrimSpace(line))
	}
	return options[n-1], nil
}

// Editor opens $EDITOR (vi when unset) on a temp file seeded with seed and
// returns the saved contents.
func Editor(prompt, seed string, mock *string) (string, error) {
	if mock != nil {
		return *mock, nil
	}

	file, err := os.CreateTemp("", "lnr-*.md")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := file.Name()
	defer os.Remove(path)

	if _, err := file.WriteString(seed); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("seed temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	fmt.Println(prompt)
	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("run editor: %w", err)
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read edited file: %w", err)
	}
	return strings.TrimRight(string(edited), "\n"), nil
}

func readLine(r io.Reader) (string, error) {
	reader := bufio.NewReader(r)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
