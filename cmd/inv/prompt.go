package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

var stdin = bufio.NewReader(os.Stdin)

// readSecret prompts on stderr and reads a line from the terminal without echo.
func readSecret(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("cannot prompt for %q: stdin is not a terminal", strings.TrimSpace(prompt))
	}
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return string(b), nil
}

// readNewSecret prompts twice and requires both entries to match.
func readNewSecret(prompt string) (string, error) {
	first, err := readSecret(prompt)
	if err != nil {
		return "", err
	}
	if first == "" {
		return "", fmt.Errorf("empty passphrase")
	}
	second, err := readSecret("Repeat: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", fmt.Errorf("passphrases do not match")
	}
	return first, nil
}

// askYesNo shows prompt and reads a y/n answer. Anything but yes declines.
func askYesNo(prompt string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, fmt.Errorf("confirmation required: rerun with --yes")
	}
	fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("reading answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
