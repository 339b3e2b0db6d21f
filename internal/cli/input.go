package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Seams for tests: the terminal is bypassed when stdin is not a TTY.
var (
	readPassword = term.ReadPassword
	isTerminal   = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
)

var errPasswordMismatch = errors.New("passwords do not match")

// GetPassword prints prompt to w and reads a password without echo. When
// stdin is not a terminal the next line from reader is used instead.
func GetPassword(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return "", err
	}

	if !isTerminal() {
		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// GetNewPassword asks twice and requires both entries to match.
func GetNewPassword(reader *bufio.Reader, w io.Writer) (string, error) {
	first, err := GetPassword(reader, "New password", w)
	if err != nil {
		return "", err
	}
	second, err := GetPassword(reader, "Repeat new password", w)
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errPasswordMismatch
	}
	return first, nil
}
